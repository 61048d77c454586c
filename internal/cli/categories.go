package cli

import (
	"fmt"
	"strconv"
	"strings"

	"doto/internal/categories"
	"doto/internal/model"

	"github.com/spf13/cobra"
)

type categoryView struct {
	Index  int         `json:"index"`
	Name   string      `json:"name"`
	Color  model.Color `json:"color"`
	Todos  int         `json:"todos"`
	Active bool        `json:"active"`
}

func categoryViews(st model.State) []categoryView {
	out := make([]categoryView, 0, len(st.Categories))
	for i, c := range st.Categories {
		out = append(out, categoryView{
			Index:  i,
			Name:   c.Name,
			Color:  c.Color,
			Todos:  categories.CountIn(st, i),
			Active: st.ActiveCategoryIndex != nil && *st.ActiveCategoryIndex == i,
		})
	}
	return out
}

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Category commands",
	}
	cmd.AddCommand(newCategoriesListCmd(app))
	cmd.AddCommand(newCategoriesAddCmd(app))
	cmd.AddCommand(newCategoriesUseCmd(app))
	cmd.AddCommand(newCategoriesMoveCmd(app, model.DirectionNext))
	cmd.AddCommand(newCategoriesMoveCmd(app, model.DirectionPrev))
	cmd.AddCommand(newCategoriesMoveArgCmd(app))
	cmd.AddCommand(newCategoriesActiveCmd(app))
	return cmd
}

func newCategoriesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with todo counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			return writeOut(cmd, app, map[string]any{"data": categoryViews(cs.Snapshot())})
		},
	}
}

func newCategoriesAddCmd(app *App) *cobra.Command {
	var (
		name  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			c := model.Color(strings.ToLower(strings.TrimSpace(color)))
			if err := categories.ValidateCategory(cs.Snapshot(), name, c); err != nil {
				return writeErr(cmd, err)
			}
			if err := cs.AddCategory(cmd.Context(), name, c); err != nil {
				return writeErr(cmd, err)
			}
			st := cs.Snapshot()
			views := categoryViews(st)
			return writeOut(cmd, app, map[string]any{"data": views[len(views)-1]})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Category name (unique)")
	cmd.Flags().StringVar(&color, "color", string(model.Colors[0]), "Category color (see `doto colors`)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCategoriesUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <index>",
		Short: "Set the active category by position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid index %q: %w", args[0], err))
			}
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			if err := categories.ValidateIndex(cs.Snapshot(), idx); err != nil {
				return writeErr(cmd, err)
			}
			if err := cs.SetActiveIndex(cmd.Context(), idx); err != nil {
				return writeErr(cmd, err)
			}
			return writeActive(cmd, app, cs.Snapshot())
		},
	}
}

func newCategoriesMoveCmd(app *App, dir model.Direction) *cobra.Command {
	short := "Activate the next category (wraps around)"
	if dir == model.DirectionPrev {
		short = "Activate the previous category (wraps around)"
	}
	return &cobra.Command{
		Use:   string(dir),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			if err := cs.SetActiveCategoryIndex(cmd.Context(), dir); err != nil {
				return writeErr(cmd, err)
			}
			return writeActive(cmd, app, cs.Snapshot())
		},
	}
}

func newCategoriesMoveArgCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <next|prev|down|up>",
		Short: "Move the active category in a direction (wraps around)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok := categories.ParseDirection(strings.ToLower(strings.TrimSpace(args[0])))
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid direction %q (want next|prev|down|up)", args[0]))
			}
			return newCategoriesMoveCmd(app, dir).RunE(cmd, nil)
		},
	}
}

func newCategoriesActiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "Show the active category (null when unset)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			return writeActive(cmd, app, cs.Snapshot())
		},
	}
}

func writeActive(cmd *cobra.Command, app *App, st model.State) error {
	c, idx, ok := categories.ActiveCategory(st)
	if !ok {
		return writeOut(cmd, app, map[string]any{"data": nil})
	}
	return writeOut(cmd, app, map[string]any{"data": categoryView{
		Index:  idx,
		Name:   c.Name,
		Color:  c.Color,
		Todos:  categories.CountIn(st, idx),
		Active: true,
	}})
}
