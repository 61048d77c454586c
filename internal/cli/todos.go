package cli

import (
	"strings"

	"doto/internal/categories"
	"doto/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTodosCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "todos",
		Aliases: []string{"todo", "t"},
		Short:   "Todo commands",
	}
	cmd.AddCommand(newTodosListCmd(app))
	cmd.AddCommand(newTodosAddCmd(app))
	cmd.AddCommand(newTodosRemoveCmd(app))
	cmd.AddCommand(newTodosShowCmd(app))
	return cmd
}

func newTodosListCmd(app *App) *cobra.Command {
	var (
		category int
		active   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			st := cs.Snapshot()

			switch {
			case active:
				_, idx, ok := categories.ActiveCategory(st)
				if !ok {
					return writeErr(cmd, errNoActiveCategory)
				}
				return writeOut(cmd, app, map[string]any{"data": categories.TodosIn(st, idx)})
			case cmd.Flags().Changed("category"):
				return writeOut(cmd, app, map[string]any{"data": categories.TodosIn(st, category)})
			default:
				return writeOut(cmd, app, map[string]any{"data": st.Todos})
			}
		},
	}

	cmd.Flags().IntVar(&category, "category", 0, "Only todos of this category index")
	cmd.Flags().BoolVar(&active, "active", false, "Only todos of the active category")
	return cmd
}

func newTodosAddCmd(app *App) *cobra.Command {
	var category int

	cmd := &cobra.Command{
		Use:   "add <content...>",
		Short: "Add a todo to the active category (or --category)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args, " ")
			if err := categories.ValidateTodoContent(content); err != nil {
				return writeErr(cmd, err)
			}

			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			st := cs.Snapshot()

			idx := category
			if !cmd.Flags().Changed("category") {
				_, active, ok := categories.ActiveCategory(st)
				if !ok {
					return writeErr(cmd, errNoActiveCategory)
				}
				idx = active
			}
			if err := categories.ValidateIndex(st, idx); err != nil {
				return writeErr(cmd, err)
			}

			t := model.Todo{ID: uuid.NewString(), Content: content, CategoryIndex: idx}
			if err := cs.AddTodo(cmd.Context(), t.ID, t.Content, t.CategoryIndex); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	cmd.Flags().IntVar(&category, "category", 0, "Category index (default: active category)")
	return cmd
}

func newTodosRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <todo-id>",
		Aliases: []string{"done", "remove"},
		Short:   "Remove (check off) a todo; removing an unknown id is a no-op",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()

			before := len(cs.Snapshot().Todos)
			if err := cs.RemoveTodo(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			removed := before - len(cs.Snapshot().Todos)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "removed": removed}})
		},
	}
}

func newTodosShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <todo-id>",
		Short: "Show a todo and its category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			cs, _, closeFn, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeFn()
			st := cs.Snapshot()

			t, ok := categories.FindTodo(st, id)
			if !ok {
				return writeErr(cmd, errNotFound("todo", id))
			}
			var cat *model.Category
			if t.CategoryIndex >= 0 && t.CategoryIndex < len(st.Categories) {
				c := st.Categories[t.CategoryIndex]
				cat = &c
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"todo": t, "category": cat}})
		},
	}
}
