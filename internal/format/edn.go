package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes an EDN rendering of v.
//
// Values go through JSON first so struct tags decide field names; JSON keys become
// kebab-case keywords (categoryIndex => :category-index).
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}

	var buf bytes.Buffer
	writeEDNValue(&buf, x, 0, pretty)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

func writeEDNValue(buf *bytes.Buffer, v any, level int, pretty bool) {
	switch t := v.(type) {
	case nil:
		buf.WriteString("nil")
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	case string:
		buf.WriteString(strconv.Quote(t))
	case float64:
		// JSON numbers decode as float64; print integral values without a fraction.
		if float64(int64(t)) == t {
			buf.WriteString(strconv.FormatInt(int64(t), 10))
			return
		}
		buf.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case []any:
		items := make([]func(), 0, len(t))
		for _, it := range t {
			it := it
			items = append(items, func() { writeEDNValue(buf, it, level+1, pretty) })
		}
		writeEDNColl(buf, '[', ']', items, level, pretty)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		items := make([]func(), 0, len(keys))
		for _, k := range keys {
			k := k
			items = append(items, func() {
				buf.WriteString(":" + ednKeyword(k) + " ")
				writeEDNValue(buf, t[k], level+1, pretty)
			})
		}
		writeEDNColl(buf, '{', '}', items, level, pretty)
	default:
		buf.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func writeEDNColl(buf *bytes.Buffer, open, close byte, items []func(), level int, pretty bool) {
	buf.WriteByte(open)
	if len(items) == 0 {
		buf.WriteByte(close)
		return
	}
	pad := strings.Repeat("  ", level+1)
	for i, item := range items {
		switch {
		case pretty:
			buf.WriteByte('\n')
			buf.WriteString(pad)
		case i > 0:
			buf.WriteByte(' ')
		}
		item()
	}
	if pretty {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat("  ", level))
	}
	buf.WriteByte(close)
}

func ednKeyword(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
