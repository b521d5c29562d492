package commands

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// resultSet is a fully read query result, in column order.
type resultSet struct {
	Columns []string
	Rows    [][]any
}

func (r *resultSet) append(values ...any) {
	r.Rows = append(r.Rows, values)
}

// readRows drains rows into a resultSet.
func readRows(rows *sql.Rows) (*resultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &resultSet{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		for i, val := range values {
			// Convert []byte to string for readability
			if b, ok := val.([]byte); ok {
				values[i] = string(b)
			}
		}
		res.Rows = append(res.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func renderResults(w io.Writer, rows *sql.Rows, format string) error {
	res, err := readRows(rows)
	if err != nil {
		return err
	}
	return renderResultSet(w, res, format)
}

func renderResultSet(w io.Writer, res *resultSet, format string) error {
	switch format {
	case "json":
		return renderJSON(w, res)
	case "csv":
		return renderCSV(w, res)
	case "md", "markdown":
		return renderMarkdown(w, res)
	case "yaml":
		return renderYAML(w, res)
	default:
		return renderTable(w, res)
	}
}

func renderTable(w io.Writer, res *resultSet) error {
	if len(res.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(res.Columns))
	for i, col := range res.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, values := range res.Rows {
		row := make(table.Row, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(res.Rows))
	return nil
}

// records returns one map per row, keyed by column name.
func (r *resultSet) records() []map[string]any {
	out := make([]map[string]any, 0, len(r.Rows))
	for _, values := range r.Rows {
		rec := make(map[string]any, len(r.Columns))
		for i, col := range r.Columns {
			rec[col] = values[i]
		}
		out = append(out, rec)
	}
	return out
}

func renderJSON(w io.Writer, res *resultSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res.records())
}

// renderYAML writes a sequence of mappings that keep column order.
func renderYAML(w io.Writer, res *resultSet) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, values := range res.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, col := range res.Columns {
			var v yaml.Node
			if err := v.Encode(values[i]); err != nil {
				return err
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: col}, &v)
		}
		seq.Content = append(seq.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(seq); err != nil {
		return err
	}
	return enc.Close()
}

func renderCSV(w io.Writer, res *resultSet) error {
	_, _ = fmt.Fprintln(w, strings.Join(res.Columns, ","))

	for _, row := range res.Rows {
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = escapeCSV(formatValue(v))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func renderMarkdown(w io.Writer, res *resultSet) error {
	if len(res.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(res.Columns, " | "))
	seps := make([]string, len(res.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range res.Rows {
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = strings.ReplaceAll(formatValue(v), "|", `\|`)
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// optional converts a missing component to a NULL cell.
func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
