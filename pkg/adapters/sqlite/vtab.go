package sqlite

import (
	"errors"
	"slices"

	"github.com/leapstack-labs/leapurl/pkg/querycursor"
	"github.com/leapstack-labs/leapurl/pkg/sqlfunc"
	"modernc.org/sqlite/vtab"
)

// argSkipEmpty is the module argument that drops empty segments.
const argSkipEmpty = "skip_empty"

// idxQuery marks the plan where the query column is bound by equality.
const idxQuery = 1

var errQueryRequired = errors.New("query argument is required")

// module implements vtab.Module for url_query_each.
type module struct {
	table sqlfunc.TableFunc
}

// Create declares the table. args holds module name, database name, table
// name and then the module arguments.
func (m *module) Create(ctx vtab.Context, args []string) (vtab.Table, error) {
	if err := ctx.Declare(m.table.Schema()); err != nil {
		return nil, err
	}
	t := m.table
	if len(args) > 3 && slices.Contains(args[3:], argSkipEmpty) {
		t = t.With(querycursor.WithSkipEmpty())
	}
	return &table{fn: t}, nil
}

// Connect reconnects to an existing table; it behaves like Create.
func (m *module) Connect(ctx vtab.Context, args []string) (vtab.Table, error) {
	return m.Create(ctx, args)
}

type table struct {
	fn sqlfunc.TableFunc
}

// BestIndex accepts only plans that bind the hidden query column with '='.
func (t *table) BestIndex(info *vtab.IndexInfo) error {
	seen := false
	for i := range info.Constraints {
		c := &info.Constraints[i]
		if c.Column != sqlfunc.ColQuery || c.Op != vtab.OpEQ {
			continue
		}
		seen = true
		if !c.Usable {
			continue
		}
		c.ArgIndex = 0
		c.Omit = true
		info.IdxNum = idxQuery
		info.EstimatedCost = 1
		info.EstimatedRows = 100
		return nil
	}
	if !seen {
		return errQueryRequired
	}
	// Only reachable in join planning; steer SQLite to another order.
	info.EstimatedCost = 1e99
	info.EstimatedRows = 1 << 40
	return nil
}

func (t *table) Open() (vtab.Cursor, error) {
	return &cursor{fn: t.fn}, nil
}

func (t *table) Disconnect() error { return nil }

func (t *table) Destroy() error { return nil }

type cursor struct {
	fn  sqlfunc.TableFunc
	cur *querycursor.Cursor
}

func (c *cursor) Filter(idxNum int, _ string, vals []vtab.Value) error {
	if c.cur != nil {
		c.cur.Close()
	}
	var source sqlfunc.Value
	if idxNum == idxQuery && len(vals) > 0 {
		source = vals[0]
	}
	c.cur = c.fn.Open(source)
	return nil
}

func (c *cursor) Next() error {
	c.cur.Next()
	return nil
}

func (c *cursor) Eof() bool {
	return c.cur == nil || c.cur.Exhausted()
}

func (c *cursor) Column(col int) (vtab.Value, error) {
	row, err := c.cur.Current()
	if err != nil {
		return nil, err
	}
	switch col {
	case sqlfunc.ColQuery:
		return c.cur.Source(), nil
	case sqlfunc.ColRawSequence:
		return row.Raw, nil
	case sqlfunc.ColName:
		return row.Name, nil
	case sqlfunc.ColValue:
		return row.Value, nil
	default:
		return nil, nil
	}
}

func (c *cursor) Rowid() (int64, error) {
	row, err := c.cur.Current()
	if err != nil {
		return 0, err
	}
	return row.RowID, nil
}

func (c *cursor) Close() error {
	if c.cur != nil {
		c.cur.Close()
	}
	return nil
}
