package sqlfunc

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/leapurl/pkg/querycursor"
	"github.com/leapstack-labs/leapurl/pkg/urlparse"
)

// Version information (set at build time).
var (
	Version   = "v0.1.0"
	BuildDate = "unknown"
	Source    = "unknown"
)

// ResultType is the SQL type a scalar function returns.
type ResultType int

// Result types.
const (
	ResultText ResultType = iota
	ResultInteger
)

// ScalarFunc describes one scalar SQL function.
type ScalarFunc struct {
	Name string
	// NArgs is the exact argument count, or -1 for a variadic function.
	NArgs int
	// MinArgs is the least number of arguments a variadic function accepts.
	MinArgs int
	Result  ResultType
	// NullSafe functions want NULL arguments passed through to Call. Hosts
	// may short-circuit every other function to NULL on a NULL argument.
	NullSafe bool
	Doc      string
	Call     func(args []Value) (Value, error)
}

// Variadic reports whether the function takes a variable argument count.
func (f ScalarFunc) Variadic() bool { return f.NArgs < 0 }

// Column is one column of the table function.
type Column struct {
	Name   string
	Hidden bool
}

// Table function column indexes.
const (
	ColQuery = iota
	ColRawSequence
	ColName
	ColValue
)

// TableFunc describes the url_query_each table function.
type TableFunc struct {
	Name    string
	Doc     string
	Columns []Column

	cursorOpts []querycursor.Option
}

// Open returns a cursor positioned on the first pair of source. A NULL
// source produces a cursor with no rows.
func (t TableFunc) Open(source Value) *querycursor.Cursor {
	c := querycursor.New(t.cursorOpts...)
	s, ok := Text(source)
	if !ok {
		c.Close()
		return c
	}
	c.Open(s)
	return c
}

// With returns a copy of t whose cursors also apply opts.
func (t TableFunc) With(opts ...querycursor.Option) TableFunc {
	t.cursorOpts = append(slices.Clip(t.cursorOpts), opts...)
	return t
}

// Schema returns the CREATE TABLE statement SQLite uses to declare the
// table function's columns.
func (t TableFunc) Schema() string {
	return "CREATE TABLE x(query HIDDEN, raw_sequence TEXT HIDDEN, name TEXT, value TEXT)"
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithCursorOptions sets the options used for every url_query_each cursor.
func WithCursorOptions(opts ...querycursor.Option) Option {
	return func(c *Catalog) {
		c.table.cursorOpts = append(c.table.cursorOpts, opts...)
	}
}

// Catalog is the ordered set of functions a host registers.
type Catalog struct {
	scalars []ScalarFunc
	table   TableFunc
	debug   string
}

// New builds the catalog. library names the host library and becomes the
// last line of url_debug().
func New(library string, opts ...Option) *Catalog {
	c := &Catalog{debug: Debug(library)}
	c.scalars = c.scalarFuncs()
	c.table = TableFunc{
		Name: "url_query_each",
		Doc:  "One row per name/value pair of a query string, decoded.",
		Columns: []Column{
			{Name: "query", Hidden: true},
			{Name: "raw_sequence", Hidden: true},
			{Name: "name"},
			{Name: "value"},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Debug renders the four-line url_debug() text.
func Debug(library string) string {
	return fmt.Sprintf("Version: %s\nDate: %s\nSource: %s\n%s", Version, BuildDate, Source, library)
}

// Scalars returns the scalar functions in registration order.
func (c *Catalog) Scalars() []ScalarFunc {
	out := make([]ScalarFunc, len(c.scalars))
	copy(out, c.scalars)
	return out
}

// Table returns the table function.
func (c *Catalog) Table() TableFunc { return c.table }

// Names returns every registered name: scalar functions first, then the
// table function.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.scalars)+1)
	for _, f := range c.scalars {
		names = append(names, f.Name)
	}
	return append(names, c.table.Name)
}

// Lookup finds a scalar function by name.
func (c *Catalog) Lookup(name string) (ScalarFunc, bool) {
	for _, f := range c.scalars {
		if f.Name == name {
			return f, true
		}
	}
	return ScalarFunc{}, false
}

func (c *Catalog) scalarFuncs() []ScalarFunc {
	part := func(name string, p urlparse.Part) ScalarFunc {
		return ScalarFunc{
			Name:   name,
			NArgs:  1,
			Result: ResultText,
			Doc:    fmt.Sprintf("Returns the %s portion of the given URL.", p),
			Call:   extract(p),
		}
	}

	return []ScalarFunc{
		{
			Name:     "url",
			NArgs:    -1,
			MinArgs:  1,
			Result:   ResultText,
			NullSafe: true,
			Doc:      "Builds a URL from a base URL and name/value part replacements.",
			Call:     callURL,
		},
		{
			Name:   "url_debug",
			NArgs:  0,
			Result: ResultText,
			Doc:    "Returns version, build date, source and library information.",
			Call: func([]Value) (Value, error) {
				return c.debug, nil
			},
		},
		{
			Name:   "url_escape",
			NArgs:  1,
			Result: ResultText,
			Doc:    "Percent-encodes the given text.",
			Call:   textFunc(urlparse.Escape),
		},
		part("url_fragment", urlparse.PartFragment),
		part("url_host", urlparse.PartHost),
		part("url_options", urlparse.PartOptions),
		part("url_password", urlparse.PartPassword),
		part("url_path", urlparse.PartPath),
		part("url_port", urlparse.PartPort),
		part("url_query", urlparse.PartQuery),
		{
			Name:     "url_querystring",
			NArgs:    -1,
			MinArgs:  2,
			Result:   ResultText,
			NullSafe: true,
			Doc:      "Builds a query string from alternating names and values.",
			Call:     callQueryString,
		},
		part("url_scheme", urlparse.PartScheme),
		{
			Name:   "url_unescape",
			NArgs:  1,
			Result: ResultText,
			Doc:    "Decodes percent-encoded text.",
			Call:   textFunc(urlparse.Unescape),
		},
		part("url_user", urlparse.PartUser),
		{
			Name:     "url_valid",
			NArgs:    1,
			Result:   ResultInteger,
			NullSafe: true,
			Doc:      "Returns 1 if the URL is well-formed, 0 otherwise.",
			Call:     callValid,
		},
		{
			Name:   "url_version",
			NArgs:  0,
			Result: ResultText,
			Doc:    "Returns the version string.",
			Call: func([]Value) (Value, error) {
				return Version, nil
			},
		},
		part("url_zoneid", urlparse.PartZoneID),
	}
}

func extract(p urlparse.Part) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		s, ok := Text(args[0])
		if !ok {
			return nil, nil
		}
		return nullable(urlparse.Extract(s, p)), nil
	}
}

func textFunc(fn func(string) string) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		s, ok := Text(args[0])
		if !ok {
			return nil, nil
		}
		return fn(s), nil
	}
}

func callValid(args []Value) (Value, error) {
	s, ok := Text(args[0])
	if ok && urlparse.Valid(s) {
		return int64(1), nil
	}
	return int64(0), nil
}

// callURL implements url(base, name1, value1, ...). A NULL or empty base
// starts from nothing and a NULL value removes the part.
func callURL(args []Value) (Value, error) {
	if len(args)%2 != 1 {
		return nil, &urlparse.MalformedInputError{Op: "url", Reason: "url() requires odd number of arguments"}
	}

	base, _ := Text(args[0])
	b, err := urlparse.NewBuilder(base)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(args); i += 2 {
		name, ok := Text(args[i])
		if !ok {
			return nil, &urlparse.MalformedInputError{Op: "url", Reason: fmt.Sprintf("part name in argument %d is NULL", i)}
		}
		p, err := urlparse.ParsePart(name)
		if err != nil {
			return nil, err
		}
		var value *string
		if s, ok := Text(args[i+1]); ok {
			value = &s
		}
		if err := b.Set(p, value); err != nil {
			return nil, err
		}
	}

	return b.String()
}

// callQueryString implements url_querystring(name1, value1, ...). NULL
// names and values are encoded as empty strings.
func callQueryString(args []Value) (Value, error) {
	texts := make([]string, len(args))
	for i, a := range args {
		texts[i] = TextOrEmpty(a)
	}
	return urlparse.QueryString(texts...)
}
