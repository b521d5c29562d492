package duckdb

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/leapstack-labs/leapurl/pkg/querycursor"
	"github.com/leapstack-labs/leapurl/pkg/sqlfunc"
	"github.com/marcboeker/go-duckdb"
)

// typeSet holds the DuckDB types the functions use.
type typeSet struct {
	varchar duckdb.TypeInfo
	bigint  duckdb.TypeInfo
	anyType duckdb.TypeInfo
}

func newTypeSet() (*typeSet, error) {
	varchar, err := duckdb.NewTypeInfo(duckdb.TYPE_VARCHAR)
	if err != nil {
		return nil, err
	}
	bigint, err := duckdb.NewTypeInfo(duckdb.TYPE_BIGINT)
	if err != nil {
		return nil, err
	}
	anyType, err := duckdb.NewTypeInfo(duckdb.TYPE_ANY)
	if err != nil {
		return nil, err
	}
	return &typeSet{varchar: varchar, bigint: bigint, anyType: anyType}, nil
}

// scalarUDF adapts a catalog function to duckdb.ScalarFunc.
type scalarUDF struct {
	fn    sqlfunc.ScalarFunc
	types *typeSet
}

func (u *scalarUDF) Config() duckdb.ScalarFuncConfig {
	cfg := duckdb.ScalarFuncConfig{
		ResultTypeInfo:      u.types.varchar,
		SpecialNullHandling: u.fn.NullSafe,
	}
	if u.fn.Result == sqlfunc.ResultInteger {
		cfg.ResultTypeInfo = u.types.bigint
	}
	if u.fn.Variadic() {
		cfg.VariadicTypeInfo = u.types.anyType
		return cfg
	}
	for range u.fn.NArgs {
		cfg.InputTypeInfos = append(cfg.InputTypeInfos, u.types.varchar)
	}
	return cfg
}

func (u *scalarUDF) Executor() duckdb.ScalarFuncExecutor {
	return duckdb.ScalarFuncExecutor{
		RowExecutor: func(values []driver.Value) (any, error) {
			if u.fn.Variadic() && len(values) < u.fn.MinArgs {
				return nil, fmt.Errorf("%s: at least %d arguments are required", u.fn.Name, u.fn.MinArgs)
			}
			args := make([]sqlfunc.Value, len(values))
			for i, v := range values {
				args[i] = v
			}
			return u.fn.Call(args)
		},
	}
}

func registerScalar(conn *sql.Conn, types *typeSet, f sqlfunc.ScalarFunc) error {
	return duckdb.RegisterScalarUDF(conn, f.Name, &scalarUDF{fn: f, types: types})
}

// eachSource produces url_query_each rows for one bound argument.
type eachSource struct {
	fn      sqlfunc.TableFunc
	source  sqlfunc.Value
	columns []duckdb.ColumnInfo
	cur     *querycursor.Cursor
}

func (s *eachSource) ColumnInfos() []duckdb.ColumnInfo { return s.columns }

func (s *eachSource) Cardinality() *duckdb.CardinalityInfo { return nil }

func (s *eachSource) Init() {
	s.cur = s.fn.Open(s.source)
}

func (s *eachSource) FillRow(row duckdb.Row) (bool, error) {
	if s.cur == nil || s.cur.Exhausted() {
		return false, nil
	}
	r, err := s.cur.Current()
	if err != nil {
		return false, err
	}
	if err := row.SetRowValue(0, r.RowID); err != nil {
		return false, err
	}
	if err := row.SetRowValue(1, r.Name); err != nil {
		return false, err
	}
	if err := row.SetRowValue(2, r.Value); err != nil {
		return false, err
	}
	s.cur.Next()
	return true, nil
}

// eachColumns are the DuckDB output columns. DuckDB has no hidden
// columns, so the bound query is not repeated in every row.
func eachColumns(types *typeSet) []duckdb.ColumnInfo {
	return []duckdb.ColumnInfo{
		{Name: "rowid", T: types.bigint},
		{Name: "name", T: types.varchar},
		{Name: "value", T: types.varchar},
	}
}

func registerTable(conn *sql.Conn, types *typeSet, table sqlfunc.TableFunc) error {
	columns := eachColumns(types)
	udf := duckdb.RowTableFunction{
		Config: duckdb.TableFunctionConfig{
			Arguments: []duckdb.TypeInfo{types.varchar},
		},
		BindArguments: func(_ map[string]any, args ...any) (duckdb.RowTableSource, error) {
			var source sqlfunc.Value
			if len(args) > 0 {
				source = args[0]
			}
			return &eachSource{fn: table, source: source, columns: columns}, nil
		},
	}
	return duckdb.RegisterTableUDF(conn, table.Name, udf)
}
