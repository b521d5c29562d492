// Package sqlfunc is the host-neutral catalog of SQL functions built on
// urlparse and querycursor.
//
// A Catalog lists every scalar function and the url_query_each table
// function under fixed names and in a fixed order. Host adapters (SQLite,
// DuckDB) translate their native values into []Value, call ScalarFunc.Call,
// and translate the result back. Nothing in this package knows about a
// particular database driver.
package sqlfunc
