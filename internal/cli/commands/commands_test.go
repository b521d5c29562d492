package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapurl/internal/cli/config"
	"github.com/leapstack-labs/leapurl/pkg/sqlfunc"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseRows(t *testing.T) {
	res := parseRows([]string{"https://alex:pw@example.com:8443/a?b=c#d", "not a url"})

	assert.Equal(t, []string{"url", "valid", "scheme", "user", "password", "options", "host", "zoneid", "port", "path", "query", "fragment"}, res.Columns)
	require.Len(t, res.Rows, 2)

	recs := res.records()
	assert.Equal(t, true, recs[0]["valid"])
	assert.Equal(t, "https", recs[0]["scheme"])
	assert.Equal(t, "8443", recs[0]["port"])
	assert.Equal(t, "/a", recs[0]["path"])
	assert.Nil(t, recs[0]["options"])

	assert.Equal(t, false, recs[1]["valid"])
	assert.Nil(t, recs[1]["host"])
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		opts    BuildOptions
		want    string
		wantErr bool
	}{
		{
			name: "replace host and path",
			base: "https://api.github.com/repos?sort=asc",
			opts: BuildOptions{Set: []string{"host=github.com", "path=/users"}},
			want: "https://github.com/users?sort=asc",
		},
		{
			name: "from nothing",
			opts: BuildOptions{Set: []string{"scheme=https", "host=example.com"}},
			want: "https://example.com/",
		},
		{
			name: "unset",
			base: "https://example.com/?a=1#top",
			opts: BuildOptions{Unset: []string{"query", "FRAGMENT"}},
			want: "https://example.com/",
		},
		{
			name: "querystring",
			base: "https://example.com/search",
			opts: BuildOptions{QueryString: []string{"q=hello world", "page=2"}},
			want: "https://example.com/search?q=hello%20world&page=2",
		},
		{
			name:    "set without value",
			base:    "https://example.com",
			opts:    BuildOptions{Set: []string{"host"}},
			wantErr: true,
		},
		{
			name:    "unknown part",
			base:    "https://example.com",
			opts:    BuildOptions{Set: []string{"hostname=x"}},
			wantErr: true,
		},
		{
			name:    "bad base",
			base:    "not a url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildURL(tt.base, &tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEachRows(t *testing.T) {
	res, err := eachRows("a=1&&b=hello+world", &EachOptions{})
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{int64(0), "a", "1", "a=1"},
		{int64(1), "", "", ""},
		{int64(2), "b", "hello world", "b=hello+world"},
	}, res.Rows)

	res, err = eachRows("a=1&&b=2", &EachOptions{SkipEmpty: true})
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)

	res, err = eachRows("https://example.com/search?q=go&page=2", &EachOptions{FromURL: true})
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "q", res.Rows[0][1])

	res, err = eachRows("https://example.com/", &EachOptions{FromURL: true})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)

	_, err = eachRows("nope", &EachOptions{FromURL: true})
	require.Error(t, err)
}

func TestCheckURLs(t *testing.T) {
	inputs := []string{
		"https://t.me",
		"not",
		"wss://kasldjf.c",
		"http://[::1]:8080/",
		"https://example.com:99999",
	}

	for _, workers := range []int{0, 1, 3, 16} {
		results, err := checkURLs(context.Background(), inputs, workers)
		require.NoError(t, err)
		require.Len(t, results, len(inputs))

		for i, r := range results {
			assert.Equal(t, inputs[i], r.URL)
		}
		assert.True(t, results[0].Valid)
		assert.Equal(t, "t.me", *results[0].Host)
		assert.False(t, results[1].Valid)
		assert.NotEmpty(t, results[1].Reason)
		assert.True(t, results[2].Valid)
		assert.Equal(t, "[::1]", *results[3].Host)
		assert.False(t, results[4].Valid)
	}
}

func TestCheckURLs_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := checkURLs(ctx, []string{"https://example.com"}, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "urls.txt")
	require.NoError(t, os.WriteFile(file, []byte("https://t.me\n\n  not  \n"), 0o600))

	out, err := execute(t, NewCheckCommand(), "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "t.me")
	assert.Contains(t, out, "(2 rows)")

	_, err = execute(t, NewCheckCommand(), "--strict", "https://t.me", "not")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 urls are invalid")

	_, err = execute(t, NewCheckCommand(), "--strict", "https://t.me")
	require.NoError(t, err)
}

func TestReadLines(t *testing.T) {
	lines, err := readLines(strings.NewReader("a\n\n  b \r\nc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestFunctionRows(t *testing.T) {
	cat := sqlfunc.New("test library")
	res := functionRows(cat)

	require.Len(t, res.Rows, len(cat.Names()))
	for i, name := range cat.Names() {
		assert.Equal(t, name, res.Rows[i][0])
	}

	recs := res.records()
	assert.Equal(t, "1+", recs[0]["args"], "url is variadic")
	assert.Equal(t, "integer", recs[14]["returns"], "url_valid returns an integer")
	last := recs[len(recs)-1]
	assert.Equal(t, "url_query_each", last["name"])
	assert.Equal(t, "table", last["kind"])
}

func TestFunctionsCommand(t *testing.T) {
	out, err := execute(t, NewFunctionsCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "url_querystring")
	assert.Contains(t, out, "url_query_each")
}

func TestQueryCommand(t *testing.T) {
	out, err := execute(t, NewQueryCommand(),
		"SELECT url_scheme('https://example.com') AS scheme, url_port('https://example.com') AS port")
	require.NoError(t, err)
	assert.Contains(t, out, "https")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(1 rows)")
}

func TestQueryCommand_InputFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "q.sql")
	require.NoError(t, os.WriteFile(file, []byte(`
CREATE TABLE links(u TEXT);
INSERT INTO links VALUES ('https://a.example/?x=1'), ('https://b.example/');
SELECT url_host(u) AS host FROM links ORDER BY host;
`), 0o600))

	out, err := execute(t, NewQueryCommand(), "--input", file)
	require.NoError(t, err)
	assert.Contains(t, out, "a.example")
	assert.Contains(t, out, "b.example")
	assert.Contains(t, out, "(2 rows)")
}

func TestQueryCommand_Error(t *testing.T) {
	_, err := execute(t, NewQueryCommand(), "SELECT url_nope(1)")
	require.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"SELECT 1", []string{"SELECT 1"}},
		{"SELECT 1;", []string{"SELECT 1"}},
		{"SELECT 1; SELECT 2;", []string{"SELECT 1", "SELECT 2"}},
		{"SELECT 'a;b'; SELECT 2", []string{"SELECT 'a;b'", "SELECT 2"}},
		{" ; ;", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitStatements(tt.in))
		})
	}
}

func TestRenderResultSet(t *testing.T) {
	res := &resultSet{Columns: []string{"name", "value"}}
	res.append("a", "1,2")
	res.append("b|c", nil)

	tests := []struct {
		format string
		want   []string
	}{
		{"table", []string{"name", "value", "NULL", "(2 rows)"}},
		{"csv", []string{"name,value\n", "a,\"1,2\"\n", "b|c,NULL\n"}},
		{"markdown", []string{"| name | value |", "| --- | --- |", `| b\|c | NULL |`}},
		{"yaml", []string{"- name: a\n", "value: null"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, renderResultSet(&buf, res, tt.format))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestRenderJSON(t *testing.T) {
	res := &resultSet{Columns: []string{"name", "value"}}
	res.append("a", nil)

	var buf bytes.Buffer
	require.NoError(t, renderResultSet(&buf, res, "json"))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]any{{"name": "a", "value": nil}}, got)
}

func TestRenderEmpty(t *testing.T) {
	res := &resultSet{Columns: []string{"name"}}

	var buf bytes.Buffer
	require.NoError(t, renderResultSet(&buf, res, "table"))
	assert.Equal(t, "(0 rows)\n", buf.String())
}

func TestCheckCommand_MemFs(t *testing.T) {
	orig := appFs
	appFs = afero.NewMemMapFs()
	t.Cleanup(func() { appFs = orig })

	require.NoError(t, afero.WriteFile(appFs, "/urls.txt", []byte("https://t.me\nhttp://[::1]/\n"), 0o600))

	out, err := execute(t, NewCheckCommand(), "--file", "/urls.txt", "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "all urls are valid")

	_, err = execute(t, NewCheckCommand(), "--file", "/missing.txt")
	require.Error(t, err)
}
