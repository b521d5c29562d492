package urlparse

import (
	"strings"
)

// QueryString encodes alternating name/value arguments as
// "name=value&name=value". Every name and value is escaped with Escape, so a
// space becomes "%20".
func QueryString(args ...string) (string, error) {
	if len(args) < 2 {
		return "", malformed("url_querystring", "at least 2 arguments are required for url_querystring")
	}
	if len(args)%2 != 0 {
		return "", malformed("url_querystring", "url_querystring requires an even number of arguments")
	}

	var b strings.Builder
	for i := 0; i < len(args); i += 2 {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(Escape(args[i]))
		b.WriteByte('=')
		b.WriteString(Escape(args[i+1]))
	}
	return b.String(), nil
}
