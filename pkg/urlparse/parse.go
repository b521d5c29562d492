package urlparse

import (
	"net/netip"
	"strconv"
	"strings"
)

// maxSchemeLen bounds the scheme name, matching libcurl.
const maxSchemeLen = 40

// schemeFile is the only scheme whose URLs may omit the host.
const schemeFile = "file"

// hostForbidden lists bytes that may not appear in a registered host name.
const hostForbidden = " \r\n\t/:#?!@{}[]\\$'\"^`*<>=;,+&()%"

// ParsedURL is a read-only view over a parsed URL. Every component is
// optional; a nil component is absent from the input.
type ParsedURL struct {
	scheme   *string
	user     *string
	password *string
	options  *string
	host     *string
	zoneID   *string
	port     *string
	path     *string
	query    *string
	fragment *string
}

// Parse parses input into its components. It fails with an
// *UnparsableURLError when input does not match the grammar.
func Parse(input string) (*ParsedURL, error) {
	fail := func(reason string) (*ParsedURL, error) {
		return nil, &UnparsableURLError{Input: input, Reason: reason}
	}

	if input == "" {
		return fail(reasonEmpty)
	}
	for i := 0; i < len(input); i++ {
		if c := input[i]; c <= ' ' || c == 0x7f {
			return fail(reasonBadByte)
		}
	}

	scheme, rest, ok := splitScheme(input)
	if !ok {
		return fail(reasonNoScheme)
	}

	slashes := 0
	for slashes < len(rest) && rest[slashes] == '/' && slashes < 4 {
		slashes++
	}
	if slashes < 1 || slashes > 3 {
		return fail(reasonBadSlashes)
	}

	u := &ParsedURL{scheme: ptr(strings.ToLower(scheme))}

	if *u.scheme == schemeFile && slashes != 2 {
		// file:/path and file:///path have no authority
		rest = rest[slashes-1:]
	} else {
		rest = rest[slashes:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		if reason := u.parseAuthority(rest[:end]); reason != "" {
			return fail(reason)
		}
		rest = rest[end:]
	}

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		if i+1 < len(rest) {
			u.fragment = ptr(rest[i+1:])
		}
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		if i+1 < len(rest) {
			u.query = ptr(rest[i+1:])
		}
		rest = rest[:i]
	}
	if rest == "" {
		rest = "/"
	}
	u.path = ptr(rest)

	return u, nil
}

// splitScheme splits "scheme:rest". The scheme must start with a letter and
// contain only letters, digits, '+', '-' and '.'.
func splitScheme(s string) (scheme, rest string, ok bool) {
	for i := 0; i < len(s) && i <= maxSchemeLen; i++ {
		c := s[i]
		switch {
		case isAlpha(c):
		case i > 0 && (isDigit(c) || c == '+' || c == '-' || c == '.'):
		case i > 0 && c == ':':
			return s[:i], s[i+1:], true
		default:
			return "", "", false
		}
	}
	return "", "", false
}

func validScheme(s string) bool {
	if s == "" || len(s) > maxSchemeLen {
		return false
	}
	scheme, _, ok := splitScheme(s + ":")
	return ok && scheme == s
}

// parseAuthority fills login, host, zone id and port. It returns a failure
// reason or "".
func (u *ParsedURL) parseAuthority(authority string) string {
	hostport := authority
	if at := strings.IndexByte(authority, '@'); at >= 0 {
		u.parseLogin(authority[:at])
		hostport = authority[at+1:]
	}

	host, zone, port, reason := splitHostPort(hostport)
	if reason != "" {
		return reason
	}
	u.host = ptr(host)
	u.zoneID = zone
	u.port = port
	return ""
}

// parseLogin splits "user:password;options". Options are only recognised for
// schemes that define them; elsewhere ';' is part of the password.
func (u *ParsedURL) parseLogin(login string) {
	psep := strings.IndexByte(login, ':')
	osep := -1
	if HasOptions(*u.scheme) {
		osep = strings.IndexByte(login, ';')
	}
	// a ':' after the ';' belongs to the options
	if psep >= 0 && osep >= 0 && psep > osep {
		psep = -1
	}

	userEnd := len(login)
	if psep >= 0 {
		userEnd = psep
	}
	if osep >= 0 && osep < userEnd {
		userEnd = osep
	}
	u.user = ptr(login[:userEnd])

	if psep >= 0 {
		passEnd := len(login)
		if osep > psep {
			passEnd = osep
		}
		u.password = ptr(login[psep+1 : passEnd])
	}
	if osep >= 0 {
		u.options = ptr(login[osep+1:])
	}
}

// splitHostPort validates "host[:port]" or "[v6%zone][:port]".
func splitHostPort(hostport string) (host string, zone, port *string, reason string) {
	if hostport == "" {
		return "", nil, nil, reasonNoHost
	}

	var portStr string
	hasPort := false

	if hostport[0] == '[' {
		end := strings.IndexByte(hostport, ']')
		if end < 0 {
			return "", nil, nil, reasonBadIPv6
		}
		after := hostport[end+1:]
		if after != "" {
			if after[0] != ':' {
				return "", nil, nil, reasonBadHost
			}
			portStr, hasPort = after[1:], true
		}
		host, zone, reason = parseIPv6Literal(hostport[:end+1])
		if reason != "" {
			return "", nil, nil, reason
		}
	} else {
		host = hostport
		if i := strings.IndexByte(hostport, ':'); i >= 0 {
			host, portStr, hasPort = hostport[:i], hostport[i+1:], true
		}
		if reason = checkHostname(host); reason != "" {
			return "", nil, nil, reason
		}
	}

	if hasPort && portStr != "" {
		p, ok := normalizePort(portStr)
		if !ok {
			return "", nil, nil, reasonBadPort
		}
		port = &p
	}
	return host, zone, port, ""
}

// parseIPv6Literal validates "[addr%zone]" and returns "[addr]" and the zone.
// A zone written as "%25id" is the percent-encoded form of "%id".
func parseIPv6Literal(literal string) (host string, zone *string, reason string) {
	addr := literal[1 : len(literal)-1]
	if i := strings.IndexByte(addr, '%'); i >= 0 {
		z := addr[i+1:]
		addr = addr[:i]
		if len(z) > 2 && strings.HasPrefix(z, "25") {
			z = z[2:]
		}
		if !validZoneID(z) {
			return "", nil, reasonBadIPv6
		}
		zone = &z
	}
	ip, err := netip.ParseAddr(addr)
	if err != nil || !ip.Is6() {
		return "", nil, reasonBadIPv6
	}
	return "[" + addr + "]", zone, ""
}

func checkHostname(host string) string {
	if host == "" {
		return reasonNoHost
	}
	if strings.ContainsAny(host, hostForbidden) {
		return reasonBadHost
	}
	return ""
}

func validZoneID(z string) bool {
	if z == "" {
		return false
	}
	for i := 0; i < len(z); i++ {
		if !isUnreserved(z[i]) {
			return false
		}
	}
	return true
}

// normalizePort accepts 0-65535 written in decimal digits and drops leading
// zeros.
func normalizePort(s string) (string, bool) {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return "", false
		}
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(n, 10), true
}

// Get returns the requested component, or nil when it is absent.
func (u *ParsedURL) Get(p Part) *string {
	switch p {
	case PartScheme:
		return u.scheme
	case PartUser:
		return u.user
	case PartPassword:
		return u.password
	case PartOptions:
		return u.options
	case PartHost:
		return u.host
	case PartZoneID:
		return u.zoneID
	case PartPort:
		return u.port
	case PartPath:
		return u.path
	case PartQuery:
		return u.query
	case PartFragment:
		return u.fragment
	}
	return nil
}

// Scheme returns the lower-cased scheme.
func (u *ParsedURL) Scheme() *string { return u.scheme }

// User returns the user name from the userinfo.
func (u *ParsedURL) User() *string { return u.user }

// Password returns the password from the userinfo.
func (u *ParsedURL) Password() *string { return u.password }

// Options returns the ";options" trailer of the userinfo.
func (u *ParsedURL) Options() *string { return u.options }

// Host returns the host. IPv6 literals keep their brackets and drop the zone.
func (u *ParsedURL) Host() *string { return u.host }

// ZoneID returns the IPv6 zone identifier.
func (u *ParsedURL) ZoneID() *string { return u.zoneID }

// Port returns the decimal port.
func (u *ParsedURL) Port() *string { return u.port }

// Path returns the path; "/" when the input had none.
func (u *ParsedURL) Path() *string { return u.path }

// Query returns the text between '?' and '#'.
func (u *ParsedURL) Query() *string { return u.query }

// Fragment returns the text after '#'.
func (u *ParsedURL) Fragment() *string { return u.fragment }

// String serializes the URL.
func (u *ParsedURL) String() string {
	s, _ := u.serialize()
	return s
}

func (u *ParsedURL) clone() *ParsedURL {
	c := *u
	return &c
}

func (u *ParsedURL) set(p Part, v *string) {
	switch p {
	case PartScheme:
		u.scheme = v
	case PartUser:
		u.user = v
	case PartPassword:
		u.password = v
	case PartOptions:
		u.options = v
	case PartHost:
		u.host = v
	case PartZoneID:
		u.zoneID = v
	case PartPort:
		u.port = v
	case PartPath:
		u.path = v
	case PartQuery:
		u.query = v
	case PartFragment:
		u.fragment = v
	}
}

// serialize writes the URL back out. Scheme and host are required, except
// that a file URL may omit the host.
func (u *ParsedURL) serialize() (string, error) {
	if u.scheme == nil {
		return "", malformed("url", "no scheme part in the URL")
	}
	if u.host == nil && *u.scheme != schemeFile {
		return "", malformed("url", "no host part in the URL")
	}

	var b strings.Builder
	b.WriteString(*u.scheme)
	b.WriteString("://")

	if u.host != nil {
		u.writeAuthority(&b)
	}

	path := deref(u.path)
	if !strings.HasPrefix(path, "/") {
		b.WriteByte('/')
	}
	b.WriteString(escapeBytes(path, "?#"))

	if u.query != nil {
		b.WriteByte('?')
		b.WriteString(escapeBytes(*u.query, "#"))
	}
	if u.fragment != nil {
		b.WriteByte('#')
		b.WriteString(*u.fragment)
	}
	return b.String(), nil
}

// writeAuthority writes "[login@]host[:port]". Bytes that would end a login
// field early are percent-encoded. Options are only written for schemes that
// define them.
func (u *ParsedURL) writeAuthority(b *strings.Builder) {
	options := HasOptions(*u.scheme)
	loginDelims := "@/?#"
	if options {
		loginDelims += ";"
	}

	hasOptions := options && u.options != nil
	if u.user != nil || u.password != nil || hasOptions {
		b.WriteString(escapeBytes(deref(u.user), loginDelims+":"))
		if u.password != nil {
			b.WriteByte(':')
			b.WriteString(escapeBytes(*u.password, loginDelims))
		}
		if hasOptions {
			b.WriteByte(';')
			b.WriteString(escapeBytes(*u.options, "@/?#"))
		}
		b.WriteByte('@')
	}

	host := *u.host
	if u.zoneID != nil && strings.HasPrefix(host, "[") && strings.HasSuffix(host, "]") {
		host = host[:len(host)-1] + "%25" + *u.zoneID + "]"
	}
	b.WriteString(host)

	if u.port != nil {
		b.WriteByte(':')
		b.WriteString(*u.port)
	}
}

// Extract parses input and returns one part of it. Unparsable input and
// absent parts both yield nil.
func Extract(input string, p Part) *string {
	u, err := Parse(input)
	if err != nil {
		return nil
	}
	return u.Get(p)
}

// Valid reports whether input parses.
func Valid(input string) bool {
	_, err := Parse(input)
	return err == nil
}

func ptr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isAlpha(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
