package urlparse

import "strings"

// Builder accumulates part replacements on top of a base URL and serializes
// the result. The zero value is not usable; call NewBuilder.
type Builder struct {
	u *ParsedURL
}

// NewBuilder starts from base. An empty base starts from nothing; an
// unparsable base is a *MalformedInputError.
func NewBuilder(base string) (*Builder, error) {
	if base == "" {
		return &Builder{u: &ParsedURL{}}, nil
	}
	u, err := Parse(base)
	if err != nil {
		return nil, &MalformedInputError{Op: "url", Reason: "Error initializing URL in the first argument", Err: err}
	}
	return &Builder{u: u.clone()}, nil
}

// Set replaces one part. A nil value removes it. Setting the same part twice
// keeps the last value.
func (b *Builder) Set(p Part, value *string) error {
	if value == nil {
		b.u.set(p, nil)
		if p == PartHost {
			b.u.zoneID = nil
		}
		return nil
	}
	v := *value

	switch p {
	case PartScheme:
		if !validScheme(v) {
			return malformed("url", "Invalid 'scheme' value")
		}
		v = strings.ToLower(v)
	case PartHost:
		host, zone, port, reason := splitHostPort(v)
		if reason != "" || port != nil || strings.Contains(v, ":") && !strings.HasPrefix(v, "[") {
			return malformed("url", "Invalid 'host' value")
		}
		if zone != nil {
			b.u.zoneID = zone
		}
		v = host
	case PartPort:
		port, ok := normalizePort(v)
		if !ok {
			return malformed("url", "Invalid 'port' value")
		}
		v = port
	case PartZoneID:
		if !validZoneID(v) {
			return malformed("url", "Invalid 'zoneid' value")
		}
	case PartUser, PartPassword, PartOptions, PartPath, PartQuery, PartFragment:
	default:
		return malformed("url", "unknown url part '%s'", p)
	}

	b.u.set(p, &v)
	return nil
}

// SetString is Set with a non-nil value.
func (b *Builder) SetString(p Part, value string) error {
	return b.Set(p, &value)
}

// String serializes the accumulated URL and re-parses it, so the result is
// always a URL that Parse accepts.
func (b *Builder) String() (string, error) {
	s, err := b.u.serialize()
	if err != nil {
		return "", err
	}
	if _, err := Parse(s); err != nil {
		return "", &MalformedInputError{Op: "url", Reason: "result is not a valid URL", Err: err}
	}
	return s, nil
}

// Build applies name/value pairs to base and serializes the result. Part
// names are matched case-insensitively.
func Build(base string, pairs ...string) (string, error) {
	if len(pairs)%2 != 0 {
		return "", malformed("url", "url() requires odd number of arguments")
	}
	b, err := NewBuilder(base)
	if err != nil {
		return "", err
	}
	for i := 0; i < len(pairs); i += 2 {
		p, err := ParsePart(pairs[i])
		if err != nil {
			return "", err
		}
		if err := b.SetString(p, pairs[i+1]); err != nil {
			return "", err
		}
	}
	return b.String()
}
