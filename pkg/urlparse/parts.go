package urlparse

import "strings"

// Part names one component of a URL.
type Part int

// URL parts, in serialization order.
const (
	PartScheme Part = iota
	PartUser
	PartPassword
	PartOptions
	PartHost
	PartZoneID
	PartPort
	PartPath
	PartQuery
	PartFragment
)

var partNames = [...]string{
	PartScheme:   "scheme",
	PartUser:     "user",
	PartPassword: "password",
	PartOptions:  "options",
	PartHost:     "host",
	PartZoneID:   "zoneid",
	PartPort:     "port",
	PartPath:     "path",
	PartQuery:    "query",
	PartFragment: "fragment",
}

// Parts returns every part in serialization order.
func Parts() []Part {
	parts := make([]Part, len(partNames))
	for i := range partNames {
		parts[i] = Part(i)
	}
	return parts
}

func (p Part) String() string {
	if p < 0 || int(p) >= len(partNames) {
		return "unknown"
	}
	return partNames[p]
}

// ParsePart resolves a part name case-insensitively.
func ParsePart(name string) (Part, error) {
	for i, n := range partNames {
		if strings.EqualFold(n, name) {
			return Part(i), nil
		}
	}
	return 0, malformed("url", "unknown url part '%s'", name)
}

// optionSchemes carry a ";options" trailer in their userinfo.
var optionSchemes = map[string]bool{
	"imap":  true,
	"imaps": true,
	"pop3":  true,
	"pop3s": true,
	"smtp":  true,
	"smtps": true,
}

// HasOptions reports whether userinfo of the scheme is split into
// password and options at ';'.
func HasOptions(scheme string) bool {
	return optionSchemes[strings.ToLower(scheme)]
}
