// Package urlparse decomposes, validates, escapes and rebuilds URLs.
//
// The grammar follows the libcurl URL API as used by SQL URL extensions:
// a scheme is required, any scheme name is accepted, and the authority must
// name a host. Components are returned raw (not percent-decoded), and every
// optional component is a *string so that an absent part (nil) is never
// confused with a present but empty one.
//
// Parsing is purely syntactic. No DNS lookups are made and no normalization
// beyond the documented defaults (lower-case scheme, "/" for an empty path,
// numeric port) is applied.
package urlparse
