package config

import "errors"

// Errors returned while loading config files and applying CLI overrides.
var (
	// ErrUnsupportedFormat indicates a config file whose extension is not
	// one of .yml, .yaml, or .json.
	ErrUnsupportedFormat = errors.New("unsupported config file format")
	// ErrMalformedOverride indicates a CLI override token that does not
	// match the name=value:type grammar, uses an unrecognized type tag, or
	// carries a literal that does not parse under its tag. The wrapped
	// message always names the offending token.
	ErrMalformedOverride = errors.New("malformed override token")
)
