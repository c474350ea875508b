package host

import (
	"fmt"
	"strconv"
	"strings"
)

// Options is a parsed command option string such as
// "x=2 y=2 interpolation=Bilinear title=[My Image] create". Keys are lower case;
// bare words are flags with an empty value.
type Options map[string]string

// ParseOptions splits a command option string into keys and values. Values that
// contain spaces are wrapped in square brackets.
func ParseOptions(s string) (Options, error) {
	opts := make(Options)
	i := 0
	for i < len(s) {
		for i < len(s) && s[i] == ' ' {
			i++
		}
		if i >= len(s) {
			break
		}
		start := i
		for i < len(s) && s[i] != ' ' && s[i] != '=' {
			i++
		}
		key := strings.ToLower(s[start:i])
		if i >= len(s) || s[i] == ' ' {
			opts[key] = ""
			continue
		}
		i++ // '='
		if i < len(s) && s[i] == '[' {
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated bracket for %q", ErrInvalidOptions, key)
			}
			opts[key] = s[i+1 : i+end]
			i += end + 1
			continue
		}
		start = i
		for i < len(s) && s[i] != ' ' {
			i++
		}
		opts[key] = s[start:i]
	}
	return opts, nil
}

// Has reports whether key is present, as a flag or with a value.
func (o Options) Has(key string) bool {
	_, ok := o[strings.ToLower(key)]
	return ok
}

// String returns the value of key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[strings.ToLower(key)]; ok && v != "" {
		return v
	}
	return def
}

// Float returns the numeric value of key or def.
func (o Options) Float(key string, def float64) (float64, error) {
	v, ok := o[strings.ToLower(key)]
	if !ok || v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidOptions, key, v)
	}
	return f, nil
}

// Int returns the integer value of key or def. Fractions are truncated.
func (o Options) Int(key string, def int) (int, error) {
	f, err := o.Float(key, float64(def))
	return int(f), err
}
