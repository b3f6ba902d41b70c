// Package flags turns runtime flag sets from image labels and configuration
// into container CLI arguments.
package flags

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidFlagValue is returned when a flag value has an unsupported type.
var ErrInvalidFlagValue = errors.New("invalid flag value type")

// Flags maps a flag name (without leading dashes) to its value.
//
// A value is a string (--name=value), a bool (--name when true, omitted when
// false) or a []string (--name=v repeated for each element).
type Flags map[string]any

// FromConfig normalizes a decoded configuration map into Flags.
// YAML sequences arrive as []any and must contain only strings.
func FromConfig(cfg map[string]any) (Flags, error) {
	out := make(Flags, len(cfg))
	for k, v := range cfg {
		switch val := v.(type) {
		case string, bool, []string:
			out[k] = val
		case []any:
			strs := make([]string, 0, len(val))
			for _, item := range val {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("%w: %s contains %T", ErrInvalidFlagValue, k, item)
				}
				strs = append(strs, s)
			}
			out[k] = strs
		default:
			return nil, fmt.Errorf("%w: %s is %T", ErrInvalidFlagValue, k, v)
		}
	}
	return out, nil
}

// FromLabel parses an image label of whitespace-separated entries.
//
//	"memory=2g shm-size=1g init publish-all=false add-host=a:1 add-host=b:2"
//
// A bare key is true, "true"/"false" become bools, a key seen twice becomes a
// list, and only the first '=' separates key from value.
func FromLabel(label string) Flags {
	out := make(Flags)
	for _, part := range strings.Fields(label) {
		key, value, hasValue := strings.Cut(part, "=")
		if key == "" {
			continue
		}
		if !hasValue {
			out[key] = true
			continue
		}
		switch strings.ToLower(value) {
		case "true":
			out[key] = true
			continue
		case "false":
			out[key] = false
			continue
		}
		switch prev := out[key].(type) {
		case string:
			out[key] = []string{prev, value}
		case []string:
			out[key] = append(prev, value)
		default:
			out[key] = value
		}
	}
	return out
}

// Merge layers each set over the previous one; later keys win.
func Merge(sets ...Flags) Flags {
	out := make(Flags)
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

// Args renders f as CLI arguments sorted by flag name.
func (f Flags) Args() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var args []string
	for _, k := range keys {
		switch val := f[k].(type) {
		case string:
			args = append(args, "--"+k+"="+val)
		case bool:
			if val {
				args = append(args, "--"+k)
			}
		case []string:
			for _, s := range val {
				args = append(args, "--"+k+"="+s)
			}
		}
	}
	return args
}
