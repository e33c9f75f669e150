package org

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// TOCUnlimited includes headers of every level in the table of contents.
const TOCUnlimited = math.MaxInt32

// SubscriptMode selects how `a_b` notation is rendered.
type SubscriptMode int

const (
	SubscriptBraces SubscriptMode = iota // a_{b}
	SubscriptBare                        // a_b
	SubscriptOff
)

func (m SubscriptMode) String() string {
	switch m {
	case SubscriptBraces:
		return "{}"
	case SubscriptBare:
		return "t"
	default:
		return "nil"
	}
}

// Options are the recognized document options. They are set at parse time
// and may be overridden by an in-document #+options: directive.
type Options struct {
	TOC           int // max header level in the toc; 0 disables it
	Num           bool
	Subscript     SubscriptMode
	MultilineCell bool

	// Extra keeps unrecognized keys; renderers ignore them.
	Extra map[string]any
}

func DefaultOptions() Options {
	return Options{
		TOC:       TOCUnlimited,
		Num:       true,
		Subscript: SubscriptBraces,
	}
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	c := o
	if o.Extra != nil {
		c.Extra = make(map[string]any, len(o.Extra))
		for k, v := range o.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Set assigns an option from a bool, int or string value.
func (o *Options) Set(key string, v any) {
	switch key {
	case "toc":
		switch x := v.(type) {
		case bool:
			if x {
				o.TOC = TOCUnlimited
			} else {
				o.TOC = 0
			}
		case int:
			o.TOC = x
		default:
			o.setExtra(key, v)
		}
	case "num":
		switch x := v.(type) {
		case bool:
			o.Num = x
		case int:
			o.Num = x != 0
		default:
			o.setExtra(key, v)
		}
	case "^":
		switch x := v.(type) {
		case bool:
			if x {
				o.Subscript = SubscriptBare
			} else {
				o.Subscript = SubscriptOff
			}
		case string:
			if x == "{}" {
				o.Subscript = SubscriptBraces
			} else {
				o.Subscript = SubscriptBare
			}
		default:
			o.setExtra(key, v)
		}
	case "multilineCell":
		switch x := v.(type) {
		case bool:
			o.MultilineCell = x
		case int:
			o.MultilineCell = x != 0
		default:
			o.setExtra(key, v)
		}
	default:
		o.setExtra(key, v)
	}
}

// Apply sets each key from a decoded JSON or YAML value. Strings use the
// #+options: value syntax, integral numbers become ints and null is false.
func (o *Options) Apply(values map[string]any) {
	for key, v := range values {
		switch x := v.(type) {
		case string:
			o.SetString(key, x)
		case float64:
			if x == math.Trunc(x) {
				o.Set(key, int(x))
			} else {
				o.Set(key, x)
			}
		case nil:
			o.Set(key, false)
		default:
			o.Set(key, x)
		}
	}
}

// SetString assigns an option from its lispy textual form.
func (o *Options) SetString(key, raw string) {
	o.Set(key, LispyValue(raw))
}

func (o *Options) setExtra(key string, v any) {
	if o.Extra == nil {
		o.Extra = make(map[string]any)
	}
	o.Extra[key] = v
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

// LispyValue converts t/nil to booleans and digit strings to ints.
func LispyValue(s string) any {
	switch s {
	case "t":
		return true
	case "nil":
		return false
	}
	if digitsOnly.MatchString(s) {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return s
}

// ParseOptionPairs applies whitespace or comma separated key:value pairs,
// the syntax of #+options: lines.
func (o *Options) ParseOptionPairs(pairs string) error {
	fields := strings.FieldsFunc(pairs, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	for _, f := range fields {
		key, value, ok := strings.Cut(f, ":")
		if !ok || key == "" {
			return fmt.Errorf("option %q: expected key:value", f)
		}
		o.SetString(key, value)
	}
	return nil
}
