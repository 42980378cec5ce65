// Package keys derives deterministic cache keys from a logical query's
// identity: the operation name plus every parameter that affects its result.
package keys

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// Param is one named parameter of a logical query. Params must cover every
// input that influences the operation's output; omitting one leaks stale
// data across distinct requests.
type Param struct {
	Name  string
	Value string
}

// None is the sentinel for an absent optional parameter. It keeps the key
// canonical: "no limit" and "limit=0" stay distinguishable.
const None = "none"

func String(name, v string) Param {
	return Param{Name: name, Value: v}
}

func Int(name string, v int) Param {
	return Param{Name: name, Value: strconv.Itoa(v)}
}

// OptInt maps a nil pointer to the None sentinel.
func OptInt(name string, v *int) Param {
	if v == nil {
		return Param{Name: name, Value: None}
	}
	return Param{Name: name, Value: strconv.Itoa(*v)}
}

// OptString maps an empty value to the given default token.
func OptString(name, v, def string) Param {
	if v == "" {
		v = def
	}
	return Param{Name: name, Value: v}
}

// Key builds the cache key for op with the given parameters. It is a pure
// function of its inputs. The readable segments are sanitized to a safe
// ASCII alphabet; because sanitizing can merge distinct values, the
// canonical pre-sanitized text is hashed and appended, which keeps keys
// injective over (op, params).
func Key(op string, params ...Param) string {
	var canonical strings.Builder
	canonical.WriteString(strings.TrimSpace(op))
	for _, p := range params {
		canonical.WriteByte(':')
		canonical.WriteString(p.Name)
		canonical.WriteByte('=')
		canonical.WriteString(p.Value)
	}
	text := canonical.String()
	sum := xxhash.Sum64String(text)

	safe := sanitizeForKey(text)
	const maxReadableLen = 160
	if len(safe) > maxReadableLen {
		safe = safe[:maxReadableLen]
	}
	return fmt.Sprintf("%s:h=%016x", safe, sum)
}

func sanitizeForKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			out = '_'
		case isAlphaNum(r) || r == ':' || r == '_' || r == '-' || r == '=':
			out = r
		default:
			// Any other rune (including non-ASCII) becomes '-'
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		unicode.IsDigit(r)
}
