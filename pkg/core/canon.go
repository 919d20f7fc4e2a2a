package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// canonicalBytes renders a set of observations into a deterministic
// byte string: mapping keys sorted ascending at every depth, sequences
// kept in their natural order, numbers formatted without locale or
// exponential notation. Two logically equal observation sets MUST
// produce identical bytes, which is what lets State.ID be a stable
// content hash (spec P1).
//
// crypto/sha256 (stdlib) is used for the hash itself rather than an
// ecosystem checksum library — see DESIGN.md for why.
func canonicalBytes(observations map[string]Observation) []byte {
	var b strings.Builder
	names := make([]string, 0, len(observations))
	for name := range observations {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCanonString(&b, name)
		b.WriteByte(':')
		writeCanonValue(&b, observations[name].Data)
	}
	b.WriteByte('}')
	return []byte(b.String())
}

func writeCanonValue(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		if x {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case string:
		writeCanonString(b, x)
	case map[string]any:
		writeCanonMap(b, x)
	case []any:
		writeCanonSlice(b, x)
	case []string:
		arr := make([]any, len(x))
		for i, s := range x {
			arr[i] = s
		}
		writeCanonSlice(b, arr)
	default:
		if n, ok := canonNumber(v); ok {
			b.WriteString(n)
			return
		}
		// Programmer error: a non-JSON-shaped value snuck into an
		// observation. Render its fmt string rather than panic so a
		// single bad observation doesn't take down the whole run.
		writeCanonString(b, fmt.Sprintf("%v", x))
	}
}

func writeCanonMap(b *strings.Builder, m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCanonString(b, k)
		b.WriteByte(':')
		writeCanonValue(b, m[k])
	}
	b.WriteByte('}')
}

func writeCanonSlice(b *strings.Builder, s []any) {
	b.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCanonValue(b, v)
	}
	b.WriteByte(']')
}

func writeCanonString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

// canonNumber formats any of Go's numeric kinds deterministically:
// integers print without a fractional part, floats print with 'f'
// formatting so strconv never reaches for exponential notation.
func canonNumber(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float32:
		return canonFloat(float64(n)), true
	case float64:
		return canonFloat(n), true
	default:
		return "", false
	}
}

func canonFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// hash64Hex hashes b with SHA-256 and renders the first 8 bytes (64
// bits) as 16 lowercase hex characters.
func hash64Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}
