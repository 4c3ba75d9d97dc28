package cart

import (
	"sort"
	"strings"
)

// Variant holds the structured attributes (size, color, ...) that select a
// specific product configuration. Two line items for the same product with
// different variants are distinct. A nil or empty Variant means the base
// product.
type Variant map[string]string

// Key returns a canonical string form of the variant, stable across
// attribute insertion order. The empty variant's key is "".
func (v Variant) Key() string {
	if len(v) == 0 {
		return ""
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(v[k])
	}
	return b.String()
}

// Equal reports whether two variants describe the same configuration.
func (v Variant) Equal(other Variant) bool {
	return v.Key() == other.Key()
}

func (v Variant) clone() Variant {
	if v == nil {
		return nil
	}
	out := make(Variant, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
