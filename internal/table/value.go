package table

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface representing the three cell states a
// source extract can produce. Only Null, Text, and Number implement it.
//
// Patient identifiers are always Text, never Number - numeric-looking
// IDs must keep leading zeros and formatting exactly as read.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents an absent cell (missing field, empty CSV cell).
type Null struct{}

func (Null) value() {}

// Text represents an opaque string cell.
type Text string

func (Text) value() {}

// Number represents a numeric cell held as an exact decimal.
// Decimals avoid float coercion: "70" and "70.0" compare equal while
// "70" and "70.5" stay distinct with no rounding surprises.
type Number struct {
	Dec decimal.Decimal
}

func (Number) value() {}

// NewNumber creates a Number from a decimal.
func NewNumber(d decimal.Decimal) Number {
	return Number{Dec: d}
}

// ParseValue classifies a raw cell string into a Value.
// Whitespace-only cells are Null. Cells that parse as a decimal become
// Number; everything else is Text with surrounding whitespace kept
// (rendering preserves the original bytes, comparison trims).
func ParseValue(raw string) Value {
	if strings.TrimSpace(raw) == "" {
		return Null{}
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil {
		return NewNumber(d)
	}
	return Text(raw)
}

// IsEmpty reports whether v carries no information: Null, or Text that
// is empty after trimming insignificant whitespace.
func IsEmpty(v Value) bool {
	switch t := v.(type) {
	case nil, Null:
		return true
	case Text:
		return strings.TrimSpace(string(t)) == ""
	default:
		return false
	}
}

// Render produces the string form of a value for output and for
// pipe-joined token assembly. Null renders as the empty string.
func Render(v Value) string {
	switch t := v.(type) {
	case nil, Null:
		return ""
	case Text:
		return string(t)
	case Number:
		return t.Dec.String()
	default:
		return ""
	}
}

// Equal reports value equality per tag.
//
// Text compares after NFC normalization and whitespace trimming.
// Number compares by decimal equality. Values of different tags are
// never equal - there is no cross-tag coercion.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil, Null:
		_, ok := b.(Null)
		return ok || b == nil
	case Text:
		bv, ok := b.(Text)
		if !ok {
			return false
		}
		return canonText(string(av)) == canonText(string(bv))
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return false
		}
		return av.Dec.Equal(bv.Dec)
	default:
		return false
	}
}

// canonText normalizes a string for comparison: NFC so visually
// identical sequences compare equal, then trim.
func canonText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// CanonToken returns the comparison form of a rendered token.
// Used when deduplicating pipe-joined token sets.
func CanonToken(s string) string {
	return canonText(s)
}
