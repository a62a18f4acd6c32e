package engine

import (
	"strings"

	"github.com/pkeene/cohort/internal/table"
)

// Delimiter joins conflicting values into one lossless cell.
const Delimiter = "|"

// Combine reconciles two candidate values for the same (key, column)
// position:
//
//   - both empty: empty
//   - exactly one empty: the other, unchanged
//   - equal (per-tag, whitespace-insensitive for text): the left value
//   - different: the pipe-joined set of distinct tokens, left tokens
//     before right tokens, no token repeated
//
// A pipe-joined operand contributes its individual tokens, not the
// joined string, so Combine(Combine(a, b), c) and Combine(a, Combine(b, c))
// agree on the final token set.
func Combine(a, b table.Value) table.Value {
	aEmpty, bEmpty := table.IsEmpty(a), table.IsEmpty(b)
	switch {
	case aEmpty && bEmpty:
		return table.Null{}
	case aEmpty:
		return b
	case bEmpty:
		return a
	}
	if table.Equal(a, b) {
		return a
	}

	tokens := tokensOf(a)
	merged := tokens
	seen := make(map[string]struct{}, len(tokens)+1)
	for _, tok := range tokens {
		seen[table.CanonToken(tok)] = struct{}{}
	}
	for _, tok := range tokensOf(b) {
		key := table.CanonToken(tok)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, tok)
	}
	if len(merged) == 1 {
		if len(tokens) == 1 {
			return a
		}
		return table.Text(merged[0])
	}
	return table.Text(strings.Join(merged, Delimiter))
}

// CombineAll folds Combine over values in encounter order.
// Returns Null when no value carries information.
func CombineAll(values []table.Value) table.Value {
	var acc table.Value = table.Null{}
	for _, v := range values {
		acc = Combine(acc, v)
	}
	return acc
}

// tokensOf renders a value into its distinct pipe-delimited tokens,
// preserving first-encounter order.
func tokensOf(v table.Value) []string {
	rendered := table.Render(v)
	if !strings.Contains(rendered, Delimiter) {
		return []string{rendered}
	}
	parts := strings.Split(rendered, Delimiter)
	out := parts[:0:0]
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		key := table.CanonToken(p)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
