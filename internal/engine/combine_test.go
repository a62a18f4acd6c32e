package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pkeene/cohort/internal/table"
)

func num(s string) table.Value {
	return table.NewNumber(decimal.RequireFromString(s))
}

func TestCombineBothEmpty(t *testing.T) {
	assert.True(t, table.IsEmpty(Combine(table.Null{}, table.Null{})))
	assert.True(t, table.IsEmpty(Combine(table.Text("  "), table.Null{})))
	assert.True(t, table.IsEmpty(Combine(table.Null{}, table.Text(""))))
}

func TestCombineOneEmpty(t *testing.T) {
	tests := []struct {
		name string
		a, b table.Value
		want string
	}{
		{"left empty", table.Null{}, table.Text("Male"), "Male"},
		{"right empty", table.Text("Male"), table.Null{}, "Male"},
		{"whitespace counts as empty", table.Text(" "), num("7"), "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Render(Combine(tt.a, tt.b)))
		})
	}
}

func TestCombineEqualCollapses(t *testing.T) {
	// Identical non-empty values resolve to the single value,
	// never "Male|Male".
	got := Combine(table.Text("Male"), table.Text("Male"))
	assert.Equal(t, "Male", table.Render(got))

	// Decimal equality: 10 and 10.0 are the same measurement.
	got = Combine(num("10"), num("10.0"))
	assert.Equal(t, "10", table.Render(got))

	// Trimming is insignificant for text comparison; the left
	// operand's original form is kept.
	got = Combine(table.Text("Stage 1 HTN"), table.Text("Stage 1 HTN "))
	assert.Equal(t, "Stage 1 HTN", table.Render(got))
}

func TestCombineConflictPreservesBoth(t *testing.T) {
	got := Combine(num("5"), num("7"))
	assert.Equal(t, "5|7", table.Render(got), "left token precedes right token")
}

func TestCombineNoTypeCoercion(t *testing.T) {
	// A numeric 5 and the text "five" differ; both survive.
	got := Combine(num("5"), table.Text("five"))
	assert.Equal(t, "5|five", table.Render(got))
}

func TestCombineSplitsJoinedOperands(t *testing.T) {
	// A previously combined cell contributes tokens, not the joined
	// string, so no token ever repeats across n-way combination.
	joined := Combine(num("5"), num("7"))
	got := Combine(joined, num("5"))
	assert.Equal(t, "5|7", table.Render(got))

	got = Combine(joined, num("9"))
	assert.Equal(t, "5|7|9", table.Render(got))
}

func TestCombineAssociativeOverTokenSet(t *testing.T) {
	a, b, c := table.Text("A"), table.Text("B"), table.Text("C")

	left := Combine(Combine(a, b), c)
	right := Combine(a, Combine(b, c))
	assert.Equal(t, table.Render(left), table.Render(right))
	assert.Equal(t, "A|B|C", table.Render(left))
}

func TestCombineAllFoldsInEncounterOrder(t *testing.T) {
	got := CombineAll([]table.Value{
		table.Null{}, num("20"), num("25"), table.Null{}, num("20"),
	})
	assert.Equal(t, "20|25", table.Render(got))

	assert.True(t, table.IsEmpty(CombineAll(nil)))
	assert.True(t, table.IsEmpty(CombineAll([]table.Value{table.Null{}, table.Text("")})))
}
