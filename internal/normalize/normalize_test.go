package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \t\n ", want: ""},
		{name: "lowercases ascii", input: "John SMITH", want: "john smith"},
		{name: "folds slovak diacritics", input: "Ján Novák", want: "jan novak"},
		{name: "folds uppercase diacritics", input: "ŠTEFAN ČIERNY", want: "stefan cierny"},
		{name: "folds full set", input: "ňšťžľřďčýÿ", want: "nstzlrdcyy"},
		{name: "collapses inner whitespace", input: "  Peter \t  Hruška  ", want: "peter hruska"},
		{name: "composes decomposed accents", input: "Ja\u0301n", want: "jan"},
		{name: "leaves characters outside the set", input: "Łukasz Øster", want: "łukasz øster"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Name(tt.input))
		})
	}
}

func TestName_Idempotent(t *testing.T) {
	inputs := []string{"Ján  Novák", "ĽUBOŠ ďurík", "", "  a  b  "}
	for _, in := range inputs {
		once := Name(in)
		assert.Equal(t, once, Name(once), "input %q", in)
	}
}

func BenchmarkName(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Name("  Ľubomír   Šťastný  ")
	}
}
