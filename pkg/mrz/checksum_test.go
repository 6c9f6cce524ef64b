package mrz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDigit(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"D23145890", 7},
		{"740812", 2},
		{"120415", 9},
		{"L898902C3", 6},
		{"ZE184226B<<<<<", 1},
		{"000024759<ZZ7", 2},
		{"<<<<<<", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := CheckDigit(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCheckDigit_RejectsCharactersOutsideAlphabet(t *testing.T) {
	for _, input := range []string{"abc", "D2314 5890", "L89-8902", "É"} {
		t.Run(input, func(t *testing.T) {
			_, err := CheckDigit(input)
			assert.Error(t, err)
		})
	}
}

func TestCharValue(t *testing.T) {
	assert.Equal(t, 0, charValue('0'))
	assert.Equal(t, 9, charValue('9'))
	assert.Equal(t, 10, charValue('A'))
	assert.Equal(t, 35, charValue('Z'))
	assert.Equal(t, 0, charValue(Filler))

	assert.Panics(t, func() { charValue('a') })
	assert.Panics(t, func() { charValue(' ') })
}

func TestWeightedSum_ContinuesCycleAcrossRanges(t *testing.T) {
	whole := "L898902C36UTO7408122"
	split := weightedSum(whole[:10], 0) + weightedSum(whole[10:], 10)
	assert.Equal(t, weightedSum(whole, 0), split)
}

func TestDigitMatches(t *testing.T) {
	assert.True(t, digitMatches('7', 117))
	assert.False(t, digitMatches('6', 117))
	assert.False(t, digitMatches(Filler, 0), "filler is never a valid check digit")
}

func TestRecipeOffsets(t *testing.T) {
	assert.Equal(t, []int{0, 9, 10, 25, 31, 32, 38, 39}, recipeOffsets(FormatTD1))
	assert.Equal(t, []int{0, 2, 5, 30, 36, 48, 49, 63, 69, 70}, recipeOffsets(FormatIDFRA))
	assert.Equal(t, []int{0, 9, 10, 16, 17, 23, 24, 38}, recipeOffsets(FormatTD3))
	assert.Empty(t, recipeOffsets(FormatMRVA))
	assert.Empty(t, recipeOffsets(FormatSDL))
}

// recipeOffsets returns the starting weight-cycle position of every term in
// the overall recipe of f, check digits counted as their own term.
func recipeOffsets(f Format) []int {
	var offsets []int
	pos := 0
	for _, c := range layouts[f].overall {
		offsets = append(offsets, pos)
		pos += fieldWidth(layouts[f], c.field)
		if c.withCheck {
			offsets = append(offsets, pos)
			pos++
		}
	}
	return offsets
}

func fieldWidth(l layout, name fieldName) int {
	for _, ln := range l.lines {
		for _, f := range ln {
			if f.name == name {
				return f.width
			}
		}
	}
	return 0
}
