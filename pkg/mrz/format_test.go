package mrz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Format
	}{
		{"TD1", td1Eriksson, FormatTD1},
		{"TD2", td2Eriksson, FormatTD2},
		{"TD3", td3Eriksson, FormatTD3},
		{"MRVA", mrvaEriksson, FormatMRVA},
		{"MRVB", mrvbEriksson, FormatMRVB},
		{"IDFRA", idfraLoiseau, FormatIDFRA},
		{"SDL", sdlMarchand, FormatSDL},
		{"single line TD3", strings.ReplaceAll(td3Eriksson, "\n", ""), FormatTD3},
		{"lower case visa", strings.ToLower(mrvbEriksson), FormatMRVB},
		{"CRLF line endings", strings.ReplaceAll(td1Eriksson, "\n", "\r\n"), FormatTD1},
		{"length only, content irrelevant", strings.Repeat("|", 90), FormatTD1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDetect_Unknown(t *testing.T) {
	for _, text := range []string{
		"",
		"P<UTO",
		strings.Repeat("<", 91),
		"A" + strings.Repeat("<", 87),
	} {
		got, err := Detect(text)
		assert.Equal(t, FormatUnknown, got)
		assert.ErrorIs(t, err, ErrUnknownFormat)
	}
}

func TestFormat_Geometry(t *testing.T) {
	tests := []struct {
		format Format
		name   string
		widths []int
	}{
		{FormatTD1, "TD1", []int{30, 30, 30}},
		{FormatTD2, "TD2", []int{36, 36}},
		{FormatTD3, "TD3", []int{44, 44}},
		{FormatMRVA, "MRVA", []int{44, 44}},
		{FormatMRVB, "MRVB", []int{36, 36}},
		{FormatIDFRA, "IDFRA", []int{36, 36}},
		{FormatSDL, "SDL", []int{9, 30, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.format.String())
			assert.Equal(t, tt.widths, tt.format.LineWidths())
			assert.Equal(t, len(tt.widths), tt.format.Lines())

			text, err := tt.format.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.name, string(text))
		})
	}

	assert.Equal(t, "Unknown", FormatUnknown.String())
	assert.Nil(t, FormatUnknown.LineWidths())
	assert.Len(t, Formats(), 7)
}
