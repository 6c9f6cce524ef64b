package postgres

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int32
	}{
		{"within int32 range unchanged", 1000, 1000},
		{"at int32 max unchanged", math.MaxInt32, math.MaxInt32},
		{"exceeds int32 max clamped", math.MaxInt32 + 1, math.MaxInt32},
		{"large int64 value clamped", math.MaxInt64, math.MaxInt32},
		{"zero means all", 0, math.MaxInt32},
		{"negative means all", -5, math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clampLimit(tt.input))
		})
	}
}
