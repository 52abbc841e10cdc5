package xyz_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-irspec/format/xyz"
)

const water = `3
water, gas phase
O   0.000000   0.000000   0.117300
H   0.000000   0.757200  -0.469200
H   0.000000  -0.757200  -0.469200
`

func TestRead(t *testing.T) {
	s, comment, err := xyz.Read(strings.NewReader(water))
	require.NoError(t, err)

	assert.Equal(t, "water, gas phase", comment)
	require.Equal(t, 3, s.Len())
	assert.False(t, s.Periodic())
	assert.Equal(t, "O", s.Atoms[0].Species)
	assert.Equal(t, "H", s.Atoms[2].Species)
	assert.InDelta(t, -0.7572, s.Atoms[2].Position[1], 1e-12)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad count", "three\nx\n"},
		{"no comment", "1\n"},
		{"truncated", "2\nc\nH 0 0 0\n"},
		{"short line", "1\nc\nH 0 0\n"},
		{"bad number", "1\nc\nH 0 zero 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := xyz.Read(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, xyz.ErrFormat)
		})
	}
}

func TestBox(t *testing.T) {
	s, _, err := xyz.Read(strings.NewReader(water))
	require.NoError(t, err)

	boxed, err := xyz.Box(s, 5)
	require.NoError(t, err)
	require.True(t, boxed.Periodic())

	edge := 2*0.7572 + 10
	assert.InDelta(t, edge, boxed.Lattice[0][0], 1e-12)
	assert.InDelta(t, edge, boxed.Lattice[2][2], 1e-12)

	// Interatomic vectors are unchanged and the molecule is centred.
	d0 := s.Atoms[1].Position.Sub(s.Atoms[2].Position)
	d1 := boxed.Atoms[1].Position.Sub(boxed.Atoms[2].Position)
	assert.InDeltaSlice(t, d0[:], d1[:], 1e-12)
	assert.InDelta(t, 0.5, boxed.Atoms[0].Fractional[0], 1e-12)
	assert.InDelta(t, 0.5, (boxed.Atoms[1].Fractional[1]+boxed.Atoms[2].Fractional[1])/2, 1e-12)

	// Input untouched.
	assert.Nil(t, s.Lattice)
	assert.InDelta(t, 0.1173, s.Atoms[0].Position[2], 1e-12)
}
