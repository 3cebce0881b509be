package memutils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckPow2(t *testing.T) {
	require.NoError(t, CheckPow2(1, "one"))
	require.NoError(t, CheckPow2(uint(256), "alignment"))
	require.ErrorIs(t, CheckPow2(0, "zero"), PowerOfTwoError)
	require.ErrorIs(t, CheckPow2(uint64(48), "alignment"), PowerOfTwoError)
}

func TestAlignment(t *testing.T) {
	testCases := map[string]struct {
		Value     int
		Alignment uint
		Up        int
		Padding   int
	}{
		"AlreadyAligned": {Value: 64, Alignment: 16, Up: 64, Padding: 0},
		"Zero":           {Value: 0, Alignment: 256, Up: 0, Padding: 0},
		"JustOver":       {Value: 65, Alignment: 16, Up: 80, Padding: 15},
		"AlignOne":       {Value: 13, Alignment: 1, Up: 13, Padding: 0},
		"SmallValue":     {Value: 3, Alignment: 256, Up: 256, Padding: 253},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, testCase.Up, AlignUp(testCase.Value, testCase.Alignment))
			require.Equal(t, testCase.Padding, AlignmentPadding(testCase.Value, testCase.Alignment))
		})
	}
}

func TestDivideRoundingUp(t *testing.T) {
	require.Equal(t, 0, DivideRoundingUp(0, 4))
	require.Equal(t, 1, DivideRoundingUp(1, 4))
	require.Equal(t, 1, DivideRoundingUp(4, 4))
	require.Equal(t, 2, DivideRoundingUp(5, 4))
}
