package secure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode_Format(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "non-digit %q in %q", c, code)
		}
	}
}

func TestGenerateNumericCode_RejectsBadLength(t *testing.T) {
	_, err := GenerateNumericCode(0)
	assert.Error(t, err)

	_, err = GenerateNumericCode(19)
	assert.Error(t, err)
}

// Chi-square over the leading digit and over the last digit. With 9 degrees of freedom
// the 0.9999 quantile is about 33.7, so a correct generator fails this roughly once in
// ten thousand runs.
func TestGenerateNumericCode_Uniform(t *testing.T) {
	const trials = 20000
	var first, last [10]int

	for i := 0; i < trials; i++ {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		first[code[0]-'0']++
		last[code[5]-'0']++
	}

	expected := float64(trials) / 10
	chiSquare := func(counts [10]int) float64 {
		var sum float64
		for _, c := range counts {
			d := float64(c) - expected
			sum += d * d / expected
		}
		return sum
	}

	assert.Less(t, chiSquare(first), 33.7, "leading digit distribution: %v", first)
	assert.Less(t, chiSquare(last), 33.7, "trailing digit distribution: %v", last)
	// leading zeros must be possible
	assert.Greater(t, first[0], 0)
}

func TestHashCode(t *testing.T) {
	h1 := HashCode("123456")
	h2 := HashCode("123456")

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, HashCode("654321"))
}

func TestCodeEqual(t *testing.T) {
	stored := HashCode("012345")

	assert.True(t, CodeEqual("012345", stored))
	assert.False(t, CodeEqual("12345", stored))
	assert.False(t, CodeEqual("012346", stored))
	assert.False(t, CodeEqual("", stored))
}
