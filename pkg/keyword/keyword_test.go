package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "mixed case with padding", input: "  Budget Report \t", expected: "budget report"},
		{name: "already normalized", input: "budget report", expected: "budget report"},
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: " \n\t ", expected: ""},
		{name: "inner whitespace kept", input: "A  B", expected: "a  b"},
		{name: "non ascii", input: " ÄUDIT ", expected: "äudit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestHash(t *testing.T) {
	t.Run("known digest", func(t *testing.T) {
		// sha256("") is a well known constant
		assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(""))
	})

	t.Run("deterministic and fixed length", func(t *testing.T) {
		for _, in := range []string{"a", "budget report", "Budget Report", "ünïcode"} {
			h1 := Hash(in)
			h2 := Hash(in)
			assert.Equal(t, h1, h2)
			assert.Len(t, h1, HashHexLength)
			assert.True(t, IsHashHex(h1))
		}
	})

	t.Run("normalization collapses case variants", func(t *testing.T) {
		assert.Equal(t, NormalizeAndHash("Budget Report"), NormalizeAndHash("  budget report "))
		assert.Equal(t, Hash("budget report"), NormalizeAndHash("Budget Report"))
	})
}

func TestIsHashHex(t *testing.T) {
	valid := Hash("x")
	assert.True(t, IsHashHex(valid))
	assert.False(t, IsHashHex(""))
	assert.False(t, IsHashHex(valid[:63]))
	assert.False(t, IsHashHex(valid+"0"))
	assert.False(t, IsHashHex("E3B0C44298FC1C149AFBF4C8996FB92427AE41E4649B934CA495991B7852B855"))
	assert.False(t, IsHashHex("zz"+valid[2:]))
}
