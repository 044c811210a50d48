package losses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/featdist-ml/featdist/internal/tensor"
)

func TestGramianDistance_Identity(t *testing.T) {
	x := feat(t, []float32{1, -2, 3, 0.5}, tensor.Shape{1, 2, 2, 1})

	d, err := GramianDistance(x, x)
	require.NoError(t, err)
	assert.True(t, d.Shape().Equal(tensor.Shape{1}))
	assert.InDelta(t, 0, d.Item(), 1e-6)
}

func TestGramianDistance_Symmetry(t *testing.T) {
	a := feat(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{1, 2, 2, 2})
	b := feat(t, []float32{2, 1, 0, -1, 3, 2, 1, 0}, tensor.Shape{1, 2, 2, 2})

	dab, err := GramianDistance(a, b)
	require.NoError(t, err)
	dba, err := GramianDistance(b, a)
	require.NoError(t, err)

	assert.InDelta(t, dab.Item(), dba.Item(), 1e-6)
}

func TestGramianDistance_KnownValue(t *testing.T) {
	// Single channel: gram(x) = mean(x^2) = 7.5, gram(z) = 0.
	x := feat(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	z := feat(t, []float32{0, 0, 0, 0}, tensor.Shape{1, 2, 2, 1})

	d, err := GramianDistance(x, z)
	require.NoError(t, err)
	assert.InDelta(t, 56.25, d.Item(), 1e-4)
}

func TestGramianDistance_TwoChannels(t *testing.T) {
	// Channels u = [1,2,3,4], v = [1,1,1,1], interleaved.
	x := feat(t, []float32{
		1, 1,
		2, 1,
		3, 1,
		4, 1,
	}, tensor.Shape{1, 2, 2, 2})
	z := feat(t, []float32{0, 0, 0, 0, 0, 0, 0, 0}, tensor.Shape{1, 2, 2, 2})

	// gram(x) = [[7.5, 2.5], [2.5, 1.0]]; distance = mean of squares.
	want := (7.5*7.5 + 2.5*2.5 + 2.5*2.5 + 1.0) / 4

	d, err := GramianDistance(x, z)
	require.NoError(t, err)
	assert.InDelta(t, want, float64(d.Item()), 1e-4)
}

func TestGramianDistance_PerBatch(t *testing.T) {
	// Batch 0 differs from the reference, batch 1 matches it.
	a := feat(t, []float32{
		1, 2, 3, 4, // batch 0
		5, 6, 7, 8, // batch 1
	}, tensor.Shape{2, 2, 2, 1})
	b := feat(t, []float32{
		0, 0, 0, 0,
		5, 6, 7, 8,
	}, tensor.Shape{2, 2, 2, 1})

	d, err := GramianDistance(a, b)
	require.NoError(t, err)
	require.True(t, d.Shape().Equal(tensor.Shape{2}))

	out := d.Data()
	assert.InDelta(t, 56.25, out[0], 1e-4)
	assert.InDelta(t, 0, out[1], 1e-4)
}

func TestGramianDistance_ShapeMismatch(t *testing.T) {
	a := feat(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 2, 2, 1})
	b := feat(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, tensor.Shape{1, 2, 2, 2})

	_, err := GramianDistance(a, b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
