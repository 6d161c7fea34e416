package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorize_Dimensions(t *testing.T) {
	v := [][]float64{
		{5, 0, 0, 1},
		{4, 1, 0, 0},
		{0, 0, 5, 4},
	}

	res, err := factorize(v, 2, 100, 1e-4)
	require.NoError(t, err)

	require.Len(t, res.W, 3)
	require.Len(t, res.W[0], 2)
	require.Len(t, res.H, 2)
	require.Len(t, res.H[0], 4)
}

func TestFactorize_NonNegative(t *testing.T) {
	v := [][]float64{
		{5, 0, 2},
		{0, 3, 0},
		{1, 0, 4},
	}

	res, err := factorize(v, 2, 100, 1e-4)
	require.NoError(t, err)

	for _, row := range res.W {
		for _, x := range row {
			assert.GreaterOrEqual(t, x, 0.0)
		}
	}
	for _, row := range res.H {
		for _, x := range row {
			assert.GreaterOrEqual(t, x, 0.0)
		}
	}
}

// Con la misma matriz y la misma semilla el resultado tiene que ser
// bit a bit idéntico entre corridas.
func TestFactorize_Deterministic(t *testing.T) {
	v := [][]float64{
		{5, 0, 0, 1},
		{4, 1, 0, 0},
		{0, 0, 5, 4},
		{0, 1, 4, 5},
	}

	a, err := factorize(v, 2, 50, 1e-4)
	require.NoError(t, err)
	b, err := factorize(v, 2, 50, 1e-4)
	require.NoError(t, err)

	assert.Equal(t, a.W, b.W)
	assert.Equal(t, a.H, b.H)
	assert.Equal(t, a.Iterations, b.Iterations)
}

func TestFactorize_ReducesError(t *testing.T) {
	// matriz de rango 2 exacto: el error tiene que quedar chico
	v := [][]float64{
		{2, 4, 0, 0},
		{1, 2, 0, 0},
		{0, 0, 3, 6},
		{0, 0, 1, 2},
	}

	res, err := factorize(v, 2, 300, 1e-6)
	require.NoError(t, err)
	assert.Less(t, res.Err, 0.5)

	// reconstrucción aproximada de las celdas grandes
	rec := matMul(res.W, res.H)
	assert.InDelta(t, 4.0, rec[0][1], 0.5)
	assert.InDelta(t, 6.0, rec[2][3], 0.5)
}

func TestFactorize_RejectsBadK(t *testing.T) {
	v := [][]float64{
		{1, 2},
		{3, 4},
	}

	_, err := factorize(v, 0, 10, 1e-3)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = factorize(v, 3, 10, 1e-3)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = factorize(nil, 1, 10, 1e-3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}
