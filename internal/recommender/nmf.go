package recommender

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/viterin/vek"
)

// Factorización no negativa (NMF) por multiplicative updates:
//
//	V ≈ W·H   con V de n×m, W de n×k y H de k×m, todo ≥ 0
//
//	H ← H ⊙ (WᵀV) ⊘ (WᵀW·H + ε)
//	W ← W ⊙ (V·Hᵀ) ⊘ (W·H·Hᵀ + ε)
//
// Corta por tope de iteraciones o cuando la mejora relativa del error de
// reconstrucción baja de tol. Con la misma semilla y la misma matriz el
// resultado es idéntico.

const (
	nmfSeed = 42
	nmfEps  = 1e-9
)

type nmfResult struct {
	W          [][]float64 // usuarios × k
	H          [][]float64 // k × productos
	Iterations int
	Err        float64 // error Frobenius final
}

func factorize(v [][]float64, k, maxIter int, tol float64) (*nmfResult, error) {
	n := len(v)
	if n == 0 || len(v[0]) == 0 {
		return nil, ErrInsufficientData
	}
	m := len(v[0])
	if k < 1 {
		return nil, fmt.Errorf("k=%d inválido: %w", k, ErrInsufficientData)
	}
	if k > n || k > m {
		return nil, fmt.Errorf("k=%d mayor que las dimensiones %dx%d: %w", k, n, m, ErrInsufficientData)
	}

	// Inicialización aleatoria no negativa con semilla fija,
	// escalada a sqrt(promedio(V)/k) como hace la init clásica.
	rng := rand.New(rand.NewSource(nmfSeed))
	var sum float64
	for i := range v {
		sum += vek.Sum(v[i])
	}
	avg := sum / float64(n*m)
	scale := math.Sqrt((avg + nmfEps) / float64(k))

	w := randMatrix(rng, n, k, scale)
	h := randMatrix(rng, k, m, scale)

	prevErr := math.Inf(1)
	var it int
	for it = 0; it < maxIter; it++ {
		// H ← H ⊙ (WᵀV) ⊘ (WᵀW·H + ε)
		wt := transpose(w)
		wtv := matMul(wt, v)        // k×m
		wtw := matMul(wt, w)        // k×k
		wtwh := matMul(wtw, h)      // k×m
		hadamardDiv(h, wtv, wtwh)   // in place sobre h

		// W ← W ⊙ (V·Hᵀ) ⊘ (W·H·Hᵀ + ε)
		ht := transpose(h)
		vht := matMul(v, ht)        // n×k
		wh := matMul(w, h)          // n×m
		whht := matMul(wh, ht)      // n×k
		hadamardDiv(w, vht, whht)   // in place sobre w

		// error de reconstrucción
		cur := frobenius(v, matMul(w, h))
		if prevErr < math.Inf(1) && prevErr > 0 {
			if math.Abs(prevErr-cur)/prevErr < tol {
				prevErr = cur
				it++
				break
			}
		}
		prevErr = cur
	}

	return &nmfResult{W: w, H: h, Iterations: it, Err: prevErr}, nil
}

func randMatrix(rng *rand.Rand, rows, cols int, scale float64) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = rng.Float64() * scale
		}
	}
	return m
}

func transpose(a [][]float64) [][]float64 {
	if len(a) == 0 {
		return nil
	}
	t := make([][]float64, len(a[0]))
	for j := range t {
		t[j] = make([]float64, len(a))
		for i := range a {
			t[j][i] = a[i][j]
		}
	}
	return t
}

// matMul multiplica a (p×q) por b (q×r) usando la transpuesta de b
// para que cada celda sea un producto punto contiguo.
func matMul(a, b [][]float64) [][]float64 {
	bt := transpose(b)
	out := make([][]float64, len(a))
	for i := range a {
		out[i] = make([]float64, len(bt))
		for j := range bt {
			out[i][j] = vek.Dot(a[i], bt[j])
		}
	}
	return out
}

// hadamardDiv hace dst ← dst ⊙ num ⊘ (den + ε), elemento a elemento.
func hadamardDiv(dst, num, den [][]float64) {
	for i := range dst {
		for j := range dst[i] {
			dst[i][j] *= num[i][j] / (den[i][j] + nmfEps)
		}
	}
}

func frobenius(a, b [][]float64) float64 {
	var sum float64
	for i := range a {
		for j := range a[i] {
			d := a[i][j] - b[i][j]
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}
