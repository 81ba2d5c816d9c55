package chroma

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SimilarityMatrix is a square, symmetric frame-by-frame similarity
type SimilarityMatrix interface {
	// Frames returns the matrix dimension
	Frames() int
	// At returns the similarity of frames i and j
	At(i, j int) float64
}

// diagonalSource is implemented by matrices that can hand out a lag diagonal cheaply
type diagonalSource interface {
	Diagonal(lag int) []float64
}

// CosineSimilarity returns the cosine of the angle between a and b in [-1, 1].
// Zero vectors have similarity 0 with everything.
func CosineSimilarity(a, b []float64) float64 {
	return cosineWithNorms(a, b, floats.Norm(a, 2), floats.Norm(b, 2))
}

func cosineWithNorms(a, b []float64, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}

	c := floats.Dot(a, b) / (na * nb)
	return min(1, max(-1, c))
}

func vectorNorms(vectors [][]float64) []float64 {
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = floats.Norm(v, 2)
	}
	return norms
}

// DenseSimilarity is the full N x N self-similarity matrix. The diagonal is
// exactly 1, including for silent frames.
type DenseSimilarity struct {
	m *mat.SymDense
}

// NewSelfSimilarity builds the full pairwise cosine self-similarity matrix
func NewSelfSimilarity(vectors [][]float64) *DenseSimilarity {
	n := len(vectors)
	if n == 0 {
		return &DenseSimilarity{}
	}

	norms := vectorNorms(vectors)
	m := mat.NewSymDense(n, nil)

	for i := range n {
		m.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			m.SetSym(i, j, cosineWithNorms(vectors[i], vectors[j], norms[i], norms[j]))
		}
	}

	return &DenseSimilarity{m: m}
}

// Frames returns the matrix dimension
func (d *DenseSimilarity) Frames() int {
	if d.m == nil {
		return 0
	}
	return d.m.SymmetricDim()
}

// At returns S[i][j]
func (d *DenseSimilarity) At(i, j int) float64 {
	return d.m.At(i, j)
}

// LagBandSimilarity materializes only the diagonals S[t][t+lag] for a fixed
// set of lags. Entries off those diagonals are computed on demand, so At
// agrees with DenseSimilarity everywhere while memory stays O(N * lags).
type LagBandSimilarity struct {
	vectors   [][]float64
	norms     []float64
	diagonals map[int][]float64
}

// NewLagBandSimilarity precomputes the diagonals for lags
func NewLagBandSimilarity(vectors [][]float64, lags []int) *LagBandSimilarity {
	b := &LagBandSimilarity{
		vectors:   vectors,
		norms:     vectorNorms(vectors),
		diagonals: make(map[int][]float64, len(lags)),
	}

	for _, lag := range lags {
		if lag <= 0 || lag >= len(vectors) {
			continue
		}
		if _, ok := b.diagonals[lag]; !ok {
			b.diagonals[lag] = b.computeDiagonal(lag)
		}
	}

	return b
}

// Frames returns the matrix dimension
func (b *LagBandSimilarity) Frames() int {
	return len(b.vectors)
}

// At returns S[i][j]
func (b *LagBandSimilarity) At(i, j int) float64 {
	if i == j {
		return 1
	}
	if i > j {
		i, j = j, i
	}
	if diag, ok := b.diagonals[j-i]; ok {
		return diag[i]
	}
	return cosineWithNorms(b.vectors[i], b.vectors[j], b.norms[i], b.norms[j])
}

// Diagonal returns S[t][t+lag] for t in [0, N-lag)
func (b *LagBandSimilarity) Diagonal(lag int) []float64 {
	if diag, ok := b.diagonals[lag]; ok {
		return diag
	}
	return b.computeDiagonal(lag)
}

func (b *LagBandSimilarity) computeDiagonal(lag int) []float64 {
	n := len(b.vectors)
	if lag < 0 || lag >= n {
		return nil
	}

	diag := make([]float64, n-lag)
	for t := range diag {
		diag[t] = cosineWithNorms(b.vectors[t], b.vectors[t+lag], b.norms[t], b.norms[t+lag])
	}
	return diag
}

// Diagonal returns S[t][t+lag] for t in [0, N-lag) of any similarity matrix
func Diagonal(s SimilarityMatrix, lag int) []float64 {
	if src, ok := s.(diagonalSource); ok {
		return src.Diagonal(lag)
	}

	n := s.Frames()
	if lag < 0 || lag >= n {
		return nil
	}

	diag := make([]float64, n-lag)
	for t := range diag {
		diag[t] = s.At(t, t+lag)
	}
	return diag
}
