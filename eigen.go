// eigen.go --  This file is part of goTB project.
// Mirzaeva Irina, 2023
//
//	goTB is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package gotb

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// EigenHermitian diagonalizes the Hermitian part of h. Eigenvalues are real
// and ascending, eigenvectors are the columns of the returned matrix in the
// same order.
//
// gonum has no complex symmetric solver, so A + iB is embedded into the real
// symmetric matrix [[A, -B], [B, A]]. Every eigenvalue of h appears twice in
// the embedding and every real eigenvector (x, y) gives the complex
// eigenvector x + iy.
func EigenHermitian(h *mat.CDense) ([]float64, *mat.CDense, error) {
	n, c := h.Dims()
	if n != c || n == 0 {
		return nil, nil, errors.Wrap(mat.ErrShape, "hamiltonian must be square and non-empty")
	}

	emb := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := 0.5 * (h.At(i, j) + cmplx.Conj(h.At(j, i)))
			if i <= j {
				emb.SetSym(i, j, real(v))
				emb.SetSym(n+i, n+j, real(v))
			}
			emb.SetSym(i, n+j, -imag(v))
		}
	}

	var eigsym mat.EigenSym
	ok := eigsym.Factorize(emb, true)
	if !ok {
		return nil, nil, ErrEigenFailed
	}
	w := eigsym.Values(nil)
	var ev mat.Dense
	eigsym.VectorsTo(&ev)

	scale := math.Max(1, math.Max(math.Abs(w[0]), math.Abs(w[2*n-1])))
	tol := 1e-9 * scale

	vals := make([]float64, 0, n)
	vecs := make([][]complex128, 0, n)
	for start := 0; start < n; {
		end := start + 1
		for end < n && w[2*end]-w[2*end-1] < tol {
			end++
		}
		cands := make([][]complex128, 0, 2*(end-start))
		for k := 2 * start; k < 2*end; k++ {
			z := make([]complex128, n)
			for i := 0; i < n; i++ {
				z[i] = complex(ev.At(i, k), ev.At(n+i, k))
			}
			cands = append(cands, z)
		}
		picked, err := complexSpan(cands, end-start)
		if err != nil {
			return nil, nil, err
		}
		for _, z := range picked {
			vals = append(vals, rayleigh(h, z))
			vecs = append(vecs, z)
		}
		start = end
	}

	inds := make([]int, n)
	floats.Argsort(vals, inds)
	res := mat.NewCDense(n, n, nil)
	for col, k := range inds {
		for i := 0; i < n; i++ {
			res.Set(i, col, vecs[k][i])
		}
	}
	return vals, res, nil
}

// complexSpan picks m orthonormal vectors spanning the complex span of cands.
// Inside a degenerate cluster z and iz both show up, so vectors are chosen
// greedily by the size of their component orthogonal to those already kept.
func complexSpan(cands [][]complex128, m int) ([][]complex128, error) {
	res := make([][]complex128, 0, m)
	used := make([]bool, len(cands))
	for len(res) < m {
		best, bestNorm := -1, 0.0
		var bestVec []complex128
		for k, z := range cands {
			if used[k] {
				continue
			}
			r := residual(z, res)
			if nr := cnorm(r); nr > bestNorm {
				best, bestNorm, bestVec = k, nr, r
			}
		}
		if best < 0 || bestNorm < 1e-6 {
			return nil, errors.Wrap(ErrEigenFailed, "degenerate eigenvectors are linearly dependent")
		}
		used[best] = true
		for i := range bestVec {
			bestVec[i] /= complex(bestNorm, 0)
		}
		res = append(res, bestVec)
	}
	return res, nil
}

func residual(z []complex128, basis [][]complex128) []complex128 {
	r := make([]complex128, len(z))
	copy(r, z)
	for _, b := range basis {
		var p complex128
		for i := range b {
			p += cmplx.Conj(b[i]) * r[i]
		}
		for i := range b {
			r[i] -= p * b[i]
		}
	}
	return r
}

func cnorm(z []complex128) float64 {
	s := 0.0
	for _, v := range z {
		s += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(s)
}

// rayleigh returns Re(z† h z) for a normalized z.
func rayleigh(h *mat.CDense, z []complex128) float64 {
	n := len(z)
	var res complex128
	for i := 0; i < n; i++ {
		var hz complex128
		for j := 0; j < n; j++ {
			hz += h.At(i, j) * z[j]
		}
		res += cmplx.Conj(z[i]) * hz
	}
	return real(res)
}
