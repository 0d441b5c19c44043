// helper.go --  This file is part of goTB project.
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
	"bufio"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

func ReadFileLines(r io.Reader) ([]string, error) {
	var result []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		result = append(result, scanner.Text())
	}
	return result, scanner.Err()
}

// WriteColumns writes rows of numbers as fixed width text columns.
func WriteColumns(w io.Writer, data [][]float64) error {
	var sb strings.Builder
	for i := range data {
		for j := range data[i] {
			sb.WriteString(fmt.Sprintf("%14.6f", data[i][j]))
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatCDense renders a complex matrix row by row, the way mat.Formatted
// does for real ones.
func FormatCDense(m mat.CMatrix) string {
	r, c := m.Dims()
	var sb strings.Builder
	for i := 0; i < r; i++ {
		sb.WriteString("    ")
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			sb.WriteString(fmt.Sprintf("(%9.4f%+9.4fi) ", real(v), imag(v)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func filledCDense(n int, v complex128) *mat.CDense {
	data := make([]complex128, n*n)
	if v != 0 {
		for i := range data {
			data[i] = v
		}
	}
	return mat.NewCDense(n, n, data)
}

func identityCDense(n int) *mat.CDense {
	res := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		res.Set(i, i, 1)
	}
	return res
}

func cloneCDense(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	data := make([]complex128, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data[i*c+j] = a.At(i, j)
		}
	}
	return mat.NewCDense(r, c, data)
}

// hadamard returns the entrywise product a ⊙ b.
func hadamard(a, b *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	res := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			res.Set(i, j, a.At(i, j)*b.At(i, j))
		}
	}
	return res
}

// axpy returns a + alpha*b.
func axpy(a *mat.CDense, alpha complex128, b *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	res := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			res.Set(i, j, a.At(i, j)+alpha*b.At(i, j))
		}
	}
	return res
}

func scaleCDense(alpha complex128, a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	res := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			res.Set(i, j, alpha*a.At(i, j))
		}
	}
	return res
}

func transposeCDense(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	res := mat.NewCDense(c, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			res.Set(j, i, a.At(i, j))
		}
	}
	return res
}

func adjointCDense(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	res := mat.NewCDense(c, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := a.At(i, j)
			res.Set(j, i, complex(real(v), -imag(v)))
		}
	}
	return res
}

// cmul computes op(a)*op(b) with complex BLAS.
func cmul(tA blas.Transpose, a *mat.CDense, tB blas.Transpose, b *mat.CDense) *mat.CDense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if tA != blas.NoTrans {
		ar, ac = ac, ar
	}
	if tB != blas.NoTrans {
		br, bc = bc, br
	}
	if ac != br {
		panic(mat.ErrShape)
	}
	res := mat.NewCDense(ar, bc, nil)
	cblas128.Gemm(tA, tB, 1, a.RawCMatrix(), b.RawCMatrix(), 0, res.RawCMatrix())
	return res
}

func traceCDense(a *mat.CDense) complex128 {
	n, _ := a.Dims()
	var res complex128
	for i := 0; i < n; i++ {
		res += a.At(i, i)
	}
	return res
}

// cinverse inverts a complex matrix through its real representation
// [[A, -B], [B, A]] of A + iB.
func cinverse(a *mat.CDense) (*mat.CDense, error) {
	n, _ := a.Dims()
	emb := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := a.At(i, j)
			emb.Set(i, j, real(v))
			emb.Set(n+i, n+j, real(v))
			emb.Set(i, n+j, -imag(v))
			emb.Set(n+i, j, imag(v))
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(emb); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, errors.Wrap(ErrSingularMatrix, err.Error())
		}
	}
	res := mat.NewCDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			res.Set(i, j, complex(inv.At(i, j), inv.At(n+i, j)))
		}
	}
	return res, nil
}

// maxAbs is the largest entry modulus, used as a convergence measure.
func maxAbs(a *mat.CDense) float64 {
	r, c := a.Dims()
	res := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := cmplx.Abs(a.At(i, j)); v > res {
				res = v
			}
		}
	}
	return res
}
