// bands.go --  This file is part of goTB project.
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
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// BandStructure returns the eigenvalues of the Bloch Hamiltonian for every
// wave vector, one ascending row per k-point.
func BandStructure(h *Hamiltonian, kpoints []r3.Vec) ([][]float64, error) {
	res := make([][]float64, len(kpoints))
	for i, k := range kpoints {
		vals, _, err := h.DiagonalizePeriodicBC(k)
		if err != nil {
			return nil, errors.Wrapf(err, "k-point %d", i)
		}
		res[i] = vals
	}
	return res, nil
}

// KPath samples the broken line through points with n steps per segment.
// The last point is included.
func KPath(points []r3.Vec, n int) []r3.Vec {
	if len(points) < 2 {
		return append([]r3.Vec(nil), points...)
	}
	if n < 1 {
		n = 1
	}
	res := make([]r3.Vec, 0, n*(len(points)-1)+1)
	for i := 0; i < len(points)-1; i++ {
		step := r3.Scale(1/float64(n), r3.Sub(points[i+1], points[i]))
		for j := 0; j < n; j++ {
			res = append(res, r3.Add(points[i], r3.Scale(float64(j), step)))
		}
	}
	return append(res, points[len(points)-1])
}

// PathLength returns the cumulative length along a sampled path, the usual
// abscissa of a band plot.
func PathLength(kpoints []r3.Vec) []float64 {
	res := make([]float64, len(kpoints))
	for i := 1; i < len(kpoints); i++ {
		res[i] = res[i-1] + r3.Norm(r3.Sub(kpoints[i], kpoints[i-1]))
	}
	return res
}
