// matrixelement.go --  This file is part of goTB project.
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

// RadialFunc scales hopping integrals with the inter-atomic distance.
type RadialFunc func(dist float64) float64

// BucketFunc maps a distance to the tag of the parameter record to use
// (first, second ... neighbours). An empty tag selects the default record.
type BucketFunc func(dist float64) string

// MatrixElements evaluates single entries of the Hamiltonian.
type MatrixElements struct {
	Params     *ParamTable
	Diatomic   DiatomicFunc
	SOCoupling float64
	Radial     RadialFunc
	Bucket     BucketFunc
}

// Onsite returns the energy of orbital l of a species.
func (me *MatrixElements) Onsite(sp *Species, l int) complex128 {
	return complex(sp.Orbitals[l].Energy, 0)
}

type soKey struct {
	t1, t2 string
	s1, s2 int
}

// soTable lists the non-zero on-site spin-orbit couplings of the p shell in
// units of the coupling constant over three.
var soTable = map[soKey]complex128{
	{"px", "py", 0, 0}: -1i,
	{"px", "pz", 0, 1}: 1,
	{"py", "pz", 0, 1}: -1i,
	{"pz", "px", 0, 1}: -1,
	{"pz", "py", 0, 1}: 1i,
	{"px", "py", 1, 1}: 1i,
	{"py", "px", 0, 0}: 1i,
	{"pz", "px", 1, 0}: 1,
	{"pz", "py", 1, 0}: 1i,
	{"px", "pz", 1, 0}: -1,
	{"py", "pz", 1, 0}: -1i,
	{"py", "px", 1, 1}: -1i,
}

// SpinOrbit returns the on-site spin-orbit coupling between orbitals l1 and
// l2 of one atom. Only p orbitals couple.
func (me *MatrixElements) SpinOrbit(sp *Species, l1, l2 int) complex128 {
	if me.SOCoupling == 0 {
		return 0
	}
	o1, o2 := sp.Orbitals[l1], sp.Orbitals[l2]
	if o1.L != 1 || o2.L != 1 {
		return 0
	}
	return soTable[soKey{o1.Title, o2.Title, o1.Spin, o2.Spin}] * complex(me.SOCoupling/3, 0)
}

// Hopping returns <sp1, l1|H|sp2, l2> for atoms separated by
// sep = pos1 - pos2.
func (me *MatrixElements) Hopping(sp1 *Species, l1 int, sp2 *Species, l2 int, sep r3.Vec) (complex128, error) {
	norm := r3.Norm(sep)
	if norm == 0 {
		return 0, nil
	}
	o1, o2 := sp1.Orbitals[l1], sp2.Orbitals[l2]
	if o1.Spin != o2.Spin {
		return 0, nil
	}

	tag := ""
	if me.Bucket != nil {
		tag = me.Bucket(norm)
	}
	factor := 1.0
	if me.Radial != nil {
		factor = me.Radial(norm)
	}

	dir := r3.Scale(1/norm, sep)
	if o1.L > o2.L {
		o1, o2 = o2, o1
		sp1, sp2 = sp2, sp1
		dir = r3.Scale(-1, dir)
	}

	lookup := me.Params.Lookup
	if o1.L != o2.L {
		lookup = me.Params.LookupOrdered
	}
	p, ok := lookup(sp1.Title, sp2.Title, tag)
	if !ok {
		return 0, errors.Wrapf(ErrInvalidParams, "no parameters for %s_%s%s", sp1.Title, sp2.Title, tag)
	}
	diatomic := me.Diatomic
	if diatomic == nil {
		diatomic = SlaterKoster
	}
	return complex(diatomic(o1, o2, dir, p)*factor, 0), nil
}
