// basis.go --  This file is part of goTB project.
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
	"golang.org/x/exp/slices"
)

// QuantumNumbers label one basis function.
type QuantumNumbers struct {
	Atom    int
	Orbital int
}

// Basis enumerates the basis functions of a structure. Atom i owns the
// indices offsets[i] .. offsets[i]+counts[i]-1.
type Basis struct {
	offsets []int
	counts  []int
	size    int
}

func NewBasis(s *Structure, orbitals OrbitalSets) (*Basis, error) {
	b := &Basis{
		offsets: make([]int, s.NumAtoms()),
		counts:  make([]int, s.NumAtoms()),
	}
	for i, a := range s.Atoms {
		sp, err := orbitals.Lookup(a.Species)
		if err != nil {
			return nil, errors.Wrapf(err, "atom %s", a.Label)
		}
		b.offsets[i] = b.size
		b.counts[i] = sp.NumOrbitals()
		b.size += b.counts[i]
	}
	return b, nil
}

func (b *Basis) Size() int {
	return b.size
}

func (b *Basis) NumOrbitals(atom int) int {
	return b.counts[atom]
}

// QuantumNumbersToIndex returns the matrix index of a basis function.
func (b *Basis) QuantumNumbersToIndex(qn QuantumNumbers) (int, error) {
	if qn.Atom < 0 || qn.Atom >= len(b.offsets) || qn.Orbital < 0 || qn.Orbital >= b.counts[qn.Atom] {
		return 0, errors.Wrapf(ErrInvalidQuantumNumbers, "atom %d, orbital %d", qn.Atom, qn.Orbital)
	}
	return b.offsets[qn.Atom] + qn.Orbital, nil
}

// index is QuantumNumbersToIndex for arguments already known to be valid.
func (b *Basis) index(atom, orbital int) int {
	return b.offsets[atom] + orbital
}

// IndexToQuantumNumbers is the inverse of QuantumNumbersToIndex.
func (b *Basis) IndexToQuantumNumbers(ind int) (QuantumNumbers, error) {
	if ind < 0 || ind >= b.size {
		return QuantumNumbers{}, errors.Wrapf(ErrInvalidQuantumNumbers, "index %d out of range [0, %d)", ind, b.size)
	}
	pos, found := slices.BinarySearch(b.offsets, ind)
	if found {
		// atoms without orbitals share the offset of the next atom
		for b.counts[pos] == 0 {
			pos++
		}
	} else {
		pos--
	}
	return QuantumNumbers{Atom: pos, Orbital: ind - b.offsets[pos]}, nil
}
