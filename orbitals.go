// orbitals.go --  This file is part of goTB project.
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
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// orbitalL maps orbital titles to the orbital angular momentum.
var orbitalL = map[string]int{
	"s":   0,
	"px":  1,
	"py":  1,
	"pz":  1,
	"dxy": 2,
	"dyz": 2,
	"dxz": 2,
	"dx2": 2,
	"dz2": 2,
}

type Orbital struct {
	Title  string
	L      int
	Spin   int
	Energy float64
}

// Species is the orbital set of one kind of atom.
type Species struct {
	Title    string
	Orbitals []Orbital
}

func NewSpecies(title string) *Species {
	return &Species{Title: title}
}

// AddOrbital appends an orbital with the given symmetry title, on-site
// energy and spin index (0 or 1).
func (s *Species) AddOrbital(title string, energy float64, spin int) error {
	l, ok := orbitalL[title]
	if !ok {
		return errors.Wrapf(ErrUnknownOrbital, "%q for species %s", title, s.Title)
	}
	if spin != 0 && spin != 1 {
		return errors.Wrapf(ErrUnknownOrbital, "spin index %d for %s orbital of %s", spin, title, s.Title)
	}
	s.Orbitals = append(s.Orbitals, Orbital{Title: title, L: l, Spin: spin, Energy: energy})
	return nil
}

func (s *Species) NumOrbitals() int {
	return len(s.Orbitals)
}

func (s *Species) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %d orbitals\n", s.Title, len(s.Orbitals)))
	for i, o := range s.Orbitals {
		sb.WriteString(fmt.Sprintf("  %2d %-4s l=%d s=%d E=%g\n", i, o.Title, o.L, o.Spin, o.Energy))
	}
	return sb.String()
}

// OrbitalSets maps a species title to its orbitals.
type OrbitalSets map[string]*Species

// Lookup finds the orbital set for an atom label or a species title.
func (o OrbitalSets) Lookup(label string) (*Species, error) {
	if sp, ok := o[label]; ok {
		return sp, nil
	}
	if sp, ok := o[SpeciesOf(label)]; ok {
		return sp, nil
	}
	return nil, errors.Wrapf(ErrUnknownSpecies, "%q", label)
}
