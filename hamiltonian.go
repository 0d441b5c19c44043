// hamiltonian.go --  This file is part of goTB project.
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
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// DiagnosticsSink receives events that do not change the result but help to
// check a model, such as every distinct bond length met during assembly.
type DiagnosticsSink interface {
	UniqueDistance(dist float64, atom1, atom2 string)
}

type Option func(*Hamiltonian)

// WithSpinOrbit sets the on-site spin-orbit coupling constant.
func WithSpinOrbit(coupling float64) Option {
	return func(h *Hamiltonian) { h.me.SOCoupling = coupling }
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Hamiltonian) { h.logger = logger }
}

// WithDiatomic replaces the Slater-Koster table.
func WithDiatomic(f DiatomicFunc) Option {
	return func(h *Hamiltonian) { h.me.Diatomic = f }
}

func WithDiagnostics(sink DiagnosticsSink) Option {
	return func(h *Hamiltonian) { h.sink = sink }
}

// Hamiltonian is a dense tight-binding Hamiltonian of a structure with
// optional periodic boundary conditions.
//
// A Hamiltonian caches the Bloch matrices of the last wave vector and is not
// safe for concurrent use.
type Hamiltonian struct {
	Structure *Structure
	Basis     *Basis

	species   []*Species
	me        MatrixElements
	logger    *slog.Logger
	sink      DiagnosticsSink
	distances map[string]struct{}

	h          *mat.CDense // isolated system
	hBCFactor  *mat.CDense // Bloch phase factors
	hBCAdd     *mat.CDense // couplings to images in adjacent cells
	hLeftLead  *mat.CDense
	hRightLead *mat.CDense
	coords     []r3.Vec
	kVector    *r3.Vec
	ct         *CyclicTopology
}

// NewHamiltonian sets up the basis of a structure given as ordered sites.
// Matrix elements are computed by Initialize.
func NewHamiltonian(sites []Site, nnDistance float64, orbitals OrbitalSets, params *ParamTable, opts ...Option) (*Hamiltonian, error) {
	s, err := NewStructure(sites, nnDistance)
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = NewParamTable()
	}
	h := &Hamiltonian{
		Structure: s,
		me:        MatrixElements{Params: params},
		distances: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	h.Basis, err = NewBasis(s, orbitals)
	if err != nil {
		return nil, err
	}
	h.species = make([]*Species, s.NumAtoms())
	for i, a := range s.Atoms {
		h.species[i], _ = orbitals.Lookup(a.Species)
	}

	h.logger.Info("neighbourhood", "radius", nnDistance, "atoms", s.NumAtoms(), "basis_size", h.Basis.Size())
	seen := make(map[string]bool)
	for _, sp := range h.species {
		if !seen[sp.Title] {
			seen[sp.Title] = true
			h.logger.Info("basis set", "species", sp.Title, "orbitals", sp.NumOrbitals())
		}
	}
	return h, nil
}

// NewHamiltonianXYZ is NewHamiltonian for a structure in the xyz format.
func NewHamiltonianXYZ(xyz string, nnDistance float64, orbitals OrbitalSets, params *ParamTable, opts ...Option) (*Hamiltonian, error) {
	sites, err := ParseXYZString(xyz)
	if err != nil {
		return nil, err
	}
	return NewHamiltonian(sites, nnDistance, orbitals, params, opts...)
}

// Initialize computes the matrix elements of the isolated system. Both
// functions are optional.
func (h *Hamiltonian) Initialize(radial RadialFunc, bucket BucketFunc) error {
	h.logger.Debug("radial dependence", "continuous", radial != nil, "discrete", bucket != nil)
	h.me.Radial = radial
	h.me.Bucket = bucket

	n := h.Basis.Size()
	hm := mat.NewCDense(n, n, nil)
	coords := make([]r3.Vec, n)

	for j1, a1 := range h.Structure.Atoms {
		neighbours, err := h.Structure.NeighboursOfAtom(j1)
		if err != nil {
			return err
		}
		sp1 := h.species[j1]

		for _, j2 := range neighbours {
			// on-site block
			if j1 == j2 {
				for l1 := range sp1.Orbitals {
					ind1 := h.Basis.index(j1, l1)
					hm.Set(ind1, ind1, h.me.Onsite(sp1, l1))
					coords[ind1] = a1.Coords

					if h.me.SOCoupling == 0 {
						continue
					}
					for l2 := range sp1.Orbitals {
						if l2 != l1 {
							hm.Set(ind1, h.Basis.index(j1, l2), h.me.SpinOrbit(sp1, l1, l2))
						}
					}
				}
				continue
			}

			a2 := h.Structure.Atoms[j2]
			sp2 := h.species[j2]
			sep := r3.Sub(a1.Coords, a2.Coords)
			h.recordDistance(r3.Norm(sep), a1.Label, a2.Label, sp1.Title, sp2.Title)
			for l1 := range sp1.Orbitals {
				for l2 := range sp2.Orbitals {
					v, err := h.me.Hopping(sp1, l1, sp2, l2, sep)
					if err != nil {
						return errors.Wrapf(err, "atoms %s and %s", a1.Label, a2.Label)
					}
					hm.Set(h.Basis.index(j1, l1), h.Basis.index(j2, l2), v)
				}
			}
		}
	}

	h.h = hm
	h.hBCFactor = filledCDense(n, 1)
	h.hBCAdd = filledCDense(n, 0)
	h.coords = coords
	h.kVector = nil
	return nil
}

func (h *Hamiltonian) recordDistance(dist float64, atom1, atom2, species1, species2 string) {
	key := fmt.Sprintf("%.4f %s %s", dist, species1, species2)
	if _, ok := h.distances[key]; ok {
		return
	}
	h.distances[key] = struct{}{}
	h.logger.Debug("unique distance", "distance", dist, "atom1", atom1, "atom2", atom2)
	if h.sink != nil {
		h.sink.UniqueDistance(dist, atom1, atom2)
	}
}

// Matrix returns a copy of the Hamiltonian of the isolated system.
func (h *Hamiltonian) Matrix() (*mat.CDense, error) {
	if h.h == nil {
		return nil, ErrNotInitialized
	}
	return cloneCDense(h.h), nil
}

// Diagonalize solves the isolated system. Eigenvalues are ascending and the
// columns of the second result are the matching eigenvectors.
func (h *Hamiltonian) Diagonalize() ([]float64, *mat.CDense, error) {
	if h.h == nil {
		return nil, nil, ErrNotInitialized
	}
	return EigenHermitian(h.h)
}

// SiteCoordinates returns the position of the atom of every basis function.
func (h *Hamiltonian) SiteCoordinates() []r3.Vec {
	res := make([]r3.Vec, len(h.coords))
	copy(res, h.coords)
	return res
}
