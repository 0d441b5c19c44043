// periodic.go --  This file is part of goTB project.
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
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// SetPeriodicBC sets the primitive cell vectors. Zero vectors are ignored
// and an all-zero cell turns periodic boundary conditions off.
func (h *Hamiltonian) SetPeriodicBC(pcv []r3.Vec) error {
	var vecs []r3.Vec
	for _, v := range pcv {
		if v != (r3.Vec{}) {
			vecs = append(vecs, v)
		}
	}
	h.kVector = nil
	if len(vecs) == 0 {
		h.ct = nil
		h.logger.Info("periodic boundary conditions off")
		return nil
	}
	ct, err := NewCyclicTopology(vecs, h.Structure.Labels(), h.Structure.Positions(), h.Structure.NNDistance)
	if err != nil {
		return err
	}
	h.ct = ct
	h.logger.Info("periodic boundary conditions on",
		"directions", ct.Periodicity(),
		"interfacial_atoms", len(ct.interfacial),
		"virtual_atoms", len(ct.virtual))
	return nil
}

// Topology returns the cyclic topology, nil without periodicity.
func (h *Hamiltonian) Topology() *CyclicTopology {
	return h.ct
}

// KVector returns the wave vector the Bloch matrices were computed for.
func (h *Hamiltonian) KVector() (r3.Vec, bool) {
	if h.kVector == nil {
		return r3.Vec{}, false
	}
	return *h.kVector, true
}

// BlochHamiltonian returns H(k) = factor(k) ⊙ H + add(k). The Bloch matrices
// are recomputed only when k differs from the previous call.
func (h *Hamiltonian) BlochHamiltonian(k r3.Vec) (*mat.CDense, error) {
	if h.h == nil {
		return nil, ErrNotInitialized
	}
	if h.ct == nil {
		return nil, ErrNoPeriodicity
	}

	if h.kVector == nil || *h.kVector != k {
		factor := h.blochFactor(k)
		add, _, _, err := h.blochAdd(k, false)
		if err != nil {
			return nil, err
		}
		h.hBCFactor, h.hBCAdd = factor, add
		kv := k
		h.kVector = &kv
	} else {
		h.logger.Debug("reusing Bloch matrices", "k", k)
	}

	return axpy(hadamard(h.hBCFactor, h.h), 1, h.hBCAdd), nil
}

// DiagonalizePeriodicBC solves the periodic system for the wave vector k.
func (h *Hamiltonian) DiagonalizePeriodicBC(k r3.Vec) ([]float64, *mat.CDense, error) {
	hk, err := h.BlochHamiltonian(k)
	if err != nil {
		return nil, nil, err
	}
	return EigenHermitian(hk)
}

func blochPhase(k, sep r3.Vec) complex128 {
	return cmplx.Exp(complex(0, r3.Dot(k, sep)))
}

func (h *Hamiltonian) blochFactor(k r3.Vec) *mat.CDense {
	res := filledCDense(h.Basis.Size(), 1)
	for j1, a1 := range h.Structure.Atoms {
		neighbours, _ := h.Structure.NeighboursOfAtom(j1)
		for _, j2 := range neighbours {
			if j1 == j2 {
				continue
			}
			phase := blochPhase(k, r3.Sub(a1.Coords, h.Structure.Atoms[j2].Coords))
			for l1 := 0; l1 < h.Basis.NumOrbitals(j1); l1++ {
				for l2 := 0; l2 < h.Basis.NumOrbitals(j2); l2++ {
					res.Set(h.Basis.index(j1, l1), h.Basis.index(j2, l2), phase)
				}
			}
		}
	}
	return res
}

// blochAdd sums the couplings of interfacial atoms to their periodic images.
// With split set the images are sorted into the left and right lead
// matrices instead of the shared one.
func (h *Hamiltonian) blochAdd(k r3.Vec, split bool) (add, left, right *mat.CDense, err error) {
	n := h.Basis.Size()
	if split {
		left = mat.NewCDense(n, n, nil)
		right = mat.NewCDense(n, n, nil)
	} else {
		add = mat.NewCDense(n, n, nil)
	}

	for _, j1 := range h.ct.InterfacialAtoms() {
		a1 := h.Structure.Atoms[j1]
		sp1 := h.species[j1]

		for _, v := range h.ct.NeighboursOf(a1.Coords) {
			va := h.ct.Virtual(v)
			sep := r3.Sub(a1.Coords, va.Coords)
			phase := blochPhase(k, sep)

			target := add
			if split {
				lead, err := h.ct.Classify(va.Coords, h.ct.PCV[0])
				if err != nil {
					return nil, nil, nil, fmt.Errorf("%w: %w", ErrInvalidLeadConfiguration, err)
				}
				// images in the right cell build the left lead matrix
				target = right
				if lead == LeadRight {
					target = left
				}
			}

			sp2 := h.species[va.Atom]
			h.recordDistance(r3.Norm(sep), a1.Label, va.Label, sp1.Title, sp2.Title)
			for l1 := range sp1.Orbitals {
				for l2 := range sp2.Orbitals {
					me, err := h.me.Hopping(sp1, l1, sp2, l2, sep)
					if err != nil {
						return nil, nil, nil, errors.Wrapf(err, "atom %s and image %s", a1.Label, va.Label)
					}
					ind1, ind2 := h.Basis.index(j1, l1), h.Basis.index(va.Atom, l2)
					target.Set(ind1, ind2, target.At(ind1, ind2)+phase*me)
				}
			}
		}
	}
	return add, left, right, nil
}

// CouplingHamiltonians returns the matrices (hl, h0, hr) of a system
// periodic along one direction. h0 is the Hamiltonian of one cell. hl is the
// transposed coupling of the cell to its right neighbour and hr the
// transposed coupling to its left neighbour, so that hl = H(1,0) and
// hr = H(-1,0). These are the inputs of SelfEnergies and Transmission.
func (h *Hamiltonian) CouplingHamiltonians() (hl, h0, hr *mat.CDense, err error) {
	if h.h == nil {
		return nil, nil, nil, ErrNotInitialized
	}
	if h.ct == nil {
		return nil, nil, nil, ErrNoPeriodicity
	}
	if h.ct.Periodicity() != 1 {
		return nil, nil, nil, fmt.Errorf("%w: %w: %d periodic directions",
			ErrInvalidLeadConfiguration, ErrAmbiguousLeadClassification, h.ct.Periodicity())
	}

	_, left, right, err := h.blochAdd(r3.Vec{}, true)
	if err != nil {
		return nil, nil, nil, err
	}
	h.hLeftLead, h.hRightLead = left, right
	h.kVector = nil

	return transposeCDense(left), cloneCDense(h.h), transposeCDense(right), nil
}
