// topology.go --  This file is part of goTB project.
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

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/r3"
)

// Lead tells which adjacent cell a periodic image belongs to.
type Lead int

const (
	LeadLeft Lead = iota + 1
	LeadRight
)

func (l Lead) String() string {
	switch l {
	case LeadLeft:
		return "L"
	case LeadRight:
		return "R"
	}
	return "?"
}

// VirtualAtom is a periodic image of a real atom.
type VirtualAtom struct {
	Label       string
	Atom        int    // index of the real atom it is an image of
	Translation r3.Vec // vector the real atom was moved by
	Coords      r3.Vec
}

// CyclicTopology describes the neighbourhood of a primitive cell across its
// boundaries. It is read-only once built.
type CyclicTopology struct {
	PCV []r3.Vec

	centroid    r3.Vec
	virtual     []VirtualAtom
	interfacial []int

	// combined holds the interfacial atoms followed by the virtual ones;
	// entries below len(interfacial) are real atoms
	index *spatialIndex
}

// NewCyclicTopology generates the images of every atom under ±pcv[j] and
// keeps the ones that have a real atom within nnDistance.
func NewCyclicTopology(pcv []r3.Vec, labels []string, positions []r3.Vec, nnDistance float64) (*CyclicTopology, error) {
	if len(labels) != len(positions) {
		return nil, errors.Wrapf(ErrMalformedStructure, "%d labels for %d positions", len(labels), len(positions))
	}
	if len(positions) == 0 {
		return nil, errors.Wrap(ErrMalformedStructure, "no atoms")
	}
	ct := &CyclicTopology{
		PCV: slices.Clone(pcv),
	}
	for _, p := range positions {
		ct.centroid = r3.Add(ct.centroid, p)
	}
	ct.centroid = r3.Scale(1/float64(len(positions)), ct.centroid)

	cell := newSpatialIndex(positions, nnDistance)
	isInterfacial := make([]bool, len(positions))

	for j, v := range pcv {
		for _, sign := range []float64{1, -1} {
			t := r3.Scale(sign, v)
			for i, p := range positions {
				img := r3.Add(p, t)
				nn := cell.query(img)
				if len(nn) == 0 {
					continue
				}
				for _, k := range nn {
					isInterfacial[k] = true
				}
				ct.virtual = append(ct.virtual, VirtualAtom{
					Label:       fmt.Sprintf("%s_%+d_%d", labels[i], int(sign)*(j+1), i),
					Atom:        i,
					Translation: t,
					Coords:      img,
				})
			}
		}
	}

	for i, ok := range isInterfacial {
		if ok {
			ct.interfacial = append(ct.interfacial, i)
		}
	}
	combined := make([]r3.Vec, 0, len(ct.interfacial)+len(ct.virtual))
	for _, i := range ct.interfacial {
		combined = append(combined, positions[i])
	}
	for _, va := range ct.virtual {
		combined = append(combined, va.Coords)
	}
	ct.index = newSpatialIndex(combined, nnDistance)
	return ct, nil
}

// Periodicity is the number of periodic directions.
func (ct *CyclicTopology) Periodicity() int {
	return len(ct.PCV)
}

// InterfacialAtoms returns the real atoms that interact with at least one
// image in an adjacent cell, in ascending order.
func (ct *CyclicTopology) InterfacialAtoms() []int {
	return slices.Clone(ct.interfacial)
}

func (ct *CyclicTopology) VirtualAtoms() []VirtualAtom {
	return slices.Clone(ct.virtual)
}

func (ct *CyclicTopology) Virtual(i int) VirtualAtom {
	return ct.virtual[i]
}

// NeighboursOf returns the virtual atoms within the neighbour radius of
// pos, nearest first, as indices into VirtualAtoms.
func (ct *CyclicTopology) NeighboursOf(pos r3.Vec) []int {
	nn := ct.index.query(pos)
	res := make([]int, 0, len(nn))
	for _, k := range nn {
		if k >= len(ct.interfacial) {
			res = append(res, k-len(ct.interfacial))
		}
	}
	return res
}

// Classify decides whether an image at pos lies in the cell to the left or
// to the right along translation. It needs a single periodic direction.
func (ct *CyclicTopology) Classify(pos, translation r3.Vec) (Lead, error) {
	if len(ct.PCV) != 1 {
		return 0, errors.Wrapf(ErrAmbiguousLeadClassification, "%d periodic directions", len(ct.PCV))
	}
	if r3.Dot(r3.Sub(pos, ct.centroid), translation) > 0 {
		return LeadRight, nil
	}
	return LeadLeft, nil
}
