// structure.go --  This file is part of goTB project.
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
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// Site is a labelled position as it comes from an input file.
type Site struct {
	Label  string
	Coords r3.Vec
}

type Atom struct {
	Label   string
	Species string
	Coords  r3.Vec
}

// Structure is an ordered list of atoms with a static k-d tree over their
// positions. The order of atoms defines atom indices and is never changed.
type Structure struct {
	Atoms      []Atom
	NNDistance float64

	labels map[string]int
	index  *spatialIndex
}

// SpeciesOf strips digits from an atom label: "Si12" is a silicon atom.
func SpeciesOf(label string) string {
	return strings.TrimFunc(strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, label), unicode.IsSpace)
}

// NewStructure builds a structure from ordered sites and indexes it for
// neighbour queries within nnDistance.
func NewStructure(sites []Site, nnDistance float64) (*Structure, error) {
	if len(sites) == 0 {
		return nil, errors.Wrap(ErrMalformedStructure, "no atoms")
	}
	if !(nnDistance > 0) {
		return nil, errors.Wrapf(ErrMalformedStructure, "neighbour radius must be positive, got %v", nnDistance)
	}
	s := &Structure{
		Atoms:      make([]Atom, len(sites)),
		NNDistance: nnDistance,
		labels:     make(map[string]int, len(sites)),
	}
	coords := make([]r3.Vec, len(sites))
	for i, st := range sites {
		if _, ok := s.labels[st.Label]; ok {
			return nil, errors.Wrapf(ErrMalformedStructure, "duplicate atom label %q", st.Label)
		}
		sp := SpeciesOf(st.Label)
		if sp == "" {
			return nil, errors.Wrapf(ErrMalformedStructure, "atom %d has no species in label %q", i, st.Label)
		}
		s.Atoms[i] = Atom{Label: st.Label, Species: sp, Coords: st.Coords}
		s.labels[st.Label] = i
		coords[i] = st.Coords
	}
	s.index = newSpatialIndex(coords, nnDistance)
	return s, nil
}

// ParseXYZ reads sites in the xyz format: number of atoms, a comment line,
// then "label x y z" per atom.
func ParseXYZ(r io.Reader) ([]Site, error) {
	data, err := ReadFileLines(r)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedStructure, err.Error())
	}
	// leading blank lines are common in inline strings
	for len(data) > 0 && strings.TrimSpace(data[0]) == "" {
		data = data[1:]
	}
	if len(data) < 2 {
		return nil, errors.Wrap(ErrMalformedStructure, "xyz needs a count line and a comment line")
	}
	num, err := strconv.Atoi(strings.TrimSpace(data[0]))
	if err != nil || num < 0 {
		return nil, errors.Wrapf(ErrMalformedStructure, "line 1: bad number of atoms %q", data[0])
	}

	var result []Site
	for i := 2; i < len(data) && len(result) < num; i++ {
		words := strings.Fields(data[i])
		if len(words) == 0 {
			continue
		}
		if len(words) < 4 {
			return nil, errors.Wrapf(ErrMalformedStructure, "line %d: incorrect format of coordinates for atom %s", i+1, words[0])
		}
		var xyz [3]float64
		for k := 0; k < 3; k++ {
			xyz[k], err = strconv.ParseFloat(words[k+1], 64)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedStructure, "line %d: %v", i+1, err)
			}
		}
		result = append(result, Site{Label: words[0], Coords: r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}})
	}
	if len(result) != num {
		return nil, errors.Wrapf(ErrMalformedStructure, "expected %d atoms, found %d", num, len(result))
	}
	return result, nil
}

// ParseXYZString is ParseXYZ over an inline string.
func ParseXYZString(xyz string) ([]Site, error) {
	return ParseXYZ(strings.NewReader(xyz))
}

func ReadXYZFile(fname string) ([]Site, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseXYZ(file)
}

func (s *Structure) NumAtoms() int {
	return len(s.Atoms)
}

func (s *Structure) Labels() []string {
	res := make([]string, len(s.Atoms))
	for i, a := range s.Atoms {
		res[i] = a.Label
	}
	return res
}

func (s *Structure) Positions() []r3.Vec {
	res := make([]r3.Vec, len(s.Atoms))
	for i, a := range s.Atoms {
		res[i] = a.Coords
	}
	return res
}

// IndexOf returns the index of the atom with the given label.
func (s *Structure) IndexOf(label string) (int, bool) {
	i, ok := s.labels[label]
	return i, ok
}

// QueryKind selects how a neighbour Query is interpreted.
type QueryKind int

const (
	QueryByIndex QueryKind = iota + 1
	QueryByPosition
	QueryByLabel
)

// Query is a tagged neighbour query. Only the field matching Kind is read.
type Query struct {
	Kind     QueryKind
	Index    int
	Position r3.Vec
	Label    string
}

// Neighbours dispatches a tagged query to the matching Neighbours* method.
func (s *Structure) Neighbours(q Query) ([]int, error) {
	switch q.Kind {
	case QueryByIndex:
		return s.NeighboursOfAtom(q.Index)
	case QueryByPosition:
		return s.NeighboursOfPosition(q.Position), nil
	case QueryByLabel:
		return s.NeighboursOfLabel(q.Label)
	}
	return nil, errors.Wrapf(ErrUnsupportedQuery, "query kind %d", q.Kind)
}

// NeighboursOfAtom returns atoms within NNDistance of atom i, the atom
// itself included, nearest first.
func (s *Structure) NeighboursOfAtom(i int) ([]int, error) {
	if i < 0 || i >= len(s.Atoms) {
		return nil, errors.Wrapf(ErrUnsupportedQuery, "atom index %d out of range [0, %d)", i, len(s.Atoms))
	}
	return s.index.query(s.Atoms[i].Coords), nil
}

func (s *Structure) NeighboursOfPosition(pos r3.Vec) []int {
	return s.index.query(pos)
}

func (s *Structure) NeighboursOfLabel(label string) ([]int, error) {
	i, ok := s.labels[label]
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedQuery, "no atom labelled %q", label)
	}
	return s.index.query(s.Atoms[i].Coords), nil
}
