// structure_test.go --  This file is part of goTB project.
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
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const ladderXYZ = `4
    H cell
    A1       0.0000000000    0.0000000000    0.0000000000
    B2       0.0000000000    0.0000000000    1.0000000000
    A2       0.0000000000    1.0000000000    0.0000000000
    B3       0.0000000000    1.0000000000    1.0000000000
`

func TestParseXYZ(t *testing.T) {
	sites, err := ParseXYZString("\n" + ladderXYZ)
	require.NoError(t, err)
	require.Len(t, sites, 4)
	assert.Equal(t, "B2", sites[1].Label)
	assert.Equal(t, r3.Vec{Z: 1}, sites[1].Coords)
	assert.Equal(t, r3.Vec{Y: 1, Z: 1}, sites[3].Coords)
}

func TestParseXYZMalformed(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"no comment":  "1",
		"bad count":   "one\ncell\nA1 0 0 0\n",
		"short line":  "1\ncell\nA1 0 0\n",
		"bad number":  "1\ncell\nA1 0 x 0\n",
		"missing row": "2\ncell\nA1 0 0 0\n",
	}
	for name, xyz := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseXYZString(xyz)
			assert.True(t, errors.Is(err, ErrMalformedStructure), "got %v", err)
		})
	}
}

func TestReadXYZFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "ladder.xyz")
	require.NoError(t, os.WriteFile(fname, []byte(ladderXYZ), 0644))
	sites, err := ReadXYZFile(fname)
	require.NoError(t, err)
	assert.Len(t, sites, 4)

	_, err = ReadXYZFile(filepath.Join(t.TempDir(), "missing.xyz"))
	assert.Error(t, err)
}

func TestNewStructure(t *testing.T) {
	_, err := NewStructure(nil, 1)
	assert.True(t, errors.Is(err, ErrMalformedStructure))

	_, err = NewStructure([]Site{{Label: "A1"}}, 0)
	assert.True(t, errors.Is(err, ErrMalformedStructure))

	_, err = NewStructure([]Site{{Label: "A1"}, {Label: "A1", Coords: r3.Vec{X: 1}}}, 1)
	assert.True(t, errors.Is(err, ErrMalformedStructure))

	_, err = NewStructure([]Site{{Label: "12"}}, 1)
	assert.True(t, errors.Is(err, ErrMalformedStructure))

	sites, err := ParseXYZString(ladderXYZ)
	require.NoError(t, err)
	s, err := NewStructure(sites, 1.1)
	require.NoError(t, err)
	assert.Equal(t, 4, s.NumAtoms())
	assert.Equal(t, []string{"A1", "B2", "A2", "B3"}, s.Labels())
	assert.Equal(t, "B", s.Atoms[3].Species)
	i, ok := s.IndexOf("A2")
	assert.True(t, ok)
	assert.Equal(t, 2, i)
}

func TestSpeciesOf(t *testing.T) {
	assert.Equal(t, "Si", SpeciesOf("Si12"))
	assert.Equal(t, "A", SpeciesOf("A1"))
	assert.Equal(t, "H", SpeciesOf("H"))
}

func TestNeighbourQueries(t *testing.T) {
	sites, err := ParseXYZString(ladderXYZ)
	require.NoError(t, err)
	s, err := NewStructure(sites, 1.1)
	require.NoError(t, err)

	nn, err := s.NeighboursOfAtom(0)
	require.NoError(t, err)
	require.Len(t, nn, 3)
	assert.Equal(t, 0, nn[0], "the atom itself comes first")
	assert.ElementsMatch(t, []int{1, 2}, nn[1:])

	byLabel, err := s.NeighboursOfLabel("A1")
	require.NoError(t, err)
	assert.Equal(t, nn, byLabel)

	byQuery, err := s.Neighbours(Query{Kind: QueryByIndex, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, nn, byQuery)

	byPos := s.NeighboursOfPosition(r3.Vec{Y: 1, Z: 0.9})
	assert.Equal(t, []int{3, 2, 1}, byPos)

	_, err = s.Neighbours(Query{Kind: QueryKind(42)})
	assert.True(t, errors.Is(err, ErrUnsupportedQuery))
	_, err = s.NeighboursOfLabel("C7")
	assert.True(t, errors.Is(err, ErrUnsupportedQuery))
	_, err = s.NeighboursOfAtom(4)
	assert.True(t, errors.Is(err, ErrUnsupportedQuery))
}

func TestNeighboursOrderedAndBounded(t *testing.T) {
	// a dense cubic grid, every query point sees more than 25 atoms
	var sites []Site
	n := 0
	for i := -2; i <= 2; i++ {
		for j := -2; j <= 2; j++ {
			for k := -2; k <= 2; k++ {
				n++
				sites = append(sites, Site{
					Label:  fmt.Sprintf("C%d", n),
					Coords: r3.Vec{X: float64(i), Y: float64(j), Z: float64(k)},
				})
			}
		}
	}
	s, err := NewStructure(sites, 3)
	require.NoError(t, err)

	origin := r3.Vec{X: 0.1, Y: 0.05}
	nn := s.NeighboursOfPosition(origin)
	require.Len(t, nn, MaxNeighbours)
	prev := 0.0
	for _, i := range nn {
		d := r3.Norm(r3.Sub(s.Atoms[i].Coords, origin))
		assert.LessOrEqual(t, d, 3.0)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}

	// beyond the cutoff nothing is returned
	assert.Empty(t, s.NeighboursOfPosition(r3.Vec{X: 10}))
}
