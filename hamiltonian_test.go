// hamiltonian_test.go --  This file is part of goTB project.
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
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const singleAtomXYZ = `1
    H cell
    A1       0.0000000000    0.0000000000    0.0000000000
`

type distanceRecorder struct {
	calls []float64
}

func (d *distanceRecorder) UniqueDistance(dist float64, atom1, atom2 string) {
	d.calls = append(d.calls, dist)
}

func sOrbital(t *testing.T, title string, energy float64) *Species {
	t.Helper()
	sp := NewSpecies(title)
	require.NoError(t, sp.AddOrbital("s", energy, 0))
	return sp
}

func singleAtomChain(t *testing.T, opts ...Option) *Hamiltonian {
	t.Helper()
	params := NewParamTable()
	require.NoError(t, params.Set(PairKey{A: "A", B: "A"}, HoppingParams{SsSigma: 0.5}))
	h, err := NewHamiltonianXYZ(singleAtomXYZ, 1.1, OrbitalSets{"A": sOrbital(t, "A", -0.7)}, params, opts...)
	require.NoError(t, err)
	require.NoError(t, h.Initialize(nil, nil))
	require.NoError(t, h.SetPeriodicBC([]r3.Vec{{Z: 1}}))
	return h
}

func ladder(t *testing.T) *Hamiltonian {
	t.Helper()
	params := NewParamTable()
	for _, k := range []PairKey{{A: "A", B: "A"}, {A: "B", B: "B"}, {A: "A", B: "B"}} {
		require.NoError(t, params.Set(k, HoppingParams{SsSigma: -0.5}))
	}
	orbitals := OrbitalSets{"A": sOrbital(t, "A", -0.7), "B": sOrbital(t, "B", -0.5)}
	h, err := NewHamiltonianXYZ(ladderXYZ, 1.1, orbitals, params)
	require.NoError(t, err)
	require.NoError(t, h.Initialize(nil, nil))
	require.NoError(t, h.SetPeriodicBC([]r3.Vec{{Z: 2}}))
	return h
}

func assertCDense(t *testing.T, want [][]complex128, got *mat.CDense) {
	t.Helper()
	r, c := got.Dims()
	require.Equal(t, len(want), r)
	for i := range want {
		require.Len(t, want[i], c)
		for j := range want[i] {
			assert.InDelta(t, real(want[i][j]), real(got.At(i, j)), 1e-12, "re %d %d", i, j)
			assert.InDelta(t, imag(want[i][j]), imag(got.At(i, j)), 1e-12, "im %d %d", i, j)
		}
	}
}

func TestSingleAtomChain(t *testing.T) {
	h := singleAtomChain(t)

	m, err := h.Matrix()
	require.NoError(t, err)
	assertCDense(t, [][]complex128{{-0.7}}, m)

	vals, _, err := h.DiagonalizePeriodicBC(r3.Vec{})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.3}, vals, 1e-12)

	vals, _, err = h.DiagonalizePeriodicBC(r3.Vec{Z: math.Pi})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1.7}, vals, 1e-12)

	hl, h0, hr, err := h.CouplingHamiltonians()
	require.NoError(t, err)
	assertCDense(t, [][]complex128{{0.5}}, hl)
	assertCDense(t, [][]complex128{{-0.7}}, h0)
	assertCDense(t, [][]complex128{{0.5}}, hr)

	_, ok := h.KVector()
	assert.False(t, ok, "lead extraction leaves no cached wave vector")
}

func TestTwoAtomCellFoldsChain(t *testing.T) {
	params := NewParamTable()
	require.NoError(t, params.Set(PairKey{A: "A", B: "A"}, HoppingParams{SsSigma: 0.5}))
	h, err := NewHamiltonian([]Site{
		{Label: "A1", Coords: r3.Vec{}},
		{Label: "A2", Coords: r3.Vec{Z: 1}},
	}, 1.1, OrbitalSets{"A": sOrbital(t, "A", -0.7)}, params)
	require.NoError(t, err)
	require.NoError(t, h.Initialize(nil, nil))
	require.NoError(t, h.SetPeriodicBC([]r3.Vec{{Z: 2}}))

	vals, vecs, err := h.DiagonalizePeriodicBC(r3.Vec{})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1.7, 0.3}, vals, 1e-12)
	hk, err := h.BlochHamiltonian(r3.Vec{})
	require.NoError(t, err)
	checkEigenpairs(t, hk, vals, vecs)

	// zone boundary of the doubled cell
	vals, _, err = h.DiagonalizePeriodicBC(r3.Vec{Z: math.Pi / 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-0.7, -0.7}, vals, 1e-12)
}

func TestBlochCache(t *testing.T) {
	h := singleAtomChain(t)
	k1 := r3.Vec{Z: 0.3}

	first, err := h.BlochHamiltonian(k1)
	require.NoError(t, err)
	kv, ok := h.KVector()
	require.True(t, ok)
	assert.Equal(t, k1, kv)
	add := h.hBCAdd

	second, err := h.BlochHamiltonian(k1)
	require.NoError(t, err)
	assert.Equal(t, first.RawCMatrix().Data, second.RawCMatrix().Data)
	assert.Same(t, add, h.hBCAdd, "same wave vector reuses the Bloch matrices")

	_, err = h.BlochHamiltonian(r3.Vec{Z: 0.7})
	require.NoError(t, err)
	assert.NotEqual(t, add.At(0, 0), h.hBCAdd.At(0, 0))

	require.NoError(t, h.SetPeriodicBC([]r3.Vec{{Z: 1}}))
	_, ok = h.KVector()
	assert.False(t, ok)

	// the zero vector is a valid wave vector, distinct from no wave vector
	_, err = h.BlochHamiltonian(r3.Vec{})
	require.NoError(t, err)
	kv, ok = h.KVector()
	assert.True(t, ok)
	assert.Equal(t, r3.Vec{}, kv)
}

func TestLadderCouplings(t *testing.T) {
	h := ladder(t)

	assert.Equal(t, []r3.Vec{{}, {Z: 1}, {Y: 1}, {Y: 1, Z: 1}}, h.SiteCoordinates())

	m, err := h.Matrix()
	require.NoError(t, err)
	assertCDense(t, [][]complex128{
		{-0.7, -0.5, -0.5, 0},
		{-0.5, -0.5, 0, -0.5},
		{-0.5, 0, -0.7, -0.5},
		{0, -0.5, -0.5, -0.5},
	}, m)

	hl, h0, hr, err := h.CouplingHamiltonians()
	require.NoError(t, err)
	assertCDense(t, [][]complex128{
		{0, -0.5, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, -0.5},
		{0, 0, 0, 0},
	}, hl)
	assertCDense(t, [][]complex128{
		{0, 0, 0, 0},
		{-0.5, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, -0.5, 0},
	}, hr)
	assert.Equal(t, m.RawCMatrix().Data, h0.RawCMatrix().Data)

	vals, vecs, err := h.Diagonalize()
	require.NoError(t, err)
	checkEigenpairs(t, m, vals, vecs)
}

// dimerChain is a chain of A-B cells where A couples to the B of the left
// cell and B to the A of the right cell.
func dimerChain(t *testing.T) *Hamiltonian {
	t.Helper()
	params := NewParamTable()
	require.NoError(t, params.Set(PairKey{A: "A", B: "B"}, HoppingParams{SsSigma: -1}))
	h, err := NewHamiltonian([]Site{
		{Label: "A1", Coords: r3.Vec{}},
		{Label: "B2", Coords: r3.Vec{Z: 0.6}},
	}, 1.5, OrbitalSets{"A": sOrbital(t, "A", 0), "B": sOrbital(t, "B", 0)}, params)
	require.NoError(t, err)
	require.NoError(t, h.Initialize(nil, nil))
	require.NoError(t, h.SetPeriodicBC([]r3.Vec{{Z: 2}}))
	return h
}

func TestDimerChainCouplingOrientation(t *testing.T) {
	hl, h0, hr, err := dimerChain(t).CouplingHamiltonians()
	require.NoError(t, err)
	assertCDense(t, [][]complex128{{0, -1}, {-1, 0}}, h0)
	// hl = H(1,0): B of this cell to A of the right cell
	assertCDense(t, [][]complex128{{0, -1}, {0, 0}}, hl)
	// hr = H(-1,0): A of this cell to B of the left cell
	assertCDense(t, [][]complex128{{0, 0}, {-1, 0}}, hr)
}

func TestSpinOrbitAssembly(t *testing.T) {
	sp := NewSpecies("P")
	for spin := 0; spin < 2; spin++ {
		for _, o := range []string{"s", "px", "py", "pz"} {
			require.NoError(t, sp.AddOrbital(o, float64(len(o)), spin))
		}
	}
	sites := []Site{{Label: "P1"}}

	h, err := NewHamiltonian(sites, 1, OrbitalSets{"P": sp}, nil)
	require.NoError(t, err)
	require.NoError(t, h.Initialize(nil, nil))
	m, err := h.Matrix()
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			v := m.At(i, j)
			assert.Zero(t, imag(v))
			if i != j {
				assert.Zero(t, v, "off-diagonal %d %d without spin-orbit coupling", i, j)
			} else {
				assert.Equal(t, sp.Orbitals[i].Energy, real(v))
			}
		}
	}

	h, err = NewHamiltonian(sites, 1, OrbitalSets{"P": sp}, nil, WithSpinOrbit(3))
	require.NoError(t, err)
	require.NoError(t, h.Initialize(nil, nil))
	m, err = h.Matrix()
	require.NoError(t, err)
	assert.Equal(t, complex(0, -1), m.At(1, 2), "px-py of spin up")
	assert.Zero(t, m.At(0, 1), "s does not couple")
	for i := 0; i < 8; i++ {
		assert.Equal(t, complex(sp.Orbitals[i].Energy, 0), m.At(i, i))
		for j := 0; j < 8; j++ {
			assert.Equal(t, m.At(i, j), complex(real(m.At(j, i)), -imag(m.At(j, i))))
		}
	}
}

func TestUniqueDistances(t *testing.T) {
	rec := &distanceRecorder{}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := singleAtomChain(t, WithDiagnostics(rec), WithLogger(logger))
	assert.Empty(t, rec.calls)

	_, err := h.BlochHamiltonian(r3.Vec{})
	require.NoError(t, err)
	_, err = h.BlochHamiltonian(r3.Vec{Z: 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, rec.calls)
	assert.Contains(t, buf.String(), "unique distance")
}

func TestHamiltonianErrors(t *testing.T) {
	params := NewParamTable()
	orbitals := OrbitalSets{"A": sOrbital(t, "A", -0.7)}

	h, err := NewHamiltonianXYZ(singleAtomXYZ, 1.1, orbitals, params)
	require.NoError(t, err)
	_, _, err = h.Diagonalize()
	assert.True(t, errors.Is(err, ErrNotInitialized))
	_, err = h.BlochHamiltonian(r3.Vec{})
	assert.True(t, errors.Is(err, ErrNotInitialized))
	_, _, _, err = h.CouplingHamiltonians()
	assert.True(t, errors.Is(err, ErrNotInitialized))

	require.NoError(t, h.Initialize(nil, nil))
	_, err = h.BlochHamiltonian(r3.Vec{})
	assert.True(t, errors.Is(err, ErrNoPeriodicity))

	// no A-A parameters: the images cannot be coupled
	require.NoError(t, h.SetPeriodicBC([]r3.Vec{{Z: 1}}))
	_, err = h.BlochHamiltonian(r3.Vec{})
	assert.True(t, errors.Is(err, ErrInvalidParams))
	_, ok := h.KVector()
	assert.False(t, ok)

	require.NoError(t, h.SetPeriodicBC([]r3.Vec{{}, {}}))
	assert.Nil(t, h.Topology())

	// a failed assembly commits nothing
	h, err = NewHamiltonian([]Site{{Label: "A1"}, {Label: "A2", Coords: r3.Vec{X: 1}}}, 1.1, orbitals, params)
	require.NoError(t, err)
	assert.True(t, errors.Is(h.Initialize(nil, nil), ErrInvalidParams))
	_, err = h.Matrix()
	assert.True(t, errors.Is(err, ErrNotInitialized))

	_, err = NewHamiltonianXYZ(singleAtomXYZ, 1.1, OrbitalSets{}, params)
	assert.True(t, errors.Is(err, ErrUnknownSpecies))
}

func TestCouplingNeedsOneDirection(t *testing.T) {
	h := singleAtomChain(t)
	require.NoError(t, h.SetPeriodicBC([]r3.Vec{{Z: 1}, {X: 1}}))
	_, _, _, err := h.CouplingHamiltonians()
	assert.True(t, errors.Is(err, ErrInvalidLeadConfiguration))
	assert.True(t, errors.Is(err, ErrAmbiguousLeadClassification))
}
