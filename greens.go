// greens.go --  This file is part of goTB project.
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
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultBroadening    = 1e-7
	DefaultTolerance     = 1e-10
	DefaultMaxIterations = 200
)

type greensConfig struct {
	eta     float64
	tol     float64
	maxIter int
}

type GreensOption func(*greensConfig)

// WithBroadening sets the imaginary part added to the energy.
func WithBroadening(eta float64) GreensOption {
	return func(c *greensConfig) { c.eta = eta }
}

func WithTolerance(tol float64) GreensOption {
	return func(c *greensConfig) { c.tol = tol }
}

func WithMaxIterations(n int) GreensOption {
	return func(c *greensConfig) { c.maxIter = n }
}

func newGreensConfig(opts []GreensOption) greensConfig {
	c := greensConfig{
		eta:     DefaultBroadening,
		tol:     DefaultTolerance,
		maxIter: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func checkLeads(hl, h0, hr *mat.CDense) (int, error) {
	n, m := h0.Dims()
	if n != m || n == 0 {
		return 0, errors.Wrapf(ErrInvalidLeadConfiguration, "h0 is %dx%d", n, m)
	}
	for _, a := range []*mat.CDense{hl, hr} {
		if r, c := a.Dims(); r != n || c != n {
			return 0, errors.Wrapf(ErrInvalidLeadConfiguration, "coupling is %dx%d, want %dx%d", r, c, n, n)
		}
	}
	return n, nil
}

// SurfaceGreensFunction computes the Green's function of the surface cell of
// a semi-infinite lead by decimation (Lopez Sancho, 1985). h0 is the
// Hamiltonian of one cell and coupling is the block between the surface
// cell and the next cell into the bulk.
func SurfaceGreensFunction(energy float64, h0, coupling *mat.CDense, opts ...GreensOption) (*mat.CDense, error) {
	cfg := newGreensConfig(opts)
	n, _ := h0.Dims()
	zI := scaleCDense(complex(energy, cfg.eta), identityCDense(n))

	alpha := cloneCDense(coupling)
	beta := adjointCDense(coupling)
	epsS := cloneCDense(h0)
	eps := cloneCDense(h0)

	for it := 0; it < cfg.maxIter; it++ {
		g, err := cinverse(axpy(zI, -1, eps))
		if err != nil {
			return nil, errors.Wrapf(err, "decimation step %d at E=%g", it, energy)
		}
		ag := cmul(blas.NoTrans, alpha, blas.NoTrans, g)
		bg := cmul(blas.NoTrans, beta, blas.NoTrans, g)
		agb := cmul(blas.NoTrans, ag, blas.NoTrans, beta)
		bga := cmul(blas.NoTrans, bg, blas.NoTrans, alpha)

		epsS = axpy(epsS, 1, agb)
		eps = axpy(axpy(eps, 1, agb), 1, bga)
		alpha = cmul(blas.NoTrans, ag, blas.NoTrans, alpha)
		beta = cmul(blas.NoTrans, bg, blas.NoTrans, beta)

		if maxAbs(alpha) < cfg.tol && maxAbs(beta) < cfg.tol {
			return cinverse(axpy(zI, -1, epsS))
		}
	}
	return nil, errors.Wrapf(ErrNotConverged, "%d decimation steps at E=%g", cfg.maxIter, energy)
}

// SelfEnergies returns the self-energies of the left and right leads for the
// matrices produced by CouplingHamiltonians. The left lead is reached
// through hr = H(-1,0) and the right one through hl = H(1,0).
func SelfEnergies(energy float64, hl, h0, hr *mat.CDense, opts ...GreensOption) (sl, sr *mat.CDense, err error) {
	if _, err := checkLeads(hl, h0, hr); err != nil {
		return nil, nil, err
	}
	gl, err := SurfaceGreensFunction(energy, h0, adjointCDense(hr), opts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "left lead")
	}
	gr, err := SurfaceGreensFunction(energy, h0, adjointCDense(hl), opts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "right lead")
	}
	sl = cmul(blas.ConjTrans, hr, blas.NoTrans, cmul(blas.NoTrans, gl, blas.NoTrans, hr))
	sr = cmul(blas.ConjTrans, hl, blas.NoTrans, cmul(blas.NoTrans, gr, blas.NoTrans, hl))
	return sl, sr, nil
}

// broadening returns i(Σ - Σ†).
func broadening(s *mat.CDense) *mat.CDense {
	return scaleCDense(1i, axpy(s, -1, adjointCDense(s)))
}

// openSystem holds the retarded Green's function of one cell between two
// leads together with the lead self-energies.
type openSystem struct {
	g      *mat.CDense
	sl, sr *mat.CDense
}

func solveOpenSystem(energy float64, hl, h0, hr *mat.CDense, opts []GreensOption) (*openSystem, error) {
	n, err := checkLeads(hl, h0, hr)
	if err != nil {
		return nil, err
	}
	cfg := newGreensConfig(opts)
	sl, sr, err := SelfEnergies(energy, hl, h0, hr, opts...)
	if err != nil {
		return nil, err
	}
	a := scaleCDense(complex(energy, cfg.eta), identityCDense(n))
	a = axpy(axpy(axpy(a, -1, h0), -1, sl), -1, sr)
	g, err := cinverse(a)
	if err != nil {
		return nil, errors.Wrapf(err, "Green's function at E=%g", energy)
	}
	return &openSystem{g: g, sl: sl, sr: sr}, nil
}

func (o *openSystem) transmission() float64 {
	gl, gr := broadening(o.sl), broadening(o.sr)
	t := cmul(blas.NoTrans, gl, blas.NoTrans, o.g)
	t = cmul(blas.NoTrans, t, blas.NoTrans, gr)
	t = cmul(blas.NoTrans, t, blas.ConjTrans, o.g)
	return real(traceCDense(t))
}

func (o *openSystem) dos() float64 {
	return real(traceCDense(broadening(o.g)))
}

// Transmission returns Tr[ΓL G ΓR G†] at the given energy.
func Transmission(energy float64, hl, h0, hr *mat.CDense, opts ...GreensOption) (float64, error) {
	o, err := solveOpenSystem(energy, hl, h0, hr, opts)
	if err != nil {
		return 0, err
	}
	return o.transmission(), nil
}

// DOS returns Tr[i(G - G†)] at the given energy.
func DOS(energy float64, hl, h0, hr *mat.CDense, opts ...GreensOption) (float64, error) {
	o, err := solveOpenSystem(energy, hl, h0, hr, opts)
	if err != nil {
		return 0, err
	}
	return o.dos(), nil
}

type SpectrumPoint struct {
	Energy       float64
	Transmission float64
	DOS          float64
}

// TransmissionSpectrum evaluates the transmission and the density of states
// for every energy using at most workers goroutines.
func TransmissionSpectrum(ctx context.Context, energies []float64, hl, h0, hr *mat.CDense, workers int, opts ...GreensOption) ([]SpectrumPoint, error) {
	if _, err := checkLeads(hl, h0, hr); err != nil {
		return nil, err
	}
	res := make([]SpectrumPoint, len(energies))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, e := range energies {
		i, e := i, e
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o, err := solveOpenSystem(e, hl, h0, hr, opts)
			if err != nil {
				return err
			}
			res[i] = SpectrumPoint{Energy: e, Transmission: o.transmission(), DOS: o.dos()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
