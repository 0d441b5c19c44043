// config.go --  This file is part of goTB project.
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
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

var configValidate = validator.New()

// OrbitalConfig is one orbital of a species in a configuration file.
type OrbitalConfig struct {
	Title  string  `yaml:"title" validate:"required,oneof=s px py pz dxy dyz dxz dx2 dz2"`
	Energy float64 `yaml:"energy"`
	Spin   int     `yaml:"spin" validate:"min=0,max=1"`
}

// ParamConfig is one record of two-centre integrals.
type ParamConfig struct {
	Species       []string `yaml:"species" validate:"len=2,dive,required"`
	Tag           string   `yaml:"tag"`
	HoppingParams `yaml:",inline"`
}

type EnergyRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max" validate:"gtfield=Min"`
	Num int     `yaml:"num" validate:"min=1"`
}

// Config describes a tight-binding model and the calculations to run on it.
//
//	nn_distance: 1.1
//	primitive_cell: [[0, 0, 1]]
//	orbital_sets:
//	  A: [{title: s, energy: -0.7}]
//	params:
//	  - {species: [A, A], ss_sigma: 0.5}
//	xyz: |
//	  1
//	  cell
//	  A1 0.0 0.0 0.0
type Config struct {
	NNDistance    float64                    `yaml:"nn_distance" validate:"gt=0"`
	SOCoupling    float64                    `yaml:"so_coupling"`
	PrimitiveCell [][3]float64               `yaml:"primitive_cell"`
	OrbitalSets   map[string][]OrbitalConfig `yaml:"orbital_sets" validate:"required,min=1,dive,keys,required,excludesall=0123456789,endkeys,min=1,dive"`
	Params        []ParamConfig              `yaml:"params" validate:"dive"`
	XYZ           string                     `yaml:"xyz" validate:"required_without=XYZFile"`
	XYZFile       string                     `yaml:"xyz_file" validate:"required_without=XYZ"`
	KPoints       [][3]float64               `yaml:"k_points"`
	NumPoints     int                        `yaml:"num_points" validate:"omitempty,min=1"`
	Energy        *EnergyRange               `yaml:"energy" validate:"omitempty"`
	Workers       int                        `yaml:"workers" validate:"min=0"`

	dir string
}

// LoadConfig reads a configuration file. A relative xyz_file is resolved
// against the directory of the configuration.
func LoadConfig(fname string) (*Config, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrap(err, fname)
	}
	cfg.dir = filepath.Dir(fname)
	return cfg, nil
}

func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if err := configValidate.Struct(&cfg); err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	return &cfg, nil
}

// Orbitals builds the orbital sets.
func (c *Config) Orbitals() (OrbitalSets, error) {
	res := make(OrbitalSets, len(c.OrbitalSets))
	for title, orbs := range c.OrbitalSets {
		sp := NewSpecies(title)
		for _, o := range orbs {
			if err := sp.AddOrbital(o.Title, o.Energy, o.Spin); err != nil {
				return nil, err
			}
		}
		res[title] = sp
	}
	return res, nil
}

// ParamTable builds the table of two-centre integrals.
func (c *Config) ParamTable() (*ParamTable, error) {
	t := NewParamTable()
	for _, p := range c.Params {
		if err := t.Set(PairKey{A: p.Species[0], B: p.Species[1], Tag: p.Tag}, p.HoppingParams); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (c *Config) Sites() ([]Site, error) {
	if c.XYZ != "" {
		return ParseXYZString(c.XYZ)
	}
	fname := c.XYZFile
	if !filepath.IsAbs(fname) && c.dir != "" {
		fname = filepath.Join(c.dir, fname)
	}
	return ReadXYZFile(fname)
}

func (c *Config) Cell() []r3.Vec {
	return toVecs(c.PrimitiveCell)
}

// Path returns the sampled k-point path, or the listed k-points when
// num_points is not set.
func (c *Config) Path() []r3.Vec {
	pts := toVecs(c.KPoints)
	if c.NumPoints == 0 {
		return pts
	}
	return KPath(pts, c.NumPoints)
}

// Energies returns the energy grid for transport, nil when no range is set.
func (c *Config) Energies() []float64 {
	if c.Energy == nil {
		return nil
	}
	if c.Energy.Num == 1 {
		return []float64{c.Energy.Min}
	}
	res := make([]float64, c.Energy.Num)
	step := (c.Energy.Max - c.Energy.Min) / float64(c.Energy.Num-1)
	for i := range res {
		res[i] = c.Energy.Min + float64(i)*step
	}
	return res
}

// Build returns an initialized Hamiltonian with the periodic boundary
// conditions of the configuration applied.
func (c *Config) Build(opts ...Option) (*Hamiltonian, error) {
	orbitals, err := c.Orbitals()
	if err != nil {
		return nil, err
	}
	params, err := c.ParamTable()
	if err != nil {
		return nil, err
	}
	sites, err := c.Sites()
	if err != nil {
		return nil, err
	}
	if c.SOCoupling != 0 {
		opts = append([]Option{WithSpinOrbit(c.SOCoupling)}, opts...)
	}
	h, err := NewHamiltonian(sites, c.NNDistance, orbitals, params, opts...)
	if err != nil {
		return nil, err
	}
	if err := h.Initialize(nil, nil); err != nil {
		return nil, err
	}
	if len(c.PrimitiveCell) > 0 {
		if err := h.SetPeriodicBC(c.Cell()); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func toVecs(v [][3]float64) []r3.Vec {
	res := make([]r3.Vec, len(v))
	for i, x := range v {
		res[i] = r3.Vec{X: x[0], Y: x[1], Z: x[2]}
	}
	return res
}
