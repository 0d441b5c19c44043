// params.go --  This file is part of goTB project.
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
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// PairKey identifies the two-centre integrals of a pair of species. Tag
// selects an alternative record, e.g. for second nearest neighbours.
type PairKey struct {
	A   string `validate:"required,excludesall=0123456789"`
	B   string `validate:"required,excludesall=0123456789"`
	Tag string
}

// HoppingParams holds two-centre Slater-Koster integrals. For mixed pairs
// (sp, sd, pd) the first orbital sits on species A and the second on species
// B, so a heteronuclear bond needs both the A_B and the B_A record.
type HoppingParams struct {
	SsSigma float64 `yaml:"ss_sigma"`
	SpSigma float64 `yaml:"sp_sigma"`
	SdSigma float64 `yaml:"sd_sigma"`
	PpSigma float64 `yaml:"pp_sigma"`
	PpPi    float64 `yaml:"pp_pi"`
	PdSigma float64 `yaml:"pd_sigma"`
	PdPi    float64 `yaml:"pd_pi"`
	DdSigma float64 `yaml:"dd_sigma"`
	DdPi    float64 `yaml:"dd_pi"`
	DdDelta float64 `yaml:"dd_delta"`
}

func (p HoppingParams) values() []float64 {
	return []float64{p.SsSigma, p.SpSigma, p.SdSigma, p.PpSigma, p.PpPi,
		p.PdSigma, p.PdPi, p.DdSigma, p.DdPi, p.DdDelta}
}

// ParamTable is the set of tight-binding parameters one Hamiltonian reads.
// Several tables may coexist; nothing here is global.
type ParamTable struct {
	records  map[PairKey]HoppingParams
	validate *validator.Validate
}

func NewParamTable() *ParamTable {
	return &ParamTable{
		records:  make(map[PairKey]HoppingParams),
		validate: validator.New(),
	}
}

// Set validates and stores a record, replacing any previous one.
func (t *ParamTable) Set(key PairKey, p HoppingParams) error {
	if err := t.validate.Struct(key); err != nil {
		return errors.Wrapf(ErrInvalidParams, "key %s_%s: %v", key.A, key.B, err)
	}
	for _, v := range p.values() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrapf(ErrInvalidParams, "key %s_%s%s: non-finite integral", key.A, key.B, key.Tag)
		}
	}
	t.records[key] = p
	return nil
}

// Lookup returns the record for (a, b, tag), falling back to (b, a, tag).
// The fallback is only valid for the ss, pp and dd integrals.
func (t *ParamTable) Lookup(a, b, tag string) (HoppingParams, bool) {
	if p, ok := t.LookupOrdered(a, b, tag); ok {
		return p, true
	}
	return t.LookupOrdered(b, a, tag)
}

// LookupOrdered returns the record for (a, b, tag) without the fallback.
func (t *ParamTable) LookupOrdered(a, b, tag string) (HoppingParams, bool) {
	p, ok := t.records[PairKey{A: a, B: b, Tag: tag}]
	return p, ok
}

func (t *ParamTable) Len() int {
	return len(t.records)
}
