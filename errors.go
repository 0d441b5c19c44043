// errors.go --  This file is part of goTB project.
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

import "github.com/pkg/errors"

// Errors returned by the package. They are wrapped with context where it
// helps, so compare with errors.Is.
var (
	ErrInvalidQuantumNumbers       = errors.New("invalid set of quantum numbers")
	ErrUnsupportedQuery            = errors.New("unsupported neighbour query")
	ErrAmbiguousLeadClassification = errors.New("lead classification needs exactly one periodic direction")
	ErrInvalidLeadConfiguration    = errors.New("invalid lead configuration")
	ErrMalformedStructure          = errors.New("malformed structure input")
	ErrUnknownSpecies              = errors.New("unknown atomic species")
	ErrUnknownOrbital              = errors.New("unknown orbital")
	ErrInvalidParams               = errors.New("invalid tight-binding parameters")
	ErrNotInitialized              = errors.New("hamiltonian is not initialized")
	ErrNoPeriodicity               = errors.New("periodic boundary conditions are not set")
	ErrEigenFailed                 = errors.New("eigendecomposition failed")
	ErrSingularMatrix              = errors.New("matrix is singular")
	ErrNotConverged                = errors.New("iteration did not converge")
	ErrInvalidConfig               = errors.New("invalid configuration")
)
