// slaterkoster.go --  This file is part of goTB project.
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

	"gonum.org/v1/gonum/spatial/r3"
)

// DiatomicFunc returns the two-centre integral between orbital o1 and
// orbital o2 for direction cosines dir. It is only called with o1.L <= o2.L.
type DiatomicFunc func(o1, o2 Orbital, dir r3.Vec, p HoppingParams) float64

var sqrt3 = math.Sqrt(3)

// orbitalRank orders orbitals of equal l, so that only the upper triangle of
// the table has to be written down.
var orbitalRank = map[string]int{
	"s":   0,
	"px":  0,
	"py":  1,
	"pz":  2,
	"dxy": 0,
	"dyz": 1,
	"dxz": 2,
	"dx2": 3,
	"dz2": 4,
}

// SlaterKoster is the two-centre table of Slater and Koster for s, p and d
// orbitals.
func SlaterKoster(o1, o2 Orbital, dir r3.Vec, p HoppingParams) float64 {
	t1, t2 := o1.Title, o2.Title
	// p-p and d-d blocks are even, so swapping the orbitals is free
	if o1.L == o2.L && orbitalRank[t1] > orbitalRank[t2] {
		t1, t2 = t2, t1
	}
	l, m, n := dir.X, dir.Y, dir.Z

	switch o1.L*3 + o2.L {
	case 0:
		return p.SsSigma
	case 1:
		return skSP(t2, l, m, n) * p.SpSigma
	case 2:
		return skSD(t2, l, m, n) * p.SdSigma
	case 4:
		return skPP(t1, t2, l, m, n, p)
	case 5:
		return skPD(t1, t2, l, m, n, p)
	case 8:
		return skDD(t1, t2, l, m, n, p)
	}
	return 0
}

func skSP(t string, l, m, n float64) float64 {
	switch t {
	case "px":
		return l
	case "py":
		return m
	case "pz":
		return n
	}
	return 0
}

func skSD(t string, l, m, n float64) float64 {
	switch t {
	case "dxy":
		return sqrt3 * l * m
	case "dyz":
		return sqrt3 * m * n
	case "dxz":
		return sqrt3 * n * l
	case "dx2":
		return sqrt3 / 2 * (l*l - m*m)
	case "dz2":
		return n*n - (l*l+m*m)/2
	}
	return 0
}

func skPP(t1, t2 string, l, m, n float64, p HoppingParams) float64 {
	c := map[string]float64{"px": l, "py": m, "pz": n}
	a, b := c[t1], c[t2]
	if t1 == t2 {
		return a*a*p.PpSigma + (1-a*a)*p.PpPi
	}
	return a * b * (p.PpSigma - p.PpPi)
}

func skPD(t1, t2 string, l, m, n float64, p HoppingParams) float64 {
	s, pi := p.PdSigma, p.PdPi
	l2, m2, n2 := l*l, m*m, n*n
	switch t1 + t2 {
	case "pxdxy":
		return sqrt3*l2*m*s + m*(1-2*l2)*pi
	case "pxdyz":
		return sqrt3*l*m*n*s - 2*l*m*n*pi
	case "pxdxz":
		return sqrt3*l2*n*s + n*(1-2*l2)*pi
	case "pydxy":
		return sqrt3*m2*l*s + l*(1-2*m2)*pi
	case "pydyz":
		return sqrt3*m2*n*s + n*(1-2*m2)*pi
	case "pydxz":
		return sqrt3*l*m*n*s - 2*l*m*n*pi
	case "pzdxy":
		return sqrt3*l*m*n*s - 2*l*m*n*pi
	case "pzdyz":
		return sqrt3*n2*m*s + m*(1-2*n2)*pi
	case "pzdxz":
		return sqrt3*n2*l*s + l*(1-2*n2)*pi
	case "pxdx2":
		return sqrt3/2*l*(l2-m2)*s + l*(1-l2+m2)*pi
	case "pydx2":
		return sqrt3/2*m*(l2-m2)*s - m*(1+l2-m2)*pi
	case "pzdx2":
		return sqrt3/2*n*(l2-m2)*s - n*(l2-m2)*pi
	case "pxdz2":
		return l*(n2-(l2+m2)/2)*s - sqrt3*l*n2*pi
	case "pydz2":
		return m*(n2-(l2+m2)/2)*s - sqrt3*m*n2*pi
	case "pzdz2":
		return n*(n2-(l2+m2)/2)*s + sqrt3*n*(l2+m2)*pi
	}
	return 0
}

func skDD(t1, t2 string, l, m, n float64, p HoppingParams) float64 {
	s, pi, d := p.DdSigma, p.DdPi, p.DdDelta
	l2, m2, n2 := l*l, m*m, n*n
	switch t1 + t2 {
	case "dxydxy":
		return 3*l2*m2*s + (l2+m2-4*l2*m2)*pi + (n2+l2*m2)*d
	case "dyzdyz":
		return 3*m2*n2*s + (m2+n2-4*m2*n2)*pi + (l2+m2*n2)*d
	case "dxzdxz":
		return 3*n2*l2*s + (n2+l2-4*n2*l2)*pi + (m2+n2*l2)*d
	case "dxydyz":
		return 3*l*m2*n*s + l*n*(1-4*m2)*pi + l*n*(m2-1)*d
	case "dyzdxz":
		return 3*l*m*n2*s + l*m*(1-4*n2)*pi + l*m*(n2-1)*d
	case "dxydxz":
		return 3*l2*m*n*s + m*n*(1-4*l2)*pi + m*n*(l2-1)*d
	case "dxydx2":
		return 1.5*l*m*(l2-m2)*s + 2*l*m*(m2-l2)*pi + 0.5*l*m*(l2-m2)*d
	case "dyzdx2":
		return 1.5*m*n*(l2-m2)*s - m*n*(1+2*(l2-m2))*pi + m*n*(1+(l2-m2)/2)*d
	case "dxzdx2":
		return 1.5*n*l*(l2-m2)*s + n*l*(1-2*(l2-m2))*pi - n*l*(1-(l2-m2)/2)*d
	case "dxydz2":
		return sqrt3*l*m*(n2-(l2+m2)/2)*s - 2*sqrt3*l*m*n2*pi + sqrt3/2*l*m*(1+n2)*d
	case "dyzdz2":
		return sqrt3*m*n*(n2-(l2+m2)/2)*s + sqrt3*m*n*(l2+m2-n2)*pi - sqrt3/2*m*n*(l2+m2)*d
	case "dxzdz2":
		return sqrt3*l*n*(n2-(l2+m2)/2)*s + sqrt3*l*n*(l2+m2-n2)*pi - sqrt3/2*l*n*(l2+m2)*d
	case "dx2dx2":
		return 0.75*(l2-m2)*(l2-m2)*s + (l2+m2-(l2-m2)*(l2-m2))*pi + (n2+(l2-m2)*(l2-m2)/4)*d
	case "dx2dz2":
		return sqrt3/2*(l2-m2)*(n2-(l2+m2)/2)*s + sqrt3*n2*(m2-l2)*pi + sqrt3/4*(1+n2)*(l2-m2)*d
	case "dz2dz2":
		return (n2-(l2+m2)/2)*(n2-(l2+m2)/2)*s + 3*n2*(l2+m2)*pi + 0.75*(l2+m2)*(l2+m2)*d
	}
	return 0
}
