// kdtree.go --  This file is part of goTB project.
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

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaxNeighbours bounds the number of candidates returned by a neighbour query.
const MaxNeighbours = 25

// site is a point of the k-d tree that remembers its position in the
// original list.
type site struct {
	idx int
	pos [3]float64
}

func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return s.pos[d] - c.(site).pos[d]
}

func (s site) Dims() int { return 3 }

// Distance returns the squared Euclidean distance.
func (s site) Distance(c kdtree.Comparable) float64 {
	q := c.(site)
	dx, dy, dz := s.pos[0]-q.pos[0], s.pos[1]-q.pos[1], s.pos[2]-q.pos[2]
	return dx*dx + dy*dy + dz*dz
}

type sites []site

func (p sites) Index(i int) kdtree.Comparable         { return p[i] }
func (p sites) Len() int                              { return len(p) }
func (p sites) Pivot(d kdtree.Dim) int                { return plane{sites: p, Dim: d}.Pivot() }
func (p sites) Slice(start, end int) kdtree.Interface { return p[start:end] }

type plane struct {
	kdtree.Dim
	sites
}

func (p plane) Less(i, j int) bool { return p.sites[i].pos[p.Dim] < p.sites[j].pos[p.Dim] }
func (p plane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}
func (p plane) Swap(i, j int) { p.sites[i], p.sites[j] = p.sites[j], p.sites[i] }

// spatialIndex answers bounded nearest-neighbour queries over a fixed set of
// points.
type spatialIndex struct {
	tree   *kdtree.Tree
	radius float64
}

func newSpatialIndex(points []r3.Vec, radius float64) *spatialIndex {
	if len(points) == 0 {
		return &spatialIndex{radius: radius}
	}
	data := make(sites, len(points))
	for i, p := range points {
		data[i] = site{idx: i, pos: [3]float64{p.X, p.Y, p.Z}}
	}
	return &spatialIndex{tree: kdtree.New(data, false), radius: radius}
}

// query returns the indices of at most MaxNeighbours points within the
// radius, nearest first.
func (si *spatialIndex) query(pos r3.Vec) []int {
	if si.tree == nil || si.tree.Root == nil {
		return nil
	}
	keep := kdtree.NewNKeeper(MaxNeighbours)
	si.tree.NearestSet(keep, site{idx: -1, pos: [3]float64{pos.X, pos.Y, pos.Z}})

	found := make([]kdtree.ComparableDist, 0, len(keep.Heap))
	r2 := si.radius * si.radius
	for _, c := range keep.Heap {
		if c.Comparable == nil || math.IsInf(c.Dist, 1) || c.Dist > r2 {
			continue
		}
		found = append(found, c)
	}
	slices.SortStableFunc(found, func(a, b kdtree.ComparableDist) int {
		switch {
		case a.Dist < b.Dist:
			return -1
		case a.Dist > b.Dist:
			return 1
		}
		return a.Comparable.(site).idx - b.Comparable.(site).idx
	})

	res := make([]int, len(found))
	for i, c := range found {
		res[i] = c.Comparable.(site).idx
	}
	return res
}
