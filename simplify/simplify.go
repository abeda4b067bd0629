// Package simplify reduces the vertex count of contour loops Douglas-Peucker
// style without letting any loop cut across a vertex of another loop.
package simplify

import (
	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/spatial"
	"go.uber.org/zap"
	"gopkg.in/eapache/queue.v1"
)

// DefaultMaxError is the default perpendicular distance, in cells, a dropped
// vertex may lie from the simplified edge replacing it.
const DefaultMaxError = 0.5

// loop is a simple closed run of one input loop. Input loops touching
// themselves are cut at the repeated vertex into several loops.
type loop struct {
	pts []common.Point
	// orig maps each vertex back to its index in the input loop.
	orig  []int
	owner int
	keep  []bool
	// solid is set once the retained vertices span a non-zero area.
	solid bool
}

// segment is a run of one loop's vertices, begin..begin+count inclusive
// (indices wrap), that is replaced by its chord once final.
type segment struct {
	loop    *loop
	begin   int
	count   int
	box     common.Box
	foreign []common.Point
}

func (s *segment) index(k int) int { return (s.begin + k) % len(s.loop.pts) }

func (s *segment) at(k int) common.Point { return s.loop.pts[s.index(k)] }

// covers reports whether loop vertex i lies in the closed range of s.
func (s *segment) covers(i int) bool {
	n := len(s.loop.pts)
	return (i-s.begin+n)%n <= s.count
}

func newSegment(l *loop, begin, count int) *segment {
	s := &segment{loop: l, begin: begin, count: count}
	s.box = common.BoxOf(s.at(0))
	for k := 1; k <= count; k++ {
		s.box = s.box.Extend(s.at(k))
	}
	return s
}

// polyline returns the vertices of the range, which read as a polygon are
// closed by the chord.
func (s *segment) polyline() []common.Point {
	res := make([]common.Point, s.count+1)
	for k := range res {
		res[k] = s.at(k)
	}
	return res
}

// farthest returns the interior vertex farthest from the chord and twice the
// area it spans with it. A closed range (both ends on the same point) uses the
// distance from that point instead.
func (s *segment) farthest() (k int, area2 int64) {
	a, b := s.at(0), s.at(s.count)
	k = -1
	for i := 1; i < s.count; i++ {
		var d int64
		if a == b {
			d = a.DistSqr(s.at(i))
		} else {
			d = common.Abs(common.Area2(a, b, s.at(i)))
		}
		if k < 0 || d > area2 {
			k, area2 = i, d
		}
	}
	return k, area2
}

// tooFar reports whether the farthest vertex breaks the error bound.
func (s *segment) tooFar(area2 int64, maxError float64) bool {
	a, b := s.at(0), s.at(s.count)
	if a == b {
		return true
	}
	return float64(area2) > maxError*a.Dist(b)
}

// consistent reports whether no foreign vertex would change sides, or end up
// on the boundary, when the range is replaced by its chord.
func (s *segment) consistent() bool {
	if len(s.foreign) == 0 {
		return true
	}
	a, b := s.at(0), s.at(s.count)
	poly := s.polyline()
	for _, p := range s.foreign {
		if p == a || p == b {
			continue
		}
		if common.OnPolygonBoundary(poly, p) || common.PointInPolygon(poly, p) {
			return false
		}
	}
	return true
}

// split cuts s at interior vertex k and hands its foreign vertices, plus the
// vertices of the other half, to both children.
func (s *segment) split(k int, area2 int64) (*segment, *segment) {
	n := len(s.loop.pts)
	lo := newSegment(s.loop, s.begin, k)
	hi := newSegment(s.loop, (s.begin+k)%n, s.count-k)
	s.loop.keep[hi.begin] = true
	if area2 > 0 && s.at(0) != s.at(s.count) {
		s.loop.solid = true
	}
	for _, c := range [2]*segment{lo, hi} {
		for _, p := range s.foreign {
			if c.box.ContainsPoint(p) {
				c.foreign = append(c.foreign, p)
			}
		}
	}
	for i := 0; i <= s.count; i++ {
		p := s.at(i)
		if i > k && lo.box.ContainsPoint(p) {
			lo.foreign = append(lo.foreign, p)
		}
		if i < k && hi.box.ContainsPoint(p) {
			hi.foreign = append(hi.foreign, p)
		}
	}
	return lo, hi
}

type simplifier struct {
	maxError float64
	input    [][]common.Point
	keep     [][]bool
	loops    []*loop
	queue    *queue.Queue
	index    *spatial.Tree[*segment]
	splits   int
	log      *zap.Logger
}

// Simplify returns every loop with only its retained vertices, in their
// original order. No vertex of any input loop ends up strictly inside, or on
// the boundary of, the region a chord cuts off another loop. Loops shorter
// than four vertices are returned unchanged and every loop keeps at least
// three vertices.
func Simplify(loops [][]common.Point, maxError float64, log *zap.Logger) [][]common.Point {
	if log == nil {
		log = zap.NewNop()
	}
	s := &simplifier{maxError: max(maxError, 0), input: loops, queue: queue.New(), log: log}
	s.init()
	s.run()

	res := make([][]common.Point, len(loops))
	in, out := 0, 0
	for _, l := range s.loops {
		for k, i := range l.orig {
			if l.keep[k] {
				s.keep[l.owner][i] = true
			}
		}
	}
	for i, pts := range loops {
		in += len(pts)
		for j, p := range pts {
			if s.keep[i][j] {
				res[i] = append(res[i], p)
			}
		}
		out += len(res[i])
	}
	log.Debug("simplified loops",
		zap.Int("loops", len(loops)),
		zap.Int("vertices_in", in),
		zap.Int("vertices_out", out),
		zap.Int("splits", s.splits),
		zap.Int("segments", s.index.Len()))
	return res
}

// splitPinches cuts a loop at every vertex it visits twice, returning simple
// sub-loops as index lists. The repeated vertex starts each cut-off lobe and
// stays in the loop it was cut from.
func splitPinches(pts []common.Point) [][]int {
	var res [][]int
	stack := make([]int, 0, len(pts))
	at := map[common.Point]int{}
	for i, p := range pts {
		if s, ok := at[p]; ok {
			lobe := append([]int(nil), stack[s:]...)
			for _, j := range lobe[1:] {
				delete(at, pts[j])
			}
			res = append(res, lobe)
			stack = stack[:s+1]
			continue
		}
		at[p] = len(stack)
		stack = append(stack, i)
	}
	return append(res, stack)
}

func (s *simplifier) init() {
	bounds := common.Box{}
	first := true
	for _, pts := range s.input {
		for _, p := range pts {
			if first {
				bounds, first = common.BoxOf(p), false
			}
			bounds = bounds.Extend(p)
		}
	}
	s.index = spatial.NewTree[*segment](bounds)

	s.keep = make([][]bool, len(s.input))
	for owner, input := range s.input {
		s.keep[owner] = make([]bool, len(input))
		for _, idx := range splitPinches(input) {
			l := &loop{orig: idx, owner: owner, keep: make([]bool, len(idx))}
			for _, i := range idx {
				l.pts = append(l.pts, input[i])
			}
			s.loops = append(s.loops, l)
			s.addLoop(l)
		}
		// the closing visit of a pinch vertex follows the first one
		seen := map[common.Point]int{}
		for i, p := range input {
			if _, ok := seen[p]; ok {
				s.keep[owner][i] = true
			}
			seen[p] = i
		}
	}

	for _, l := range s.loops {
		for i, p := range l.pts {
			s.index.QueryPoint(p, func(seg *segment) bool {
				if seg.loop != l || !seg.covers(i) {
					seg.foreign = append(seg.foreign, p)
				}
				return true
			})
		}
	}
}

func (s *simplifier) addLoop(l *loop) {
	pts := l.pts
	n := len(pts)
	if n < 4 {
		for i := range l.keep {
			l.keep[i] = true
		}
		return
	}
	far := 1
	for i := 2; i < n; i++ {
		if pts[0].DistSqr(pts[i]) > pts[0].DistSqr(pts[far]) {
			far = i
		}
	}
	l.keep[0], l.keep[far] = true, true
	for _, seg := range [2]*segment{newSegment(l, 0, far), newSegment(l, far, n-far)} {
		s.index.Insert(seg, seg.box)
		s.queue.Add(seg)
	}
}

func (s *simplifier) run() {
	for s.queue.Length() > 0 {
		seg := s.queue.Remove().(*segment)
		if seg.count < 2 {
			continue
		}
		k, area2 := seg.farthest()
		if seg.loop.solid && !seg.tooFar(area2, s.maxError) && seg.consistent() {
			continue
		}
		lo, hi := seg.split(k, area2)
		s.splits++
		s.index.Remove(seg, seg.box)
		for _, c := range [2]*segment{lo, hi} {
			s.index.Insert(c, c.box)
			s.queue.Add(c)
		}
	}
}
