package simplify

import (
	"math/rand"
	"testing"

	"github.com/gorustyt/gridnavmesh/common"
	"github.com/gorustyt/gridnavmesh/grid"
	"github.com/gorustyt/gridnavmesh/quadtree"
	"github.com/gorustyt/gridnavmesh/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func pts(xy ...int) []common.Point {
	res := make([]common.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		res = append(res, common.Point{X: xy[i], Y: xy[i+1]})
	}
	return res
}

// isSubsequence reports whether sub keeps the order of full.
func isSubsequence(sub, full []common.Point) bool {
	j := 0
	for _, p := range full {
		if j < len(sub) && sub[j] == p {
			j++
		}
	}
	return j == len(sub)
}

// checkSafety fails when a vertex of one original loop changes sides with
// respect to the simplified version of another loop.
func checkSafety(t *testing.T, orig, simplified [][]common.Point) {
	t.Helper()
	for i := range orig {
		for j := range orig {
			if i == j {
				continue
			}
			for _, v := range orig[j] {
				if common.OnPolygonBoundary(orig[i], v) {
					continue
				}
				before := common.PointInPolygon(orig[i], v)
				require.False(t, common.OnPolygonBoundary(simplified[i], v),
					"vertex %v of loop %d lies on simplified loop %d", v, j, i)
				require.Equal(t, before, common.PointInPolygon(simplified[i], v),
					"vertex %v of loop %d changed sides of loop %d", v, j, i)
			}
		}
	}
}

func TestSimplifyDropsCollinear(t *testing.T) {
	in := [][]common.Point{pts(0, 0, 2, 0, 4, 0, 4, 2, 4, 4, 0, 4)}
	out := Simplify(in, 0, zaptest.NewLogger(t))
	assert.Equal(t, pts(0, 0, 4, 0, 4, 4, 0, 4), out[0])
}

func TestSimplifyKeepsShapeAtZeroError(t *testing.T) {
	stair := pts(0, 0, 1, 0, 1, 1, 2, 1, 2, 2, 3, 2, 3, 3, 0, 3)
	out := Simplify([][]common.Point{stair}, 0, nil)
	assert.Equal(t, stair, out[0])
}

func TestSimplifyKeepsThreeVertices(t *testing.T) {
	square := pts(0, 0, 4, 0, 4, 4, 0, 4)
	out := Simplify([][]common.Point{square}, 100, nil)
	assert.Equal(t, pts(0, 0, 4, 0, 4, 4), out[0])

	stair := pts(0, 0, 1, 0, 1, 1, 2, 1, 2, 2, 3, 2, 3, 3, 0, 3)
	out = Simplify([][]common.Point{stair}, 100, nil)
	assert.Less(t, len(out[0]), len(stair))
	assert.GreaterOrEqual(t, len(out[0]), 3)
	assert.True(t, isSubsequence(out[0], stair))
	assert.Greater(t, common.PolygonArea2(out[0]), int64(0))
}

func TestSimplifySmallLoopsUnchanged(t *testing.T) {
	tri := pts(0, 0, 2, 0, 0, 2)
	out := Simplify([][]common.Point{tri, nil}, 1, nil)
	assert.Equal(t, tri, out[0])
	assert.Empty(t, out[1])
}

func TestSimplifyRespectsForeignVertex(t *testing.T) {
	u := pts(0, 0, 10, 0, 10, 10, 7, 10, 7, 3, 3, 3, 3, 10, 0, 10)
	block := pts(5, 4, 6, 4, 6, 5, 5, 5)

	alone := Simplify([][]common.Point{u}, 100, nil)
	require.Len(t, alone[0], 3, "without neighbours the notch is cut away")

	in := [][]common.Point{u, block}
	out := Simplify(in, 100, nil)
	assert.Greater(t, len(out[0]), 3)
	assert.True(t, isSubsequence(out[0], u))
	checkSafety(t, in, out)
}

func TestSimplifyGridLoops(t *testing.T) {
	for seed := int64(1); seed <= 8; seed++ {
		r := rand.New(rand.NewSource(seed))
		g := grid.NewBoolGrid(24, 20, true)
		for y := 0; y < g.Height(); y++ {
			for x := 0; x < g.Width(); x++ {
				if r.Intn(100) < 30 {
					g.Set(x, y, false)
				}
			}
		}
		tr, err := quadtree.Build(g)
		require.NoError(t, err)
		root, err := region.Extract(g, tr)
		require.NoError(t, err)
		var loops [][]common.Point
		root.Walk(func(a *region.GridArea) {
			if a.Border != nil {
				loops = append(loops, a.Border)
			}
		})

		for _, eps := range []float64{0.5, 2, 5} {
			out := Simplify(loops, eps, nil)
			require.Len(t, out, len(loops))
			for i := range loops {
				assert.True(t, isSubsequence(out[i], loops[i]))
				if len(loops[i]) >= 4 {
					assert.GreaterOrEqual(t, len(out[i]), 3)
				}
			}
			checkSafety(t, loops, out)
		}
	}
}

func TestSplitPinches(t *testing.T) {
	hole := pts(1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 2, 2, 2, 2, 1)
	assert.Equal(t, [][]int{{2, 3, 4, 5}, {0, 1, 2, 7}}, splitPinches(hole))
	assert.Equal(t, [][]int{{0, 1, 2, 3}}, splitPinches(pts(0, 0, 1, 0, 1, 1, 0, 1)))
}

func TestSimplifyKeepsPinchedLobes(t *testing.T) {
	// walkable border wrapping a blocked cell that touches the outside at (2,1)
	border := pts(0, 0, 2, 0, 2, 1, 1, 1, 1, 2, 2, 2, 2, 1, 3, 1, 3, 3, 0, 3)
	for _, eps := range []float64{0, 0.5, 1.5, 100} {
		out := Simplify([][]common.Point{border}, eps, nil)[0]
		require.True(t, isSubsequence(out, border))
		pinch := 0
		for i, p := range out {
			if p == (common.Point{X: 2, Y: 1}) {
				pinch++
			}
			assert.NotEqual(t, p, out[(i+2)%len(out)], "spike at %v", out[(i+1)%len(out)])
		}
		assert.Equal(t, 2, pinch, "eps %v", eps)
	}
}
