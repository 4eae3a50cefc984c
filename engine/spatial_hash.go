package engine

import (
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/tangible-xr/tangible/parameter"
	"github.com/tangible-xr/tangible/physics"
	"github.com/tangible-xr/tangible/vmath"
)

type cellKey struct {
	x, y, z int32
}

// SpatialHash is a sparse 3D broad-phase over colliders. It is rebuilt
// from the live collider set each tick, which keeps it trivially correct
// under arbitrary collider motion and destruction.
type SpatialHash struct {
	cellSize float64
	cells    map[cellKey][]physics.Collider
}

// NewSpatialHash creates a hash with the given cell edge length.
// A non-positive size falls back to the default.
func NewSpatialHash(cellSize float64) *SpatialHash {
	if cellSize <= 0 {
		cellSize = parameter.SpatialHashCellSize
	}
	return &SpatialHash{
		cellSize: cellSize,
		cells:    make(map[cellKey][]physics.Collider),
	}
}

func (h *SpatialHash) keyFor(p r3.Vec) cellKey {
	return cellKey{
		x: int32(math.Floor(p.X / h.cellSize)),
		y: int32(math.Floor(p.Y / h.cellSize)),
		z: int32(math.Floor(p.Z / h.cellSize)),
	}
}

// Clear removes all colliders.
func (h *SpatialHash) Clear() {
	for k := range h.cells {
		delete(h.cells, k)
	}
}

// Add inserts a collider into every cell its bounding sphere touches.
func (h *SpatialHash) Add(c physics.Collider) {
	center := c.Center()
	r := c.Radius()
	lo := h.keyFor(r3.Sub(center, r3.Vec{X: r, Y: r, Z: r}))
	hi := h.keyFor(r3.Add(center, r3.Vec{X: r, Y: r, Z: r}))
	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for z := lo.z; z <= hi.z; z++ {
				k := cellKey{x, y, z}
				h.cells[k] = append(h.cells[k], c)
			}
		}
	}
}

// Rebuild clears the hash and re-adds the given collider set.
func (h *SpatialHash) Rebuild(colliders []physics.Collider) {
	h.Clear()
	for _, c := range colliders {
		h.Add(c)
	}
}

// QueryNearby implements physics.SpatialIndex. Results are deduplicated
// and distance-filtered against each collider's bounding sphere.
func (h *SpatialHash) QueryNearby(point r3.Vec, radius float64, mask physics.Layer) []physics.Collider {
	lo := h.keyFor(r3.Sub(point, r3.Vec{X: radius, Y: radius, Z: radius}))
	hi := h.keyFor(r3.Add(point, r3.Vec{X: radius, Y: radius, Z: radius}))

	var out []physics.Collider
	visited := make(map[uuid.UUID]struct{})
	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for z := lo.z; z <= hi.z; z++ {
				for _, c := range h.cells[cellKey{x, y, z}] {
					if _, dup := visited[c.ID()]; dup {
						continue
					}
					visited[c.ID()] = struct{}{}
					if c.Layer()&mask == 0 {
						continue
					}
					if vmath.Dist(point, c.Center()) <= radius+c.Radius() {
						out = append(out, c)
					}
				}
			}
		}
	}
	return out
}
