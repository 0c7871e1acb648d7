package layout

import (
	"math"
)

// =============================================================================
// Simulation Arena - Index-Addressed Position Records
// =============================================================================

// point is one position record in the arena. Velocity lives alongside
// position so a tick can be expressed as a pure transform of the slice.
type point struct {
	x, y   float64
	vx, vy float64
	radius float64 // collision radius (touch target)
	charge float64 // repulsion magnitude by weight class
}

// spring is a relationship projected onto arena indexes.
type spring struct {
	source, target int
	strength       float64
	distance       float64
}

// epsilon floors squared distances to avoid division blowups for coincident
// points.
const epsilon = 1e-6

// step advances the simulation one tick and returns the new point slice.
// The input slice is not modified. This is the whole physics of the engine:
// link attraction, many-body repulsion, collision, centering, velocity decay,
// then integration and clamping to bounds.
func step(pts []point, springs []spring, cfg Config, bounds boundsBox, alpha float64) []point {
	next := make([]point, len(pts))
	copy(next, pts)

	applyLinks(next, springs, alpha)
	applyManyBody(next, alpha)
	applyCollision(next)
	applyCenter(next, bounds, cfg.CenterStrength)

	decay := 1 - cfg.VelocityDecay
	for i := range next {
		next[i].vx *= decay
		next[i].vy *= decay
		next[i].x += next[i].vx
		next[i].y += next[i].vy
		clampToBounds(&next[i], bounds)
	}
	return next
}

// boundsBox is the viewport in simulation space.
type boundsBox struct {
	width, height float64
}

func (b boundsBox) center() (float64, float64) {
	return b.width / 2, b.height / 2
}

// applyLinks pulls related nodes toward their spring rest length. The force
// splits evenly between the two endpoints.
func applyLinks(pts []point, springs []spring, alpha float64) {
	for _, s := range springs {
		a, b := &pts[s.source], &pts[s.target]
		dx := b.x - a.x
		dy := b.y - a.y
		d2 := dx*dx + dy*dy
		if d2 < epsilon {
			d2 = epsilon
		}
		dist := math.Sqrt(d2)
		f := (dist - s.distance) / dist * alpha * s.strength / 2
		a.vx += dx * f
		a.vy += dy * f
		b.vx -= dx * f
		b.vy -= dy * f
	}
}

// applyManyBody repels every pair of nodes by their charges. Quadratic in the
// node count; the tick budget and wall-clock guard bound total work for large
// graphs.
func applyManyBody(pts []point, alpha float64) {
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			a, b := &pts[i], &pts[j]
			dx := b.x - a.x
			dy := b.y - a.y
			d2 := dx*dx + dy*dy
			if d2 < epsilon {
				// Coincident points: nudge apart deterministically.
				dx, dy = jitter(i, j)
				d2 = dx*dx + dy*dy
			}
			f := alpha * (a.charge + b.charge) / 2 / d2
			a.vx -= dx * f
			a.vy -= dy * f
			b.vx += dx * f
			b.vy += dy * f
		}
	}
}

// applyCollision resolves touch-target overlaps by moving both nodes apart
// along the separation axis. Position, not velocity, is adjusted, so overlaps
// resolve even when the simulation has cooled.
func applyCollision(pts []point) {
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			a, b := &pts[i], &pts[j]
			minDist := a.radius + b.radius
			dx := b.x - a.x
			dy := b.y - a.y
			d2 := dx*dx + dy*dy
			if d2 >= minDist*minDist {
				continue
			}
			if d2 < epsilon {
				dx, dy = jitter(i, j)
				d2 = dx*dx + dy*dy
			}
			dist := math.Sqrt(d2)
			overlap := (minDist - dist) / dist / 2
			a.x -= dx * overlap
			a.y -= dy * overlap
			b.x += dx * overlap
			b.y += dy * overlap
		}
	}
}

// applyCenter shifts all points so the centroid moves toward the viewport
// center by the configured fraction.
func applyCenter(pts []point, bounds boundsBox, strength float64) {
	if len(pts) == 0 {
		return
	}
	var sx, sy float64
	for i := range pts {
		sx += pts[i].x
		sy += pts[i].y
	}
	cx, cy := bounds.center()
	dx := (cx - sx/float64(len(pts))) * strength
	dy := (cy - sy/float64(len(pts))) * strength
	for i := range pts {
		pts[i].x += dx
		pts[i].y += dy
	}
}

// clampToBounds keeps a point's touch target inside the viewport.
func clampToBounds(p *point, bounds boundsBox) {
	p.x = clamp(p.x, p.radius, bounds.width-p.radius)
	p.y = clamp(p.y, p.radius, bounds.height-p.radius)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		// Degenerate viewport smaller than one touch target.
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// jitter returns a small deterministic displacement for the pair (i, j), so
// repeated runs over identical input produce identical layouts.
func jitter(i, j int) (float64, float64) {
	angle := float64(i*31+j*17) * 0.61803398875 * 2 * math.Pi
	return math.Cos(angle) * 0.5, math.Sin(angle) * 0.5
}
