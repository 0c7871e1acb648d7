package layout

import (
	"math"
	"sort"

	"github.com/artatlas/artgraph/pkg/graph"
)

// maxCentralityPull bounds how far a highly connected node may slide inward
// from its class ring toward the center.
const maxCentralityPull = 0.3

// seedPositions computes the initial placement for a node set: one concentric
// ring per weight class around the viewport center, primary entities on the
// innermost ring. Nodes within a ring sit at equal angular increments; the
// ring radius grows when needed so neighbors keep at least the configured
// minimum arc separation. Hub nodes slide inward from their class ring in
// proportion to their degree centrality, so densely connected entities start
// closer to where the springs will pull them anyway.
//
// Node ids present in prev keep their previous coordinates, which preserves
// visual continuity across snapshot replacements.
func seedPositions(nodes []graph.Node, bounds boundsBox, cfg Config, prev map[string]graph.Position, centrality map[string]float64) []point {
	cx, cy := bounds.center()
	base := math.Min(bounds.width, bounds.height) / 8
	if base < cfg.MinSeparation {
		base = cfg.MinSeparation
	}

	// Partition arena indexes by weight class, keeping snapshot order within
	// a class so seeding is deterministic.
	byClass := map[graph.WeightClass][]int{}
	for i, n := range nodes {
		w := n.Type.Weight()
		byClass[w] = append(byClass[w], i)
	}
	classes := make([]graph.WeightClass, 0, len(byClass))
	for w := range byClass {
		classes = append(classes, w)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	pts := make([]point, len(nodes))
	for _, w := range classes {
		idxs := byClass[w]
		ring := base * float64(w+1)

		// Grow the ring until the arc between neighbors meets the minimum
		// separation.
		if need := float64(len(idxs)) * cfg.MinSeparation / (2 * math.Pi); need > ring {
			ring = need
		}

		stepAngle := 2 * math.Pi / float64(len(idxs))
		for k, i := range idxs {
			n := &nodes[i]
			pts[i].radius = cfg.touchRadius(n)
			pts[i].charge = chargeFor(w)

			if cfg.PreservePositions {
				if p, ok := prev[n.ID]; ok {
					pts[i].x, pts[i].y = p.X, p.Y
					continue
				}
			}
			angle := stepAngle * float64(k)
			r := ring * (1 - maxCentralityPull*centrality[n.ID])
			pts[i].x = cx + r*math.Cos(angle)
			pts[i].y = cy + r*math.Sin(angle)
		}
	}
	return pts
}

// buildSprings projects relationships onto arena indexes. Relationships whose
// endpoints are missing from the index are skipped; validation upstream makes
// that impossible for accepted snapshots.
func buildSprings(rels []graph.Relationship, index map[string]int, cfg Config) []spring {
	springs := make([]spring, 0, len(rels))
	for _, r := range rels {
		si, ok1 := index[r.SourceID]
		ti, ok2 := index[r.TargetID]
		if !ok1 || !ok2 {
			continue
		}
		springs = append(springs, spring{
			source:   si,
			target:   ti,
			strength: r.Type.Strength(),
			distance: cfg.LinkDistance,
		})
	}
	return springs
}
