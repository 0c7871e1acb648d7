// Package layout computes 2D node positions for art knowledge graphs using an
// iterative force simulation.
//
// # Simulation model
//
// The [Engine] owns an index-addressed arena of position records; each tick is
// a pure function of (positions, forces) -> positions', so node records are
// never aliased or mutated by the simulation. Four forces apply per tick:
//
//   - link attraction along each relationship, scaled by the relationship
//     type's semantic strength
//   - many-body repulsion, with charge scaled by the node's weight class
//   - collision avoidance sized to each node's touch target radius
//   - centering of the position centroid on the viewport center
//
// Convergence is governed by a temperature parameter alpha that decays each
// tick. The simulation stabilizes when alpha drops below [Config.AlphaMin],
// or is abandoned at [Config.MaxTicks] or [Config.MaxDuration], whichever
// comes first - it never runs unbounded.
//
// # Cancellation
//
// Every call to [Engine.UpdateLayout] bumps a generation counter. A run whose
// generation has been superseded stops writing to the shared position cache
// and finishes with Result.Superseded set. [Engine.Destroy] invalidates the
// current generation the same way.
//
// # Seeding
//
// Before the first tick, nodes are placed on concentric rings around the
// viewport center, one ring per weight class, at equal angular increments.
// Densely connected nodes slide inward from their ring in proportion to their
// degree centrality, which shortens the path the springs would otherwise drag
// them along. Node ids that survive a snapshot replacement keep their previous
// positions, preserving visual continuity across updates.
package layout
