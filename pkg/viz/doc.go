// Package viz coordinates the visualization lifecycle for an art knowledge
// graph. The Coordinator owns a layout engine, a gesture manager and a
// pluggable Renderer, and drives them through a small state machine:
//
//	Uninitialized → Initializing → Ready ⇄ Updating → Destroyed
//
// Snapshot updates that arrive while an update is in flight are coalesced
// latest-wins: intermediate snapshots are dropped and only the newest one is
// applied once the current update finishes.
//
// Failures during an update run a bounded recovery: while the attempt budget
// holds, the coordinator schedules a delayed reapply of the last snapshot
// known to have rendered and keeps the failure internal; once the budget is
// spent the error surfaces through the error callback and the return value,
// and retrying stops. A fixed-interval performance sampler tracks frames and
// failures per window and can report each window through Config.OnMetrics.
package viz
