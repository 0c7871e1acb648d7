// Package graph defines the data model for art knowledge graphs.
//
// The central type is [Snapshot], an immutable bundle of typed nodes and
// directed relationships. Snapshots are produced by an external graph source,
// validated once at ingestion with [Snapshot.Validate], and then replace any
// previous snapshot atomically - partial merges are not supported.
//
// Nodes and relationships are value records. They are never mutated in place;
// an update produces a replacement record with a fresh UpdatedAt timestamp.
//
// # Semantic types
//
// Every node carries a [NodeType] (artwork, artist, movement, ...) and every
// relationship a [RelationType] (created-by, belongs-to, ...). The layout
// engine derives physical parameters from these: node types map to a
// [WeightClass] that scales repulsion charge and seeding ring, relationship
// types map to a link strength that scales attraction.
package graph
