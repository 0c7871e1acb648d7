package graph

import (
	"time"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// NodeType identifies the semantic category of a node.
type NodeType string

// Node types in the art knowledge graph.
const (
	NodeArtwork   NodeType = "ARTWORK"
	NodeArtist    NodeType = "ARTIST"
	NodeMovement  NodeType = "MOVEMENT"
	NodeTechnique NodeType = "TECHNIQUE"
	NodePeriod    NodeType = "PERIOD"
	NodeLocation  NodeType = "LOCATION"
	NodeMaterial  NodeType = "MATERIAL"
)

// NodeTypes lists all valid node types.
var NodeTypes = []NodeType{
	NodeArtwork, NodeArtist, NodeMovement, NodeTechnique,
	NodePeriod, NodeLocation, NodeMaterial,
}

// NodeLabels maps node types to their display labels.
var NodeLabels = map[NodeType]string{
	NodeArtwork:   "Artwork",
	NodeArtist:    "Artist",
	NodeMovement:  "Art Movement",
	NodeTechnique: "Technique",
	NodePeriod:    "Time Period",
	NodeLocation:  "Location",
	NodeMaterial:  "Material",
}

// RequiredProperties maps node types to the property keys a node of that
// type must carry. Types absent from the map have no required properties.
var RequiredProperties = map[NodeType][]string{
	NodeArtwork:   {"title", "year", "medium"},
	NodeArtist:    {"name", "birth_year"},
	NodeMovement:  {"name", "period"},
	NodeTechnique: {"name", "description"},
}

// RelationType identifies the semantic category of a relationship.
type RelationType string

// Relationship types in the art knowledge graph.
const (
	RelCreatedBy      RelationType = "CREATED_BY"
	RelBelongsTo      RelationType = "BELONGS_TO"
	RelInfluencedBy   RelationType = "INFLUENCED_BY"
	RelLocatedIn      RelationType = "LOCATED_IN"
	RelUsesTechnique  RelationType = "USES_TECHNIQUE"
	RelMadeWith       RelationType = "MADE_WITH"
	RelContemporaryOf RelationType = "CONTEMPORARY_OF"
	RelStudiedUnder   RelationType = "STUDIED_UNDER"
)

// RelationTypes lists all valid relationship types.
var RelationTypes = []RelationType{
	RelCreatedBy, RelBelongsTo, RelInfluencedBy, RelLocatedIn,
	RelUsesTechnique, RelMadeWith, RelContemporaryOf, RelStudiedUnder,
}

// =============================================================================
// Weight Classes and Link Strengths
// =============================================================================

// WeightClass groups node types by their visual prominence. Primary entities
// claim more space in the layout and seed closer to the viewport center.
type WeightClass int

// Weight classes ordered from most to least prominent.
const (
	WeightPrimary WeightClass = iota
	WeightSecondary
	WeightTertiary
)

// nodeWeights maps node types to weight classes. Artworks and artists are the
// primary entities of the graph; movements and techniques are contextual;
// everything else is peripheral.
var nodeWeights = map[NodeType]WeightClass{
	NodeArtwork:   WeightPrimary,
	NodeArtist:    WeightPrimary,
	NodeMovement:  WeightSecondary,
	NodeTechnique: WeightSecondary,
	NodePeriod:    WeightTertiary,
	NodeLocation:  WeightTertiary,
	NodeMaterial:  WeightTertiary,
}

// Weight returns the weight class for a node type.
// Unknown types fall in the tertiary class.
func (t NodeType) Weight() WeightClass {
	if w, ok := nodeWeights[t]; ok {
		return w
	}
	return WeightTertiary
}

// linkStrengths maps relationship types to attraction strength factors in
// (0, 1]. Authorship pulls hardest; loose contextual links pull least.
var linkStrengths = map[RelationType]float64{
	RelCreatedBy:      1.0,
	RelStudiedUnder:   0.8,
	RelInfluencedBy:   0.7,
	RelUsesTechnique:  0.6,
	RelMadeWith:       0.6,
	RelBelongsTo:      0.4,
	RelLocatedIn:      0.3,
	RelContemporaryOf: 0.3,
}

// Strength returns the attraction strength factor for a relationship type.
// Unknown types get a neutral middle strength.
func (t RelationType) Strength() float64 {
	if s, ok := linkStrengths[t]; ok {
		return s
	}
	return 0.5
}

// =============================================================================
// Node
// =============================================================================

// Node is a typed entity in the knowledge graph. Nodes are immutable values:
// an update replaces the record wholesale rather than mutating it.
type Node struct {
	ID         string         `json:"id" bson:"id"`
	Type       NodeType       `json:"type" bson:"type"`
	Label      string         `json:"label,omitempty" bson:"label,omitempty"`
	Properties map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" bson:"updated_at"`
}

// DisplayLabel returns the label if set, otherwise the type's display label,
// otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	if l, ok := NodeLabels[n.Type]; ok {
		return l
	}
	return n.ID
}

// Importance returns the node's importance factor from its properties,
// defaulting to 1.0. Importance scales the touch target radius.
func (n *Node) Importance() float64 {
	if v, ok := n.Properties["importance"]; ok {
		switch f := v.(type) {
		case float64:
			return f
		case int:
			return float64(f)
		}
	}
	return 1.0
}

// WithProperties returns a copy of the node with the given properties merged
// over the existing ones and UpdatedAt refreshed. The receiver is unchanged.
func (n Node) WithProperties(props map[string]any) Node {
	merged := make(map[string]any, len(n.Properties)+len(props))
	for k, v := range n.Properties {
		merged[k] = v
	}
	for k, v := range props {
		merged[k] = v
	}
	n.Properties = merged
	n.UpdatedAt = time.Now().UTC()
	return n
}

// =============================================================================
// Relationship
// =============================================================================

// Relationship is a typed, directed link between two nodes. Like nodes,
// relationships are immutable values.
type Relationship struct {
	ID         string         `json:"id" bson:"id"`
	Type       RelationType   `json:"type" bson:"type"`
	SourceID   string         `json:"source_id" bson:"source_id"`
	TargetID   string         `json:"target_id" bson:"target_id"`
	Properties map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" bson:"updated_at"`
}

// =============================================================================
// Position
// =============================================================================

// Position is a computed 2D placement for a node. Scale and Rotation are
// optional render hints; zero values mean "unset".
type Position struct {
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Scale    float64 `json:"scale,omitempty" bson:"scale,omitempty"`
	Rotation float64 `json:"rotation,omitempty" bson:"rotation,omitempty"`
}

// Bounds describes a viewport rectangle in layout units.
type Bounds struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Center returns the center point of the bounds.
func (b Bounds) Center() (x, y float64) {
	return b.Width / 2, b.Height / 2
}

// Contains reports whether the point lies within the bounds.
func (b Bounds) Contains(x, y float64) bool {
	return x >= 0 && x <= b.Width && y >= 0 && y <= b.Height
}
