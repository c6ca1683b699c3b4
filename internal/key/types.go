// Package key decodes a packaged identification-key archive into a
// normalized in-memory model: entity and feature catalogs, their trees, the
// per-entity score table, profiles, and media.
package key

import "fmt"

// EntityID and FeatureID are distinct types so that entity and feature
// identifiers cannot be mixed up in the score table or the match engine.
type EntityID string

type FeatureID string

type Entity struct {
	ID   EntityID
	Name string
}

// EntityNode mirrors the hierarchical classification. IsGroup is set when
// the node has children.
type EntityNode struct {
	ID       EntityID
	Name     string
	IsGroup  bool
	Children []*EntityNode
}

type FeatureKind string

const (
	KindState   FeatureKind = "state"
	KindNumeric FeatureKind = "numeric"
	KindText    FeatureKind = "text"
)

type Feature struct {
	ID   FeatureID
	Name string
	Kind FeatureKind
	// IsState marks one discrete value of a categorical feature, as
	// opposed to the feature itself.
	IsState bool
	// GroupName is the name of the nearest enclosing feature group, used
	// for profile grouping. Empty for top-level features.
	GroupName string
	// UnitPrefix and BaseUnit describe the measurement unit of a numeric
	// feature, e.g. "centi" + "metre".
	UnitPrefix string
	BaseUnit   string
}

type FeatureNode struct {
	ID       FeatureID
	Name     string
	Kind     FeatureKind
	IsState  bool
	Children []*FeatureNode
}

type ScoreKind int

const (
	ScoreState ScoreKind = iota
	ScoreNumeric
)

// Score records how a feature relates to an entity. State scores carry one
// of the six codes "0".."5"; numeric scores carry a closed [Min, Max] range.
type Score struct {
	Kind  ScoreKind
	Value string
	Min   float64
	Max   float64
}

// Characteristic is one human-readable line of an entity profile.
type Characteristic struct {
	Text  string
	Group string
	Kind  FeatureKind
	Score string
}

type Profile struct {
	Name            string
	Characteristics []Characteristic
}

// Media is a binary resource attached to either an entity or a feature.
// Data is owned by the Key and released by Key.Close.
type Media struct {
	Path      string
	Caption   string
	Copyright string
	Comments  string
	Data      []byte
}

// Key is the assembled model of one loaded archive. It is built once per
// load and never mutated afterwards.
type Key struct {
	Title       string
	Authors     string
	Description string

	Entities   map[EntityID]*Entity
	EntityTree []*EntityNode

	Features    map[FeatureID]*Feature
	FeatureTree []*FeatureNode
	// FeatureList is the flat, ordered list of selectable features: states
	// and leaf numeric features. Pure grouping nodes and categorical
	// parents are excluded.
	FeatureList []FeatureID

	Scores   map[EntityID]map[FeatureID]Score
	Profiles map[EntityID]*Profile

	EntityMedia  map[EntityID][]*Media
	FeatureMedia map[FeatureID][]*Media

	// ScorableFeatures is the authoritative total shown to the user:
	// numeric and categorical features count once each, states never do.
	ScorableFeatures int

	// Warnings holds non-fatal problems found during the load.
	Warnings []string
}

func (k *Key) warnf(format string, args ...any) {
	k.Warnings = append(k.Warnings, fmt.Sprintf(format, args...))
}

// Close releases every media buffer the model owns. The model remains
// queryable afterwards, but without media.
func (k *Key) Close() {
	for _, items := range k.EntityMedia {
		for _, m := range items {
			m.Data = nil
		}
	}
	for _, items := range k.FeatureMedia {
		for _, m := range items {
			m.Data = nil
		}
	}
	k.EntityMedia = map[EntityID][]*Media{}
	k.FeatureMedia = map[FeatureID][]*Media{}
}
