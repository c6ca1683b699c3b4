package mcp

import (
	"context"
	"reflect"
	"testing"

	"taxakey/internal/key"
)

func fixtureKey() *key.Key {
	leaf1 := &key.EntityNode{ID: "e1", Name: "Poa annua"}
	leaf2 := &key.EntityNode{ID: "e2", Name: "Poa trivialis"}
	group := &key.EntityNode{ID: "g1", Name: "Poa", IsGroup: true, Children: []*key.EntityNode{leaf1, leaf2}}
	return &key.Key{
		Title:            "Grasses",
		Authors:          "A. Botanist",
		ScorableFeatures: 2,
		Entities: map[key.EntityID]*key.Entity{
			"g1": {ID: "g1", Name: "Poa"},
			"e1": {ID: "e1", Name: "Poa annua"},
			"e2": {ID: "e2", Name: "Poa trivialis"},
		},
		EntityTree: []*key.EntityNode{group},
		Features: map[key.FeatureID]*key.Feature{
			"s1": {ID: "s1", Name: "flat", Kind: key.KindState, IsState: true, GroupName: "Leaf shape"},
			"f2": {ID: "f2", Name: "Leaf length", Kind: key.KindNumeric, UnitPrefix: "centi", BaseUnit: "metre"},
		},
		FeatureList: []key.FeatureID{"s1", "f2"},
		Scores: map[key.EntityID]map[key.FeatureID]key.Score{
			"g1": {},
			"e1": {"s1": {Kind: key.ScoreState, Value: "1"}},
			"e2": {"s1": {Kind: key.ScoreState, Value: "0"}},
		},
		Profiles: map[key.EntityID]*key.Profile{
			"e1": {Name: "Poa annua", Characteristics: []key.Characteristic{
				{Text: "flat", Group: "Leaf shape", Kind: key.KindState, Score: "1"},
			}},
			"e2": {Name: "Poa trivialis"},
			"g1": {Name: "Poa"},
		},
	}
}

func TestGetKeyInfo(t *testing.T) {
	server := NewServer(fixtureKey(), "test")
	_, output, err := server.handleGetKeyInfo(context.Background(), nil, GetKeyInfoInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Title != "Grasses" || output.EntityCount != 3 || output.ScorableFeatures != 2 {
		t.Fatalf("unexpected output: %+v", output)
	}
}

func TestListFeatures(t *testing.T) {
	server := NewServer(fixtureKey(), "test")

	t.Run("all features", func(t *testing.T) {
		_, output, err := server.handleListFeatures(context.Background(), nil, ListFeaturesInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Features) != 2 || output.Features[0].ID != "s1" {
			t.Fatalf("unexpected features: %+v", output.Features)
		}
		if output.Features[1].Unit != "centimetre" {
			t.Fatalf("unexpected unit: %q", output.Features[1].Unit)
		}
	})

	t.Run("kind filter", func(t *testing.T) {
		_, output, err := server.handleListFeatures(context.Background(), nil, ListFeaturesInput{Kind: "numeric"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(output.Features) != 1 || output.Features[0].ID != "f2" {
			t.Fatalf("unexpected features: %+v", output.Features)
		}
	})
}

func TestListEntities(t *testing.T) {
	server := NewServer(fixtureKey(), "test")
	_, output, err := server.handleListEntities(context.Background(), nil, ListEntitiesInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := make([]string, 0, len(output.Entities))
	for _, e := range output.Entities {
		got = append(got, e.ID)
	}
	if !reflect.DeepEqual(got, []string{"g1", "e1", "e2"}) {
		t.Fatalf("unexpected tree order: %v", got)
	}
	if !output.Entities[0].IsGroup || output.Entities[1].IsGroup {
		t.Fatalf("unexpected group flags: %+v", output.Entities)
	}
}

func TestGetProfile(t *testing.T) {
	server := NewServer(fixtureKey(), "test")

	t.Run("existing entity", func(t *testing.T) {
		_, output, err := server.handleGetProfile(context.Background(), nil, GetProfileInput{ID: "e1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Name != "Poa annua" || len(output.Characteristics) != 1 {
			t.Fatalf("unexpected profile: %+v", output)
		}
		if output.Characteristics[0].Text != "flat" || output.Characteristics[0].Score != "1" {
			t.Fatalf("unexpected characteristic: %+v", output.Characteristics[0])
		}
	})

	t.Run("missing id", func(t *testing.T) {
		_, _, err := server.handleGetProfile(context.Background(), nil, GetProfileInput{})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown entity", func(t *testing.T) {
		_, _, err := server.handleGetProfile(context.Background(), nil, GetProfileInput{ID: "nope"})
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestComputeMatches(t *testing.T) {
	server := NewServer(fixtureKey(), "test")

	t.Run("no constraints matches everything", func(t *testing.T) {
		_, output, err := server.handleComputeMatches(context.Background(), nil, ComputeMatchesInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(output.Direct, []string{"e1", "e2", "g1"}) {
			t.Fatalf("unexpected direct: %v", output.Direct)
		}
	})

	t.Run("state constraint", func(t *testing.T) {
		_, output, err := server.handleComputeMatches(context.Background(), nil, ComputeMatchesInput{
			Constraints: map[string]string{"s1": ""},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(output.Direct, []string{"e1"}) {
			t.Fatalf("unexpected direct: %v", output.Direct)
		}
		if !reflect.DeepEqual(output.Indirect, []string{"g1"}) {
			t.Fatalf("unexpected indirect: %v", output.Indirect)
		}
		if !reflect.DeepEqual(output.Discarded, []string{"e2"}) {
			t.Fatalf("unexpected discarded: %v", output.Discarded)
		}
	})
}
