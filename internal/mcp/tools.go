package mcp

import (
	"context"
	"fmt"
	"slices"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"taxakey/internal/key"
	"taxakey/internal/match"
)

type GetKeyInfoInput struct{}

type KeyInfoOutput struct {
	Title            string   `json:"title"`
	Authors          string   `json:"authors"`
	Description      string   `json:"description"`
	EntityCount      int      `json:"entity_count"`
	ScorableFeatures int      `json:"scorable_features"`
	Warnings         []string `json:"warnings"`
}

type ListFeaturesInput struct {
	Kind string `json:"kind,omitempty" jsonschema:"restrict to state or numeric features"`
}

type FeatureOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	IsState bool   `json:"is_state"`
	Group   string `json:"group,omitempty"`
	Unit    string `json:"unit,omitempty"`
}

type ListFeaturesOutput struct {
	Features []FeatureOutput `json:"features"`
}

type ListEntitiesInput struct{}

type EntityOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsGroup bool   `json:"is_group"`
}

type ListEntitiesOutput struct {
	Entities []EntityOutput `json:"entities"`
}

type GetProfileInput struct {
	ID string `json:"id" jsonschema:"entity id"`
}

type CharacteristicOutput struct {
	Text  string `json:"text"`
	Group string `json:"group"`
	Kind  string `json:"kind"`
	Score string `json:"score,omitempty"`
}

type ProfileOutput struct {
	Name            string                 `json:"name"`
	Characteristics []CharacteristicOutput `json:"characteristics"`
}

type ComputeMatchesInput struct {
	Constraints map[string]string `json:"constraints" jsonschema:"chosen feature values keyed by feature or state id; state choices may use an empty value"`
}

type ComputeMatchesOutput struct {
	Direct    []string `json:"direct"`
	Indirect  []string `json:"indirect"`
	Discarded []string `json:"discarded"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_key_info",
		Description: "Return the loaded key's metadata and parse warnings",
	}, s.handleGetKeyInfo)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_features",
		Description: "List the selectable diagnostic features",
	}, s.handleListFeatures)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_entities",
		Description: "List all candidate entities in tree order",
	}, s.handleListEntities)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_entity_profile",
		Description: "Return an entity's characteristic profile",
	}, s.handleGetProfile)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "compute_matches",
		Description: "Partition entities into direct, indirect, and discarded matches for the chosen constraints",
	}, s.handleComputeMatches)
}

func (s *Server) handleGetKeyInfo(ctx context.Context, req *sdk.CallToolRequest, input GetKeyInfoInput) (*sdk.CallToolResult, KeyInfoOutput, error) {
	return nil, KeyInfoOutput{
		Title:            s.key.Title,
		Authors:          s.key.Authors,
		Description:      s.key.Description,
		EntityCount:      len(s.key.Entities),
		ScorableFeatures: s.key.ScorableFeatures,
		Warnings:         append([]string{}, s.key.Warnings...),
	}, nil
}

func (s *Server) handleListFeatures(ctx context.Context, req *sdk.CallToolRequest, input ListFeaturesInput) (*sdk.CallToolResult, ListFeaturesOutput, error) {
	output := make([]FeatureOutput, 0, len(s.key.FeatureList))
	for _, id := range s.key.FeatureList {
		f := s.key.Features[id]
		if input.Kind != "" && string(f.Kind) != input.Kind {
			continue
		}
		output = append(output, FeatureOutput{
			ID:      string(f.ID),
			Name:    f.Name,
			Kind:    string(f.Kind),
			IsState: f.IsState,
			Group:   f.GroupName,
			Unit:    f.UnitPrefix + f.BaseUnit,
		})
	}
	return nil, ListFeaturesOutput{Features: output}, nil
}

func (s *Server) handleListEntities(ctx context.Context, req *sdk.CallToolRequest, input ListEntitiesInput) (*sdk.CallToolResult, ListEntitiesOutput, error) {
	var output []EntityOutput

	work := make([]*key.EntityNode, 0, len(s.key.EntityTree))
	for i := len(s.key.EntityTree) - 1; i >= 0; i-- {
		work = append(work, s.key.EntityTree[i])
	}
	for len(work) > 0 {
		node := work[len(work)-1]
		work = work[:len(work)-1]
		output = append(output, EntityOutput{
			ID:      string(node.ID),
			Name:    node.Name,
			IsGroup: node.IsGroup,
		})
		for i := len(node.Children) - 1; i >= 0; i-- {
			work = append(work, node.Children[i])
		}
	}

	if output == nil {
		output = []EntityOutput{}
	}
	return nil, ListEntitiesOutput{Entities: output}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, req *sdk.CallToolRequest, input GetProfileInput) (*sdk.CallToolResult, ProfileOutput, error) {
	if input.ID == "" {
		return nil, ProfileOutput{}, fmt.Errorf("id is required")
	}
	profile, ok := s.key.Profiles[key.EntityID(input.ID)]
	if !ok {
		return nil, ProfileOutput{}, fmt.Errorf("entity not found: %s", input.ID)
	}

	output := ProfileOutput{
		Name:            profile.Name,
		Characteristics: make([]CharacteristicOutput, 0, len(profile.Characteristics)),
	}
	for _, c := range profile.Characteristics {
		output.Characteristics = append(output.Characteristics, CharacteristicOutput{
			Text:  c.Text,
			Group: c.Group,
			Kind:  string(c.Kind),
			Score: c.Score,
		})
	}
	return nil, output, nil
}

func (s *Server) handleComputeMatches(ctx context.Context, req *sdk.CallToolRequest, input ComputeMatchesInput) (*sdk.CallToolResult, ComputeMatchesOutput, error) {
	constraints := match.Constraints{}
	for id, value := range input.Constraints {
		constraints[key.FeatureID(id)] = match.Constraint{Value: value}
	}

	result := match.Compute(s.key, constraints)
	return nil, ComputeMatchesOutput{
		Direct:    sortedIDs(result.Direct),
		Indirect:  sortedIDs(result.Indirect),
		Discarded: sortedIDs(result.Discarded),
	}, nil
}

func sortedIDs(s match.Set) []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, string(id))
	}
	slices.Sort(out)
	return out
}
