package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taxakey/internal/key"
	"taxakey/internal/match"
)

func matchCmd() *cobra.Command {
	var chooses []string
	var picksFile string
	var showTree bool
	cmd := &cobra.Command{
		Use:   "match KEYFILE",
		Short: "Apply feature constraints and print the surviving entities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(args[0], chooses, picksFile, showTree)
		},
	}
	cmd.Flags().StringArrayVar(&chooses, "choose", nil, "Chosen feature: ID for a state, ID=VALUE for a numeric feature (repeatable)")
	cmd.Flags().StringVar(&picksFile, "picks", "", "YAML file mapping feature ids to chosen values")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the projected entity tree of survivors")
	return cmd
}

func runMatch(path string, chooses []string, picksFile string, showTree bool) error {
	constraints, err := parseConstraints(chooses, picksFile)
	if err != nil {
		return err
	}

	k, err := loadKeyFile(path)
	if err != nil {
		return err
	}
	defer k.Close()

	result := match.Compute(k, constraints)

	fmt.Fprintf(os.Stdout, "Direct matches:   %d\n", len(result.Direct))
	fmt.Fprintf(os.Stdout, "Indirect matches: %d\n", len(result.Indirect))
	fmt.Fprintf(os.Stdout, "Discarded:        %d\n", len(result.Discarded))

	names := func(s match.Set) []string {
		var out []string
		for id := range s {
			if e, ok := k.Entities[id]; ok {
				out = append(out, fmt.Sprintf("%s (%s)", e.Name, e.ID))
			}
		}
		slices.Sort(out)
		return out
	}

	if len(result.Direct) > 0 {
		fmt.Fprintln(os.Stdout, "\nDirect:")
		for _, line := range names(result.Direct) {
			fmt.Fprintf(os.Stdout, "  %s\n", line)
		}
	}
	if len(result.Discarded) > 0 {
		fmt.Fprintln(os.Stdout, "\nDiscarded:")
		for _, line := range names(result.Discarded) {
			fmt.Fprintf(os.Stdout, "  %s\n", line)
		}
	}

	if showTree {
		allowed := match.Set{}
		for id := range result.Direct {
			allowed[id] = struct{}{}
		}
		for id := range result.Indirect {
			allowed[id] = struct{}{}
		}
		fmt.Fprintln(os.Stdout, "\nSurviving tree:")
		printProjectedTree(match.Project(k.EntityTree, allowed, result.Direct, match.Set{}), 1)
	}

	return nil
}

func parseConstraints(chooses []string, picksFile string) (match.Constraints, error) {
	constraints := match.Constraints{}

	if picksFile != "" {
		data, err := os.ReadFile(picksFile)
		if err != nil {
			return nil, fmt.Errorf("reading picks file: %w", err)
		}
		var picks map[string]string
		if err := yaml.Unmarshal(data, &picks); err != nil {
			return nil, fmt.Errorf("parsing picks file: %w", err)
		}
		for id, value := range picks {
			constraints[key.FeatureID(id)] = match.Constraint{Value: value}
		}
	}

	for _, choose := range chooses {
		id, value, _ := strings.Cut(choose, "=")
		if id == "" {
			return nil, fmt.Errorf("invalid --choose value: %q", choose)
		}
		constraints[key.FeatureID(id)] = match.Constraint{Value: value}
	}

	return constraints, nil
}

func printProjectedTree(forest []*match.Node, depth int) {
	for _, node := range forest {
		marker := ""
		if node.Dimmed {
			marker = " *"
		}
		fmt.Fprintf(os.Stdout, "%s%s (%s)%s\n", strings.Repeat("  ", depth), node.Name, node.ID, marker)
		printProjectedTree(node.Children, depth+1)
	}
}
