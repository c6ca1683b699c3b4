package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taxakey/internal/key"
)

func entitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "entities KEYFILE",
		Short: "Print the entity classification tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runEntities,
	}
}

func runEntities(cmd *cobra.Command, args []string) error {
	k, err := loadKeyFile(args[0])
	if err != nil {
		return err
	}
	defer k.Close()

	printEntityTree(k.EntityTree)
	return nil
}

func printEntityTree(forest []*key.EntityNode) {
	type frame struct {
		node  *key.EntityNode
		depth int
	}
	var work []frame
	for i := len(forest) - 1; i >= 0; i-- {
		work = append(work, frame{node: forest[i]})
	}
	for len(work) > 0 {
		f := work[len(work)-1]
		work = work[:len(work)-1]

		marker := ""
		if f.node.IsGroup {
			marker = "/"
		}
		fmt.Fprintf(os.Stdout, "%s%s%s  (%s)\n", strings.Repeat("  ", f.depth), f.node.Name, marker, f.node.ID)
		for i := len(f.node.Children) - 1; i >= 0; i-- {
			work = append(work, frame{node: f.node.Children[i], depth: f.depth + 1})
		}
	}
}
