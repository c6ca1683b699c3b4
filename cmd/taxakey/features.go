package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taxakey/internal/key"
)

func featuresCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "features KEYFILE",
		Short: "List the selectable diagnostic features",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeatures(args[0], kind)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Restrict to state or numeric features")
	return cmd
}

func runFeatures(path, kind string) error {
	k, err := loadKeyFile(path)
	if err != nil {
		return err
	}
	defer k.Close()

	for _, id := range k.FeatureList {
		f := k.Features[id]
		if kind != "" && string(f.Kind) != kind {
			continue
		}
		line := fmt.Sprintf("%s  %s (%s)", f.ID, f.Name, f.Kind)
		if f.GroupName != "" {
			line += " [" + f.GroupName + "]"
		}
		if f.Kind == key.KindNumeric {
			if unit := f.UnitPrefix + f.BaseUnit; unit != "" {
				line += " in " + unit
			}
		}
		fmt.Fprintln(os.Stdout, line)
	}
	fmt.Fprintf(os.Stdout, "\nTotal scorable features: %d\n", k.ScorableFeatures)
	return nil
}
