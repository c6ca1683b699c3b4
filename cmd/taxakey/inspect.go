package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect KEYFILE",
		Short: "Load a key archive and print its metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	k, err := loadKeyFile(args[0])
	if err != nil {
		return err
	}
	defer k.Close()

	fmt.Fprintf(os.Stdout, "Title:       %s\n", k.Title)
	if k.Authors != "" {
		fmt.Fprintf(os.Stdout, "Authors:     %s\n", k.Authors)
	}
	if k.Description != "" {
		fmt.Fprintf(os.Stdout, "Description: %s\n", k.Description)
	}
	fmt.Fprintf(os.Stdout, "Entities:    %d\n", len(k.Entities))
	fmt.Fprintf(os.Stdout, "Features:    %d scorable (%d selectable)\n", k.ScorableFeatures, len(k.FeatureList))

	mediaCount := 0
	for _, items := range k.EntityMedia {
		mediaCount += len(items)
	}
	for _, items := range k.FeatureMedia {
		mediaCount += len(items)
	}
	fmt.Fprintf(os.Stdout, "Media:       %d\n", mediaCount)

	printWarnings(k)
	return nil
}
