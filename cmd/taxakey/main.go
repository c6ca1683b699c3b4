package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "taxakey",
		Short: "Reader and match engine for packaged identification keys",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(inspectCmd())
	root.AddCommand(featuresCmd())
	root.AddCommand(entitiesCmd())
	root.AddCommand(profileCmd())
	root.AddCommand(matchCmd())
	root.AddCommand(mediaCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
