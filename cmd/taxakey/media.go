package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"taxakey/internal/config"
	"taxakey/internal/key"
)

func mediaCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "media KEYFILE",
		Short: "Extract the key's media files to a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMedia(args[0], outDir)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (default from taxakey.yaml)")
	return cmd
}

func runMedia(path, outDir string) error {
	if outDir == "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		outDir = cfg.MediaDir
	}

	k, err := loadKeyFile(path)
	if err != nil {
		return err
	}
	defer k.Close()

	written := 0
	write := func(items []*key.Media) error {
		for _, m := range items {
			target := filepath.Join(outDir, filepath.FromSlash(m.Path))
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating media directory: %w", err)
			}
			if err := os.WriteFile(target, m.Data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", target, err)
			}
			written++
		}
		return nil
	}

	for _, items := range k.EntityMedia {
		if err := write(items); err != nil {
			return err
		}
	}
	for _, items := range k.FeatureMedia {
		if err := write(items); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "Extracted %d media files to %s\n", written, outDir)
	printWarnings(k)
	return nil
}
