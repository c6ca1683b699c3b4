package main

import (
	"fmt"
	"os"

	"taxakey/internal/key"
)

const configFile = "taxakey.yaml"

func loadKeyFile(path string) (*key.Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key archive: %w", err)
	}
	return key.Load(data, path)
}

func printWarnings(k *key.Key) {
	if len(k.Warnings) == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "\nWarnings (%d):\n", len(k.Warnings))
	for _, w := range k.Warnings {
		fmt.Fprintf(os.Stdout, "  - %s\n", w)
	}
}
