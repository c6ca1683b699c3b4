package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taxakey/internal/config"
	"taxakey/internal/store/sqlite"
)

func exportCmd() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "export KEYFILE",
		Short: "Export the parsed key to a sqlite database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], dsn)
		},
	}
	cmd.Flags().StringVar(&dsn, "db", "", "Database DSN, e.g. sqlite://key.db (default from taxakey.yaml)")
	return cmd
}

func runExport(path, dsn string) error {
	ctx := context.Background()

	if dsn == "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		dsn = cfg.Database.DSN
	}

	k, err := loadKeyFile(path)
	if err != nil {
		return err
	}
	defer k.Close()

	db, err := sqlite.New(ctx, dsn)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := db.ExportKey(ctx, k); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Export complete.")
	fmt.Fprintf(os.Stdout, "  Entities: %d\n", len(k.Entities))
	fmt.Fprintf(os.Stdout, "  Features: %d\n", len(k.Features))
	printWarnings(k)
	return nil
}
