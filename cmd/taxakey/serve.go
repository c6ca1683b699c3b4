package main

import (
	"context"

	"github.com/spf13/cobra"

	"taxakey/internal/mcp"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve KEYFILE",
		Short: "Load a key and serve it over stdio MCP",
		Args:  cobra.ExactArgs(1),
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	k, err := loadKeyFile(args[0])
	if err != nil {
		return err
	}
	defer k.Close()

	server := mcp.NewServer(k, version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
