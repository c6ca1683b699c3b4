package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"taxakey/internal/key"
)

// Server exposes one loaded key over MCP. The key is an immutable snapshot,
// so tool calls need no locking.
type Server struct {
	key *key.Key
	mcp *sdk.Server
}

func NewServer(k *key.Key, version string) *Server {
	s := &Server{
		key: k,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "taxakey",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
