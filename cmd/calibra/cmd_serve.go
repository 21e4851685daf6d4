package main

import (
	"github.com/spf13/cobra"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"calibra/internal/calmcp"
	"calibra/internal/logging"
	"calibra/internal/store"
	"calibra/internal/validate"
)

var serveFlags struct {
	dbPath  string
	persist bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the calibration MCP server over stdio",
	Long: "Starts an MCP server over stdin/stdout exposing validate_method,\n" +
		"validate_batch, resolve_role, and explain_failure as tools.",
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveFlags.dbPath, "db", store.DefaultDBPath, "Audit store DB path")
	f.BoolVar(&serveFlags.persist, "persist", false, "Persist batch runs to the audit store")
}

func runServe(cmd *cobra.Command, _ []string) error {
	v, err := validate.New(configStore())
	if err != nil {
		return err
	}

	var st store.Store
	if serveFlags.persist {
		sqlStore, err := store.Open(serveFlags.dbPath)
		if err != nil {
			return err
		}
		defer sqlStore.Close()
		st = sqlStore
	}

	srv := calmcp.NewServer(version, v, st)
	logging.New("serve").Info("starting calibra MCP server over stdio")
	return srv.MCPServer.Run(cmd.Context(), &sdkmcp.StdioTransport{})
}
