package cmd

import (
	"github.com/huangsam/churnviz/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the churnviz MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents query churn aggregates
(value counts, cohort counts, correlations and metric summaries) as JSON.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetupWrapper(cmd, args); err != nil {
			return err
		}
		// Tools may name an experiment per call, so the store is always opened.
		return initScoreStore()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, tableLoader, scoreLoader, storeManager)
	},
}
