package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenhost/standbyd/internal/daemon"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the standbyd daemon (engine + scanner + debug API)",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return fmt.Errorf("start daemon: %w", err)
		}
		return d.Serve(context.Background())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
