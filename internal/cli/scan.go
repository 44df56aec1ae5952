package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lumenhost/standbyd/internal/daemon"
	"github.com/lumenhost/standbyd/internal/domain"
)

var scanCmd = &cobra.Command{
	Use:   "scan <user>",
	Short: "Force a check_idle_states scan for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}
		return withDaemon(func(d *daemon.Daemon) error {
			if err := d.Engine.CheckIdleStates(user); err != nil {
				return err
			}
			var count int
			d.Engine.Store().IterUser(user, func(domain.AppHistory) { count++ })
			fmt.Printf("scanned user %d (%d packages)\n", user, count)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
