package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lumenhost/standbyd/internal/daemon"
	"github.com/lumenhost/standbyd/internal/domain"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Feed synthetic usage events into the engine",
}

var eventsInjectCmd = &cobra.Command{
	Use:   "inject <user> <package> <kind>",
	Short: "Report a usage event (report_event); <kind> is user_interaction or notification_seen",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}
		pkg := args[1]

		var kind domain.EventKind
		switch args[2] {
		case "user_interaction":
			kind = domain.UserInteraction
		case "notification_seen":
			kind = domain.NotificationSeen
		default:
			return fmt.Errorf("unknown event kind %q", args[2])
		}

		return withDaemon(func(d *daemon.Daemon) error {
			return d.Engine.ReportEvent(user, pkg, kind)
		})
	},
}

func init() {
	eventsCmd.AddCommand(eventsInjectCmd)
	rootCmd.AddCommand(eventsCmd)
}
