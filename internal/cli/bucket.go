package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lumenhost/standbyd/internal/daemon"
	"github.com/lumenhost/standbyd/internal/domain"
)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Read or write an app's standby bucket",
}

var bucketGetCmd = &cobra.Command{
	Use:   "get <user> <package>",
	Short: "Print an app's current standby bucket (get_app_standby_bucket)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}
		pkg := args[1]
		return withDaemon(func(d *daemon.Daemon) error {
			bucket, err := d.Engine.GetAppStandbyBucket(user, pkg, true)
			if err != nil {
				return err
			}
			fmt.Println(bucket)
			return nil
		})
	},
}

var bucketSetCmd = &cobra.Command{
	Use:   "set <user> <package> <bucket> <reason>",
	Short: "Set an app's standby bucket via the source-arbitrated write (set_app_standby_bucket)",
	Long: `Applies the §4.2 source-arbitrated assignment. <bucket> is one of
active, working_set, frequent, rare, never. <reason> is one of
default, usage, timeout, predicted, forced, optionally with a
diagnostic subtag ("predicted:cts"). A precedence violation is a
silent no-op per §7, not an error.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id %q: %w", args[0], err)
		}
		pkg := args[1]

		bucket, ok := domain.ParseBucket(args[2])
		if !ok {
			return fmt.Errorf("invalid bucket %q: %w", args[2], domain.ErrInvalidBucket)
		}
		reason, ok := domain.ParseReason(args[3])
		if !ok {
			return fmt.Errorf("invalid reason %q: %w", args[3], domain.ErrInvalidReason)
		}

		return withDaemon(func(d *daemon.Daemon) error {
			return d.Engine.SetAppStandbyBucket(user, pkg, bucket, reason, d.Host.ElapsedRealtime())
		})
	},
}

func init() {
	bucketCmd.AddCommand(bucketGetCmd, bucketSetCmd)
	rootCmd.AddCommand(bucketCmd)
}
