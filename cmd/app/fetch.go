package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"metafetcher"
)

// Fetches metadata for one URL and prints it as JSON.
func newFetchCommand() *cobra.Command {
	var (
		noRobots bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch the metadata for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			var (
				meta metafetcher.Metadata
				err  error
			)
			if noRobots {
				meta, err = metafetcher.FetchMetadataUnchecked(ctx, args[0])
			} else {
				meta, err = metafetcher.FetchMetadata(ctx, args[0])
			}
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(meta, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode metadata: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip the robots.txt check (you own policy compliance)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall fetch timeout")

	return cmd
}
