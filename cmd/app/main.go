package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "metafetcher",
		Short:         "Fetch link-preview metadata for a URL",
		Long:          "Fetches a single web page, extracts its title, description and preview image, and respects the site's robots.txt while doing so.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newFetchCommand())
	root.AddCommand(newServeCommand())
	return root
}
