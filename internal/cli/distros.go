package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pip2sysdep/internal/app"
)

func newDistrosCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distros",
		Short: "List distro keys with a local or bundled mapping document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDistros(cmd.Context(), cmd)
		},
	}
	return cmd
}

func runDistros(ctx context.Context, cmd *cobra.Command) error {
	searchPaths, _ := cmd.Flags().GetStringSlice("search-path")
	service := newAppService()
	result, err := service.Distros(ctx, app.DistrosRequest{
		SearchPaths: resolveStrings(cmd, searchPaths, "search_paths", "search-path"),
	})
	if err != nil {
		return err
	}
	for _, key := range result.Distros {
		fmt.Fprintln(cmd.OutOrStdout(), key.String())
	}
	return nil
}
