package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version, commit, and build information for the viste CLI.`,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				printf(cmd, "%s\n", version)
				return
			}

			printf(cmd, "  Version:    %s\n", version)
			printf(cmd, "  Commit:     %s\n", commit)
			printf(cmd, "  Built:      %s\n", date)
			printf(cmd, "  Go version: %s\n", runtime.Version())
			printf(cmd, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}
