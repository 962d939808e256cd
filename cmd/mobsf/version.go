package main

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var versionFlags struct {
	banner bool
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if versionFlags.banner {
			if _, err := fmt.Fprint(out, figure.NewFigure(appName, "doom", true).String()); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(out, "%s %s\n", appName, version)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionFlags.banner, "banner", false, "print an ASCII art banner before the version")
}
