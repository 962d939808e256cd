package main

import (
	"fmt"

	"github.com/rsclarke/mobsf/internal/render"
	"github.com/spf13/cobra"
)

var sourceFlags struct {
	clientConfig
}

var sourceCmd = &cobra.Command{
	Use:   "source <type> <path> <hash>",
	Short: "View source files",
	Long: `Print a decompiled source file of a scanned application. Type is one of
apk, ipa, studio, eclipse or ios; path is relative to the decompiled tree.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(3), oneOf(0, "source type", sourceTypes)),
	ValidArgs: sourceTypes,
	RunE:      runSource,
}

func init() {
	rootCmd.AddCommand(sourceCmd)

	addClientFlags(sourceCmd, &sourceFlags.clientConfig)
}

func runSource(cmd *cobra.Command, args []string) error {
	c, err := sourceFlags.newClient()
	if err != nil {
		return err
	}

	resp, err := c.ViewSource(cmd.Context(), args[0], args[1], args[2])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := render.Print(out, resp); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, resp.Data)
	return err
}
