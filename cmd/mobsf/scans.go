package main

import (
	"fmt"
	"time"

	"github.com/rsclarke/mobsf/internal/render"
	"github.com/rsclarke/mobsf/internal/types"
	"github.com/spf13/cobra"
)

var scansFlags struct {
	clientConfig
}

var scansCmd = &cobra.Command{
	Use:   "scans",
	Short: "Display recent scans",
	Long:  `List recent scans with their type, analyzer, time, hash and application details.`,
	Args:  cobra.NoArgs,
	RunE:  runScans,
}

func init() {
	rootCmd.AddCommand(scansCmd)

	addClientFlags(scansCmd, &scansFlags.clientConfig)
}

func runScans(cmd *cobra.Command, args []string) error {
	c, err := scansFlags.newClient()
	if err != nil {
		return err
	}

	resp, err := c.Scans(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(resp.Content) == 0 {
		_, err := fmt.Fprintln(out, "No scans found.")
		return err
	}

	return render.Table(out, types.ScanHeaders, resp.Rows(time.Local))
}
