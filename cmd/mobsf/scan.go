package main

import (
	"github.com/rsclarke/mobsf/internal/render"
	"github.com/spf13/cobra"
)

var scanFlags struct {
	clientConfig
	reScan bool
}

var scanCmd = &cobra.Command{
	Use:   "scan <scan-type> <file-name> <hash>",
	Short: "Scan a file",
	Long: `Scan a previously uploaded file. Scan type is one of xapk, apk, zip, ipa
or appx; file name and hash are the values printed by upload.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(3), oneOf(0, "scan type", scanTypes)),
	ValidArgs: scanTypes,
	RunE:      runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	addClientFlags(scanCmd, &scanFlags.clientConfig)
	scanCmd.Flags().BoolVar(&scanFlags.reScan, "re-scan", false, "force a new scan of an already scanned file")
}

func runScan(cmd *cobra.Command, args []string) error {
	c, err := scanFlags.newClient()
	if err != nil {
		return err
	}

	resp, err := c.Scan(cmd.Context(), args[0], args[1], args[2], scanFlags.reScan)
	if err != nil {
		return err
	}

	return render.Print(cmd.OutOrStdout(), resp)
}
