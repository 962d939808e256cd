package main

import (
	"github.com/rsclarke/mobsf/internal/render"
	"github.com/spf13/cobra"
)

var playFlags struct {
	clientConfig
	reScan bool
}

var playCmd = &cobra.Command{
	Use:   "play <path>",
	Short: "Upload a file and start its scan",
	Long:  `Upload an application package and immediately scan it with the values the server returned.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	addClientFlags(playCmd, &playFlags.clientConfig)
	playCmd.Flags().BoolVar(&playFlags.reScan, "re-scan", false, "force a new scan of an already scanned file")
}

func runPlay(cmd *cobra.Command, args []string) error {
	c, err := playFlags.newClient()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	upload, err := c.Upload(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := render.Print(out, upload); err != nil {
		return err
	}

	scan, err := c.Scan(cmd.Context(), upload.ScanType, upload.FileName, upload.Hash, playFlags.reScan)
	if err != nil {
		return err
	}
	return render.Print(out, scan)
}
