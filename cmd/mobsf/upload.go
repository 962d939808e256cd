package main

import (
	"fmt"
	"io"

	"github.com/rsclarke/mobsf/internal/render"
	"github.com/rsclarke/mobsf/internal/types"
	"github.com/spf13/cobra"
)

var uploadFlags struct {
	clientConfig
}

var uploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file",
	Long:  `Upload an application package and print the command that starts its scan.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	addClientFlags(uploadCmd, &uploadFlags.clientConfig)
}

func runUpload(cmd *cobra.Command, args []string) error {
	c, err := uploadFlags.newClient()
	if err != nil {
		return err
	}

	resp, err := c.Upload(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := render.Print(out, resp); err != nil {
		return err
	}
	return printScanHint(out, resp)
}

// printScanHint prints the scan command for an upload, using the server's
// values unmodified.
func printScanHint(w io.Writer, resp *types.UploadResponse) error {
	_, err := fmt.Fprintf(w, "Start scan command : %s scan %s %s %s\n", appName, resp.ScanType, resp.FileName, resp.Hash)
	return err
}
