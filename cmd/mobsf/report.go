package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Get a scan report",
	Long:  `Download the report of a completed scan as PDF or JSON.`,
}

var reportPDFFlags struct {
	clientConfig
	output string
}

var reportPDFCmd = &cobra.Command{
	Use:   "pdf <hash>",
	Short: "Save the PDF report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportPDF,
}

var reportJSONFlags struct {
	clientConfig
	output string
	print  bool
}

var reportJSONCmd = &cobra.Command{
	Use:   "json <hash>",
	Short: "Save or print the JSON report",
	Long:  `Save the JSON report to a file, or print it unchanged to stdout with -p.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReportJSON,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportPDFCmd, reportJSONCmd)

	addClientFlags(reportPDFCmd, &reportPDFFlags.clientConfig)
	reportPDFCmd.Flags().StringVarP(&reportPDFFlags.output, "output", "o", "report.pdf", "file path to save the report")

	addClientFlags(reportJSONCmd, &reportJSONFlags.clientConfig)
	reportJSONCmd.Flags().StringVarP(&reportJSONFlags.output, "output", "o", "report.json", "file path to save the report")
	reportJSONCmd.Flags().BoolVarP(&reportJSONFlags.print, "print", "p", false, "print to stdout instead of saving a file")
	reportJSONCmd.MarkFlagsMutuallyExclusive("output", "print")
}

func runReportPDF(cmd *cobra.Command, args []string) error {
	c, err := reportPDFFlags.newClient()
	if err != nil {
		return err
	}

	n, err := c.ReportPDF(cmd.Context(), args[0], reportPDFFlags.output)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved PDF report to %s (%d bytes)\n", reportPDFFlags.output, n)
	return err
}

func runReportJSON(cmd *cobra.Command, args []string) error {
	c, err := reportJSONFlags.newClient()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if reportJSONFlags.print {
		report, err := c.ReportJSON(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, report)
		return err
	}

	if _, err := c.WriteReportJSON(cmd.Context(), args[0], reportJSONFlags.output); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Saved JSON report to %s\n", reportJSONFlags.output)
	return err
}
