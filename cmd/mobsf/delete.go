package main

import (
	"github.com/rsclarke/mobsf/internal/render"
	"github.com/spf13/cobra"
)

var deleteFlags struct {
	clientConfig
}

var deleteCmd = &cobra.Command{
	Use:   "delete <hash>",
	Short: "Delete a scan",
	Long:  `Delete a scan and its results from the server.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	addClientFlags(deleteCmd, &deleteFlags.clientConfig)
}

func runDelete(cmd *cobra.Command, args []string) error {
	c, err := deleteFlags.newClient()
	if err != nil {
		return err
	}

	resp, err := c.DeleteScan(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return render.Print(cmd.OutOrStdout(), resp)
}
