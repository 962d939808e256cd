package main

import (
	"fmt"

	"github.com/rsclarke/mobsf/internal/artifact"
	"github.com/rsclarke/mobsf/internal/auth"
	"github.com/rsclarke/mobsf/internal/gate"
	"github.com/rsclarke/mobsf/internal/journal"
	"github.com/spf13/cobra"
)

var ciFlags struct {
	clientConfig
	journal string
	reScan  bool
	gate.Thresholds
}

var ciCmd = &cobra.Command{
	Use:   "ci <path> <save-dir>",
	Short: "Run the CI quality gate",
	Long: `Upload and scan an application package, save the PDF and JSON reports to
<save-dir>/report_<file name>.pdf|.json, then fail when the average CVSS is
above --cvss, the security score is below --security, or (when the scan
reports trackers) the number of detected trackers is above --trackers.

When a journal is configured (--journal or MOBSF_JOURNAL) the outcome is
recorded there. When MOBSF_S3_ENDPOINT is set the reports are archived to
MOBSF_S3_BUCKET under the scan hash.`,
	Args: cobra.ExactArgs(2),
	RunE: runCI,
}

func init() {
	rootCmd.AddCommand(ciCmd)

	addClientFlags(ciCmd, &ciFlags.clientConfig)
	ciCmd.Flags().StringVar(&ciFlags.journal, "journal", "", "sqlite journal recording gate runs (env MOBSF_JOURNAL)")
	ciCmd.Flags().BoolVar(&ciFlags.reScan, "re-scan", false, "force a new scan of an already scanned file")
	ciCmd.Flags().Float64Var(&ciFlags.MaxCVSS, "cvss", 0, "maximum average CVSS score")
	ciCmd.Flags().IntVar(&ciFlags.MaxTrackers, "trackers", 0, "maximum number of detected trackers")
	ciCmd.Flags().IntVar(&ciFlags.MinSecurity, "security", 0, "minimum security score (0-100)")
	_ = ciCmd.MarkFlagRequired("cvss")
	_ = ciCmd.MarkFlagRequired("trackers")
	_ = ciCmd.MarkFlagRequired("security")
}

func runCI(cmd *cobra.Command, args []string) error {
	cfg, err := ciFlags.load(ciFlags.journal)
	if err != nil {
		return err
	}

	runner := &gate.Runner{
		Client:         clientFor(cfg),
		Out:            cmd.OutOrStdout(),
		Logger:         getLogger().Named("gate"),
		Server:         cfg.Server,
		KeyFingerprint: auth.Fingerprint(cfg.APIKey),
	}

	if cfg.Journal != "" {
		db, err := journal.Open(cfg.Journal)
		if err != nil {
			return err
		}
		defer db.Close()
		runner.Journal = db
	}

	store, err := artifact.New(cfg.S3)
	if err != nil {
		return err
	}
	if store != nil {
		runner.Archive = store
	}

	res, err := runner.Run(cmd.Context(), gate.Options{
		FilePath:   args[0],
		SaveDir:    args[1],
		ReScan:     ciFlags.reScan,
		Thresholds: ciFlags.Thresholds,
	})
	if err != nil {
		return err
	}

	for _, key := range res.Archived {
		fmt.Fprintf(cmd.OutOrStdout(), "Archived %s\n", key)
	}
	return nil
}
