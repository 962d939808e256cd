package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rsclarke/mobsf/internal/config"
	"github.com/rsclarke/mobsf/internal/journal"
	"github.com/rsclarke/mobsf/internal/models"
	"github.com/rsclarke/mobsf/internal/render"
	"github.com/spf13/cobra"
)

var historyFlags struct {
	journal string
	limit   int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded CI gate runs",
	Long:  `List the CI gate runs recorded in the journal, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyFlags.journal, "journal", "", "sqlite journal recording gate runs (env MOBSF_JOURNAL)")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "maximum number of runs to show (0 for all)")
}

var historyHeaders = []string{"ID", "TIME", "FILE", "HASH", "CVSS", "SCORE", "TRACKERS", "RESULT", "REASON"}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.Overrides{Journal: historyFlags.journal})
	if err != nil {
		return err
	}
	if cfg.Journal == "" {
		return fmt.Errorf("journal path required (use --journal flag or MOBSF_JOURNAL env var)")
	}

	db, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := journal.List(cmd.Context(), db, historyFlags.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No gate runs recorded.")
		return err
	}

	return render.Table(out, historyHeaders, historyRows(runs, time.Local))
}

func historyRows(runs []models.GateRun, loc *time.Location) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		trackers := "-"
		if r.DetectedTrackers != nil && r.TotalTrackers != nil {
			trackers = fmt.Sprintf("%d/%d", *r.DetectedTrackers, *r.TotalTrackers)
		}
		result := "PASS"
		if !r.Passed {
			result = "FAIL"
		}
		reason := r.Reason
		if reason == "" {
			reason = "-"
		}
		rows = append(rows, []string{
			id,
			render.Time(time.Unix(r.CreatedAt, 0), loc),
			r.FileName,
			r.Hash,
			render.Float(r.AverageCVSS),
			strconv.Itoa(r.SecurityScore),
			trackers,
			result,
			reason,
		})
	}
	return rows
}
