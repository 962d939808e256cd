package gate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rsclarke/mobsf/internal/journal"
	"github.com/rsclarke/mobsf/internal/logging"
	"github.com/rsclarke/mobsf/internal/models"
	"github.com/rsclarke/mobsf/internal/render"
	"github.com/rsclarke/mobsf/internal/types"
	"go.uber.org/zap"
)

// Scanner is the subset of the API client the gate drives.
type Scanner interface {
	Upload(ctx context.Context, filePath string) (*types.UploadResponse, error)
	Scan(ctx context.Context, scanType, fileName, hash string, reScan bool) (*types.ScanResponse, error)
	ReportPDF(ctx context.Context, hash, outputPath string) (int64, error)
	WriteReportJSON(ctx context.Context, hash, outputPath string) (string, error)
}

// Archiver stores report files somewhere durable.
type Archiver interface {
	Archive(ctx context.Context, prefix string, files ...string) ([]string, error)
}

// Options describe one gate run.
type Options struct {
	FilePath   string
	SaveDir    string
	ReScan     bool
	Thresholds Thresholds
}

// Result is what a gate run produced, including on threshold failure.
type Result struct {
	Upload   *types.UploadResponse
	Scan     *types.ScanResponse
	PDFPath  string
	JSONPath string
	Passed   []string
	Archived []string
	Run      *models.GateRun
}

// Runner executes the gate. Journal and Archive are optional.
type Runner struct {
	Client  Scanner
	Journal *sql.DB
	Archive Archiver
	Out     io.Writer
	Logger  *zap.Logger

	// Recorded with each journal entry.
	Server         string
	KeyFingerprint string
}

// Failures are reported once, by the caller.
var passMark = color.New(color.FgGreen)

// ReportPaths returns the PDF and JSON report paths for fileName in dir.
func ReportPaths(dir, fileName string) (pdf, json string) {
	base := "report_" + filepath.Base(fileName)
	return filepath.Join(dir, base+".pdf"), filepath.Join(dir, base+".json")
}

// Run uploads, scans, saves both reports and checks the thresholds. Each
// step runs only after the previous one succeeded; nothing already done is
// undone on failure.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	if err := os.MkdirAll(opts.SaveDir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	res := &Result{}

	upload, err := r.Client.Upload(ctx, opts.FilePath)
	if err != nil {
		return res, fmt.Errorf("upload: %w", err)
	}
	res.Upload = upload
	if err := render.Print(out, upload); err != nil {
		return res, err
	}
	logger.Info("uploaded", logging.File(opts.FilePath), logging.Hash(upload.Hash))

	scan, err := r.Client.Scan(ctx, upload.ScanType, upload.FileName, upload.Hash, opts.ReScan)
	if err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	res.Scan = scan
	if err := render.Print(out, scan); err != nil {
		return res, err
	}

	res.PDFPath, res.JSONPath = ReportPaths(opts.SaveDir, upload.FileName)

	if _, err := r.Client.ReportPDF(ctx, upload.Hash, res.PDFPath); err != nil {
		return res, fmt.Errorf("save pdf report: %w", err)
	}
	fmt.Fprintf(out, "PDF report: %s\n", res.PDFPath)

	if _, err := r.Client.WriteReportJSON(ctx, upload.Hash, res.JSONPath); err != nil {
		return res, fmt.Errorf("save json report: %w", err)
	}
	fmt.Fprintf(out, "JSON report: %s\n", res.JSONPath)

	passed, gateErr := Check(scan, opts.Thresholds)
	res.Passed = passed
	for _, line := range passed {
		passMark.Fprintf(out, "✔ %s\n", line)
	}

	if err := r.record(ctx, res, gateErr); err != nil {
		if gateErr == nil {
			return res, err
		}
		logger.Warn("journal write failed", zap.Error(err))
	}

	if err := r.archive(ctx, res, upload.Hash); err != nil {
		if gateErr == nil {
			return res, err
		}
		logger.Warn("report archive failed", zap.Error(err))
	}

	return res, gateErr
}

func (r *Runner) record(ctx context.Context, res *Result, gateErr error) error {
	if r.Journal == nil {
		return nil
	}

	run := &models.GateRun{
		APIKeyFingerprint: r.KeyFingerprint,
		Server:            r.Server,
		FileName:          res.Upload.FileName,
		Hash:              res.Upload.Hash,
		ScanType:          res.Upload.ScanType,
		AverageCVSS:       res.Scan.AverageCVSS,
		SecurityScore:     res.Scan.SecurityScore,
		Passed:            gateErr == nil,
	}
	if t := res.Scan.Trackers; t != nil {
		detected, total := t.DetectedTrackers, t.TotalTrackers
		run.DetectedTrackers = &detected
		run.TotalTrackers = &total
	}
	var thErr *ThresholdError
	if errors.As(gateErr, &thErr) {
		run.Reason = thErr.Error()
	}

	if err := journal.Record(ctx, r.Journal, run); err != nil {
		return err
	}
	res.Run = run
	return nil
}

func (r *Runner) archive(ctx context.Context, res *Result, hash string) error {
	if r.Archive == nil {
		return nil
	}
	keys, err := r.Archive.Archive(ctx, hash, res.PDFPath, res.JSONPath)
	res.Archived = keys
	return err
}
