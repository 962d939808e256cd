// Package gate implements the CI quality gate: upload, scan, save reports and
// compare the scan result against thresholds.
package gate

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rsclarke/mobsf/internal/render"
	"github.com/rsclarke/mobsf/internal/types"
)

// Threshold violations. A *ThresholdError matches exactly one of these
// through errors.Is.
var (
	ErrCVSSTooHigh     = errors.New("average CVSS too high")
	ErrSecurityTooLow  = errors.New("security score too low")
	ErrTooManyTrackers = errors.New("too many trackers")
)

// Thresholds are the limits a scan must meet.
type Thresholds struct {
	MaxCVSS     float64
	MinSecurity int
	MaxTrackers int
}

// ThresholdError describes the first limit a scan result violated.
type ThresholdError struct {
	Kind   error
	Actual string
	Limit  string
	msg    string
}

func (e *ThresholdError) Error() string { return e.msg }

func (e *ThresholdError) Unwrap() error { return e.Kind }

// Check compares res against th in order CVSS, security score, trackers and
// stops at the first violation. The tracker check only runs when res carries
// tracker data. It returns one line per passed check.
func Check(res *types.ScanResponse, th Thresholds) ([]string, error) {
	var passed []string

	cvss, maxCVSS := render.Float(res.AverageCVSS), render.Float(th.MaxCVSS)
	if res.AverageCVSS > th.MaxCVSS {
		return passed, &ThresholdError{
			Kind:   ErrCVSSTooHigh,
			Actual: cvss,
			Limit:  maxCVSS,
			msg:    fmt.Sprintf("average CVSS %s exceeds maximum %s", cvss, maxCVSS),
		}
	}
	passed = append(passed, fmt.Sprintf("Average CVSS %s (max %s)", cvss, maxCVSS))

	if res.SecurityScore < th.MinSecurity {
		return passed, &ThresholdError{
			Kind:   ErrSecurityTooLow,
			Actual: strconv.Itoa(res.SecurityScore),
			Limit:  strconv.Itoa(th.MinSecurity),
			msg:    fmt.Sprintf("security score %d is below minimum %d", res.SecurityScore, th.MinSecurity),
		}
	}
	passed = append(passed, fmt.Sprintf("Security score %d/100 (min %d)", res.SecurityScore, th.MinSecurity))

	if res.Trackers == nil {
		return passed, nil
	}
	detected := res.Trackers.DetectedTrackers
	if detected > th.MaxTrackers {
		return passed, &ThresholdError{
			Kind:   ErrTooManyTrackers,
			Actual: strconv.Itoa(detected),
			Limit:  strconv.Itoa(th.MaxTrackers),
			msg:    fmt.Sprintf("detected trackers %d exceed maximum %d", detected, th.MaxTrackers),
		}
	}
	passed = append(passed, fmt.Sprintf("Trackers %d/%d (max %d)", detected, res.Trackers.TotalTrackers, th.MaxTrackers))

	return passed, nil
}
