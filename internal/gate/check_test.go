package gate

import (
	"errors"
	"strings"
	"testing"

	"github.com/rsclarke/mobsf/internal/types"
)

var defaultThresholds = Thresholds{MaxCVSS: 7.0, MinSecurity: 50, MaxTrackers: 2}

func scanResult(cvss float64, score int, trackers *types.Trackers) *types.ScanResponse {
	return &types.ScanResponse{AverageCVSS: cvss, SecurityScore: score, Trackers: trackers}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		res      *types.ScanResponse
		wantErr  error
		wantMsg  []string
		wantPass int
	}{
		{
			name:     "all pass",
			res:      scanResult(6.0, 60, &types.Trackers{DetectedTrackers: 1, TotalTrackers: 400}),
			wantPass: 3,
		},
		{
			name:     "cvss too high",
			res:      scanResult(7.5, 60, nil),
			wantErr:  ErrCVSSTooHigh,
			wantMsg:  []string{"7.5", "7.0"},
			wantPass: 0,
		},
		{
			name:     "cvss equal to maximum passes",
			res:      scanResult(7.0, 60, nil),
			wantPass: 2,
		},
		{
			name:     "security too low",
			res:      scanResult(6.0, 40, nil),
			wantErr:  ErrSecurityTooLow,
			wantMsg:  []string{"40", "50"},
			wantPass: 1,
		},
		{
			name:     "too many trackers",
			res:      scanResult(6.0, 60, &types.Trackers{DetectedTrackers: 3, TotalTrackers: 400}),
			wantErr:  ErrTooManyTrackers,
			wantMsg:  []string{"3", "2"},
			wantPass: 2,
		},
		{
			name:     "first failure wins",
			res:      scanResult(9.1, 10, &types.Trackers{DetectedTrackers: 30, TotalTrackers: 400}),
			wantErr:  ErrCVSSTooHigh,
			wantMsg:  []string{"9.1", "7.0"},
			wantPass: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, err := Check(tt.res, defaultThresholds)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				var thErr *ThresholdError
				if !errors.As(err, &thErr) {
					t.Fatalf("expected *ThresholdError, got %T", err)
				}
				for _, s := range tt.wantMsg {
					if !strings.Contains(err.Error(), s) {
						t.Errorf("message %q does not cite %q", err.Error(), s)
					}
				}
			}

			if len(passed) != tt.wantPass {
				t.Errorf("passed = %v, want %d lines", passed, tt.wantPass)
			}
		})
	}
}

func TestCheckWithoutTrackersSkipsTrackerCheck(t *testing.T) {
	passed, err := Check(scanResult(1.0, 90, nil), Thresholds{MaxCVSS: 7.0, MinSecurity: 50, MaxTrackers: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, line := range passed {
		if strings.Contains(line, "Trackers") {
			t.Errorf("tracker line printed without tracker data: %q", line)
		}
	}
}

func TestThresholdErrorValues(t *testing.T) {
	_, err := Check(scanResult(7.5, 60, nil), defaultThresholds)

	var thErr *ThresholdError
	if !errors.As(err, &thErr) {
		t.Fatalf("expected *ThresholdError, got %v", err)
	}
	if thErr.Actual != "7.5" || thErr.Limit != "7.0" {
		t.Errorf("Actual/Limit = %q/%q", thErr.Actual, thErr.Limit)
	}
	if errors.Is(err, ErrSecurityTooLow) {
		t.Error("CVSS failure matches ErrSecurityTooLow")
	}
}
