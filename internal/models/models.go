// Package models defines the journal entity types.
package models

// GateRun is one recorded CI gate evaluation.
type GateRun struct {
	ID                string
	CreatedAt         int64
	APIKeyFingerprint string
	Server            string
	FileName          string
	Hash              string
	ScanType          string
	AverageCVSS       float64
	SecurityScore     int
	DetectedTrackers  *int
	TotalTrackers     *int
	Passed            bool
	Reason            string
}
