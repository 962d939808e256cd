// Package types defines the API response types returned by the scanning service.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rsclarke/mobsf/internal/render"
)

// UploadResponse is the response body for a file upload.
type UploadResponse struct {
	Analyzer string `json:"analyzer"`
	Status   string `json:"status"`
	Hash     string `json:"hash"`
	ScanType string `json:"scan_type"`
	FileName string `json:"file_name"`
}

func (u *UploadResponse) UnmarshalJSON(data []byte) error {
	type plain UploadResponse
	if err := requireKeys(data, "analyzer", "status", "hash", "scan_type", "file_name"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*plain)(u))
}

// Fields returns the upload result in display order.
func (u *UploadResponse) Fields() []render.Field {
	return []render.Field{
		{Label: "Status", Value: u.Status},
		{Label: "File name", Value: u.FileName},
		{Label: "Hash", Value: u.Hash},
		{Label: "Scan type", Value: u.ScanType},
		{Label: "Analyzer", Value: u.Analyzer},
	}
}

// ScanItem is one entry of the recent scans list. The service uses
// upper-case keys for these records.
type ScanItem struct {
	ScanType    string    `json:"SCAN_TYPE"`
	Analyzer    string    `json:"ANALYZER"`
	Timestamp   time.Time `json:"TIMESTAMP"`
	MD5         string    `json:"MD5"`
	VersionName string    `json:"VERSION_NAME"`
	AppName     string    `json:"APP_NAME"`
	PackageName string    `json:"PACKAGE_NAME"`
	FileName    string    `json:"FILE_NAME"`
}

func (s *ScanItem) UnmarshalJSON(data []byte) error {
	type plain ScanItem
	if err := requireKeys(data, "SCAN_TYPE", "ANALYZER", "TIMESTAMP", "MD5",
		"VERSION_NAME", "APP_NAME", "PACKAGE_NAME", "FILE_NAME"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*plain)(s))
}

// ScansResponse is the response body for listing recent scans.
type ScansResponse struct {
	Content  []ScanItem `json:"content"`
	Count    int        `json:"count"`
	NumPages int        `json:"num_pages"`
}

func (s *ScansResponse) UnmarshalJSON(data []byte) error {
	type plain ScansResponse
	if err := requireKeys(data, "content", "count", "num_pages"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*plain)(s))
}

// ScanHeaders are the column titles of the scans table.
var ScanHeaders = []string{"Type", "Analyzer", "Time", "Hash", "Version", "App name", "Package name", "File name"}

// Rows returns one table row per scan item. Timestamps are shown in loc.
func (s *ScansResponse) Rows(loc *time.Location) [][]string {
	rows := make([][]string, 0, len(s.Content))
	for _, it := range s.Content {
		rows = append(rows, []string{
			it.ScanType,
			it.Analyzer,
			render.Time(it.Timestamp, loc),
			it.MD5,
			it.VersionName,
			it.AppName,
			it.PackageName,
			it.FileName,
		})
	}
	return rows
}

// Trackers summarises privacy tracker detection.
type Trackers struct {
	DetectedTrackers int `json:"detected_trackers"`
	TotalTrackers    int `json:"total_trackers"`
}

func (t *Trackers) UnmarshalJSON(data []byte) error {
	type plain Trackers
	if err := requireKeys(data, "detected_trackers", "total_trackers"); err != nil {
		return err
	}
	if err := json.Unmarshal(data, (*plain)(t)); err != nil {
		return err
	}
	if t.DetectedTrackers < 0 || t.TotalTrackers < 0 {
		return fmt.Errorf("negative tracker count %d/%d", t.DetectedTrackers, t.TotalTrackers)
	}
	return nil
}

// ScanResponse is the response body of a completed scan. Only the fields the
// client reads are modelled; the service sends many more.
type ScanResponse struct {
	Title         string    `json:"title"`
	Version       string    `json:"version"`
	FileName      string    `json:"file_name"`
	AppName       string    `json:"app_name"`
	AppType       string    `json:"app_type"`
	PackageName   *string   `json:"package_name"`
	Size          string    `json:"size"`
	MD5           string    `json:"md5"`
	SHA1          string    `json:"sha1"`
	SHA256        string    `json:"sha256"`
	AverageCVSS   float64   `json:"average_cvss"`
	SecurityScore int       `json:"security_score"`
	Trackers      *Trackers `json:"trackers"`
}

func (s *ScanResponse) UnmarshalJSON(data []byte) error {
	type plain ScanResponse
	if err := requireKeys(data, "title", "version", "file_name", "app_name", "app_type",
		"size", "md5", "sha1", "sha256", "average_cvss", "security_score"); err != nil {
		return err
	}
	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}
	if s.SecurityScore < 0 || s.SecurityScore > 100 {
		return fmt.Errorf("security_score %d out of range 0-100", s.SecurityScore)
	}
	return nil
}

// Fields returns the scan result in display order. Package name and tracker
// lines are only present when the service reported them.
func (s *ScanResponse) Fields() []render.Field {
	fields := []render.Field{
		{Label: "Title", Value: s.Title},
		{Label: "File name", Value: s.FileName},
		{Label: "Version", Value: s.Version},
		{Label: "App name", Value: s.AppName},
		{Label: "App type", Value: s.AppType},
		{Label: "MD5", Value: s.MD5},
		{Label: "SHA1", Value: s.SHA1},
		{Label: "SHA256", Value: s.SHA256},
		{Label: "Size", Value: s.Size},
	}
	if s.PackageName != nil {
		fields = append(fields, render.Field{Label: "Package name", Value: *s.PackageName})
	}
	fields = append(fields,
		render.Field{Label: "Average CVSS", Value: render.Float(s.AverageCVSS)},
		render.Field{Label: "Security score", Value: strconv.Itoa(s.SecurityScore) + "/100"},
	)
	if s.Trackers != nil {
		fields = append(fields, render.Field{
			Label: "Trackers detection",
			Value: fmt.Sprintf("%d/%d", s.Trackers.DetectedTrackers, s.Trackers.TotalTrackers),
		})
	}
	return fields
}

// DeleteScanResponse is the response body for scan deletion.
type DeleteScanResponse struct {
	Deleted string `json:"deleted"`
}

func (d *DeleteScanResponse) UnmarshalJSON(data []byte) error {
	type plain DeleteScanResponse
	if err := requireKeys(data, "deleted"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*plain)(d))
}

func (d *DeleteScanResponse) Fields() []render.Field {
	return []render.Field{{Label: "Deleted", Value: d.Deleted}}
}

// ViewSourceResponse is the response body for a decompiled source file.
type ViewSourceResponse struct {
	Title    string `json:"title"`
	File     string `json:"file"`
	FileType string `json:"type"`
	Data     string `json:"data"`
	Version  string `json:"version"`
}

func (v *ViewSourceResponse) UnmarshalJSON(data []byte) error {
	type plain ViewSourceResponse
	if err := requireKeys(data, "title", "file", "type", "data", "version"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*plain)(v))
}

// Fields returns the header fields of a source view. The source text itself
// is printed after them.
func (v *ViewSourceResponse) Fields() []render.Field {
	return []render.Field{
		{Label: "Title", Value: v.Title},
		{Label: "File", Value: v.File},
		{Label: "Type", Value: v.FileType},
		{Label: "Version", Value: v.Version},
	}
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (e *ErrorResponse) UnmarshalJSON(data []byte) error {
	type plain ErrorResponse
	if err := requireKeys(data, "error"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*plain)(e))
}
