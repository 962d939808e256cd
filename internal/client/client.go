// Package client implements the HTTP client for the scanning service API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rsclarke/mobsf/internal/auth"
	"github.com/rsclarke/mobsf/internal/logging"
	"github.com/rsclarke/mobsf/internal/types"
	"go.uber.org/zap"
)

// API paths, relative to the server base URL.
const (
	UploadAPI     = "api/v1/upload"
	ScansAPI      = "api/v1/scans"
	ScanAPI       = "api/v1/scan"
	DeleteScanAPI = "api/v1/delete_scan"
	ReportPDFAPI  = "api/v1/download_pdf"
	ReportJSONAPI = "api/v1/report_json"
	ViewSourceAPI = "api/v1/view_source"
)

// ConnectTimeout bounds connection establishment. No other timeout applies.
const ConnectTimeout = 10 * time.Second

type Client struct {
	server string
	apiKey string
	http   *http.Client
	logger *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(server, apiKey string, opts ...Option) *Client {
	c := &Client{
		server: strings.TrimRight(server, "/"),
		apiKey: apiKey,
		http:   newHTTPClient(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{
		Timeout:   ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return &http.Client{Transport: transport}
}

// Server returns the base URL without a trailing slash.
func (c *Client) Server() string {
	return c.server
}

func (c *Client) url(path string) string {
	return c.server + "/" + path
}

// Upload sends the file at filePath as a multipart form. The whole file is
// read before any request is made.
func (c *Client) Upload(ctx context.Context, filePath string) (*types.UploadResponse, error) {
	fileName := filepath.Base(filePath)
	if fileName == "." || fileName == string(filepath.Separator) {
		return nil, &Error{Kind: KindIO, Message: "invalid file name or path"}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, ioError(err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, ioError(err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, ioError(err)
	}
	if err := mw.Close(); err != nil {
		return nil, ioError(err)
	}

	var result types.UploadResponse
	if err := c.doJSON(ctx, http.MethodPost, UploadAPI, &body, mw.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Scans lists recent scans.
func (c *Client) Scans(ctx context.Context) (*types.ScansResponse, error) {
	var result types.ScansResponse
	if err := c.doJSON(ctx, http.MethodGet, ScansAPI, nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Scan starts a scan of a previously uploaded file and waits for the result.
func (c *Client) Scan(ctx context.Context, scanType, fileName, hash string, reScan bool) (*types.ScanResponse, error) {
	form := url.Values{}
	form.Set("scan_type", scanType)
	form.Set("file_name", fileName)
	form.Set("hash", hash)
	if reScan {
		form.Set("re_scan", "1")
	} else {
		form.Set("re_scan", "0")
	}

	var result types.ScanResponse
	if err := c.postForm(ctx, ScanAPI, form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteScan removes a scan and its results.
func (c *Client) DeleteScan(ctx context.Context, hash string) (*types.DeleteScanResponse, error) {
	form := url.Values{}
	form.Set("hash", hash)

	var result types.DeleteScanResponse
	if err := c.postForm(ctx, DeleteScanAPI, form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ViewSource fetches a decompiled source file.
func (c *Client) ViewSource(ctx context.Context, scanType, filePath, hash string) (*types.ViewSourceResponse, error) {
	form := url.Values{}
	form.Set("hash", hash)
	form.Set("file", filePath)
	form.Set("type", scanType)

	var result types.ViewSourceResponse
	if err := c.postForm(ctx, ViewSourceAPI, form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReportPDF streams the PDF report to outputPath and returns the number of
// bytes written. The body goes to a temporary file in the same directory
// that is renamed into place once complete, so a failed download never
// leaves a partial report at outputPath.
func (c *Client) ReportPDF(ctx context.Context, hash, outputPath string) (int64, error) {
	resp, err := c.postReport(ctx, ReportPDFAPI, hash)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), "."+filepath.Base(outputPath)+".*.part")
	if err != nil {
		return 0, ioError(err)
	}
	tmpName := tmp.Name()

	n, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Chmod(0o644)
	if err := tmp.Close(); closeErr == nil {
		closeErr = err
	}
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if copyErr != nil {
			return 0, httpError(copyErr)
		}
		return 0, ioError(closeErr)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		_ = os.Remove(tmpName)
		return 0, httpError(fmt.Errorf("short report body: got %d of %d bytes", n, resp.ContentLength))
	}

	if err := os.Rename(tmpName, outputPath); err != nil {
		_ = os.Remove(tmpName)
		return 0, ioError(err)
	}

	c.logger.Debug("saved pdf report", logging.Hash(hash), logging.File(outputPath), logging.Bytes(n))
	return n, nil
}

// ReportJSON returns the JSON report verbatim.
func (c *Client) ReportJSON(ctx context.Context, hash string) (string, error) {
	resp, err := c.postReport(ctx, ReportJSONAPI, hash)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", httpError(err)
	}
	return string(b), nil
}

// WriteReportJSON fetches the JSON report and writes it to outputPath.
func (c *Client) WriteReportJSON(ctx context.Context, hash, outputPath string) (string, error) {
	report, err := c.ReportJSON(ctx, hash)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, []byte(report), 0o644); err != nil {
		return "", ioError(err)
	}
	c.logger.Debug("saved json report", logging.Hash(hash), logging.File(outputPath), logging.Bytes(int64(len(report))))
	return report, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, result any) error {
	return c.doJSON(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", result)
}

// postReport sends a report request and returns the response when the
// service answered 200. The caller owns the body.
func (c *Client) postReport(ctx context.Context, path, hash string) (*http.Response, error) {
	form := url.Values{}
	form.Set("hash", hash)

	resp, err := c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var errResp types.ErrorResponse
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, httpError(err)
		}
		if json.Unmarshal(body, &errResp) != nil {
			return nil, invalidResponse(resp.StatusCode, "")
		}
		return nil, invalidResponse(resp.StatusCode, errResp.Error)
	}
	return resp, nil
}

// doJSON sends a request and decodes a 200 body into result. Any other
// status is decoded as an error payload.
func (c *Client) doJSON(ctx context.Context, method, path string, body io.Reader, contentType string, result any) error {
	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return httpError(err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp types.ErrorResponse
		if err := json.Unmarshal(data, &errResp); err != nil {
			return parseError(resp.StatusCode, err)
		}
		return invalidResponse(resp.StatusCode, errResp.Error)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return parseError(resp.StatusCode, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, httpError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(auth.HeaderName, c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, httpError(err)
	}

	c.logger.Debug("api request",
		logging.Method(method),
		logging.Path(path),
		logging.Status(resp.StatusCode),
		logging.Duration(time.Since(start)),
	)
	return resp, nil
}
