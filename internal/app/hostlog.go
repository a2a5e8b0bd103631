package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"

	"lazymaint/internal/destination"
	"lazymaint/internal/maint"
)

// Host log utilities. These operate on the host application's own log
// file (cfg.LogName under the log root), not on lazymaint's log.

// HostLogPath returns the host application's log file path.
func (a *App) HostLogPath() string {
	return filepath.Join(a.paths.LogDir, a.cfg.LogName)
}

// ReadHostLog returns the host log contents.
func (a *App) ReadHostLog() (string, error) {
	data, err := os.ReadFile(a.HostLogPath())
	if err != nil {
		return "", fmt.Errorf("reading host log: %w", err)
	}
	return string(data), nil
}

// ClearHostLog truncates the host log file.
func (a *App) ClearHostLog() error {
	f, err := os.OpenFile(a.HostLogPath(), os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("clearing host log: %w", err)
	}
	return f.Close()
}

// ExportHostLog copies the host log to a destination string using the
// same chunked transfer path as backup archives.
func (a *App) ExportHostLog(destStr string) error {
	dest, err := destination.FromString(destStr, a.cfg)
	if err != nil {
		return fmt.Errorf("resolving destination: %w", err)
	}
	if ok := a.service.CopyToDestination(a.HostLogPath(), dest, a.cfg.LogName, maint.NopProgress{}); !ok {
		return fmt.Errorf("could not export log to %s", destStr)
	}
	return nil
}

// UploadHostLog posts the host log to the configured paste service and
// returns the resulting URL.
func (a *App) UploadHostLog() (string, error) {
	data, err := os.ReadFile(a.HostLogPath())
	if err != nil {
		return "", fmt.Errorf("reading host log: %w", err)
	}

	var result struct {
		Key string `json:"key"`
	}
	client := resty.New()
	resp, err := client.R().
		SetHeader("User-Agent", "lazymaint").
		SetBody(data).
		SetResult(&result).
		Post(a.cfg.Upload.URL)
	if err != nil {
		return "", fmt.Errorf("uploading log: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("uploading log: paste service returned %s", resp.Status())
	}
	if result.Key == "" {
		return "", fmt.Errorf("uploading log: could not parse paste service response")
	}

	base := strings.TrimSuffix(a.cfg.Upload.URL, "/documents")
	return base + "/" + result.Key, nil
}
