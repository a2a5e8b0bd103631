package app

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"lazymaint/internal/config"
	"lazymaint/internal/maint"
	"lazymaint/internal/testutil"
)

// newTestApp wires an App over a fresh home tree with nop collaborators.
func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := config.NewConfig(t.TempDir())
	cfg.Journal.Type = "none"
	paths := maint.DefaultPathConfig(cfg.Home)
	svc := maint.NewMaintService(
		paths,
		maint.NopJournal{},
		maint.NewNopLogger(),
		maint.RealClock{},
		maint.UUIDGenerator{},
		maint.NopNotifier{},
		maint.NopTerminator{},
	)
	return &App{
		cfg:     cfg,
		paths:   paths,
		journal: maint.NopJournal{},
		service: svc,
		logger:  maint.NewNopLogger(),
	}
}

func TestApp_ReadHostLog(t *testing.T) {
	t.Run("returns the log contents", func(t *testing.T) {
		a := newTestApp(t)
		testutil.WriteFile(t, a.paths.LogDir, a.cfg.LogName, "line one\nline two\n")

		got, err := a.ReadHostLog()
		if err != nil {
			t.Fatalf("ReadHostLog() error = %v", err)
		}
		if got != "line one\nline two\n" {
			t.Errorf("ReadHostLog() = %q", got)
		}
	})

	t.Run("missing log fails", func(t *testing.T) {
		a := newTestApp(t)

		if _, err := a.ReadHostLog(); err == nil {
			t.Error("ReadHostLog() with no log file succeeded")
		}
	})
}

func TestApp_ClearHostLog(t *testing.T) {
	a := newTestApp(t)
	testutil.WriteFile(t, a.paths.LogDir, a.cfg.LogName, "old contents")

	if err := a.ClearHostLog(); err != nil {
		t.Fatalf("ClearHostLog() error = %v", err)
	}

	info, err := os.Stat(a.HostLogPath())
	if err != nil {
		t.Fatalf("ClearHostLog() removed the log file: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("log size after clear = %d, want 0", info.Size())
	}
}

func TestApp_ExportHostLog(t *testing.T) {
	t.Run("copies the log to a filesystem destination", func(t *testing.T) {
		a := newTestApp(t)
		testutil.WriteFile(t, a.paths.LogDir, a.cfg.LogName, "log contents")
		exportDir := t.TempDir()

		if err := a.ExportHostLog(exportDir); err != nil {
			t.Fatalf("ExportHostLog() error = %v", err)
		}

		data, err := os.ReadFile(filepath.Join(exportDir, a.cfg.LogName))
		if err != nil {
			t.Fatalf("reading exported log: %v", err)
		}
		if string(data) != "log contents" {
			t.Errorf("exported log = %q, want %q", data, "log contents")
		}
	})

	t.Run("missing log fails", func(t *testing.T) {
		a := newTestApp(t)

		if err := a.ExportHostLog(t.TempDir()); err == nil {
			t.Error("ExportHostLog() with no log file succeeded")
		}
	})
}

func TestApp_UploadHostLog(t *testing.T) {
	t.Run("posts the log and returns the paste URL", func(t *testing.T) {
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"key":"AbCdEf"}`)
		}))
		defer srv.Close()

		a := newTestApp(t)
		a.cfg.Upload.URL = srv.URL + "/documents"
		testutil.WriteFile(t, a.paths.LogDir, a.cfg.LogName, "log contents")

		url, err := a.UploadHostLog()
		if err != nil {
			t.Fatalf("UploadHostLog() error = %v", err)
		}
		if want := srv.URL + "/AbCdEf"; url != want {
			t.Errorf("UploadHostLog() = %q, want %q", url, want)
		}
		if string(gotBody) != "log contents" {
			t.Errorf("uploaded body = %q, want the log contents", gotBody)
		}
	})

	t.Run("server error fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		a := newTestApp(t)
		a.cfg.Upload.URL = srv.URL + "/documents"
		testutil.WriteFile(t, a.paths.LogDir, a.cfg.LogName, "log contents")

		if _, err := a.UploadHostLog(); err == nil {
			t.Error("UploadHostLog() against a failing server succeeded")
		}
	})

	t.Run("response without a key fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{}`)
		}))
		defer srv.Close()

		a := newTestApp(t)
		a.cfg.Upload.URL = srv.URL + "/documents"
		testutil.WriteFile(t, a.paths.LogDir, a.cfg.LogName, "log contents")

		if _, err := a.UploadHostLog(); err == nil {
			t.Error("UploadHostLog() with an empty response succeeded")
		}
	})
}
