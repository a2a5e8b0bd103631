package maint_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lazymaint/internal/destination"
	"lazymaint/internal/testutil"
)

func TestMaintService_TreeSize(t *testing.T) {
	t.Run("sums file sizes recursively", func(t *testing.T) {
		svc, paths := newService(t)
		testutil.WriteFile(t, paths.Temp, "a.dat", strings.Repeat("x", 100))
		testutil.WriteFile(t, paths.Temp, "sub/b.dat", strings.Repeat("x", 50))

		if got := svc.TreeSize(paths.Temp); got != 150 {
			t.Errorf("TreeSize() = %d, want 150", got)
		}
	})

	t.Run("missing root yields zero", func(t *testing.T) {
		svc, paths := newService(t)
		if got := svc.TreeSize(filepath.Join(paths.Home, "nope")); got != 0 {
			t.Errorf("TreeSize() = %d, want 0", got)
		}
	})
}

func TestMaintService_TrimToSize(t *testing.T) {
	// setFileAge backdates a file so trim ordering is deterministic.
	setFileAge := func(t *testing.T, path string, age time.Duration) {
		t.Helper()
		when := time.Now().Add(-age)
		if err := os.Chtimes(path, when, when); err != nil {
			t.Fatalf("failed to set mtime on %s: %v", path, err)
		}
	}

	t.Run("deletes oldest files first until under budget", func(t *testing.T) {
		svc, paths := newService(t)
		testutil.WriteFile(t, paths.Thumbnails, "a/old.jpg", strings.Repeat("x", 100))
		testutil.WriteFile(t, paths.Thumbnails, "b/mid.jpg", strings.Repeat("x", 100))
		testutil.WriteFile(t, paths.Thumbnails, "new.jpg", strings.Repeat("x", 100))
		setFileAge(t, filepath.Join(paths.Thumbnails, "a", "old.jpg"), 3*time.Hour)
		setFileAge(t, filepath.Join(paths.Thumbnails, "b", "mid.jpg"), 2*time.Hour)
		setFileAge(t, filepath.Join(paths.Thumbnails, "new.jpg"), time.Hour)

		svc.TrimToSize(paths.Thumbnails, 150)

		got := testutil.TreePaths(t, paths.Thumbnails)
		want := []string{"new.jpg"}
		if len(got) != len(want) || got[0] != want[0] {
			t.Errorf("remaining files = %v, want %v", got, want)
		}
	})

	t.Run("prunes emptied subdirectories", func(t *testing.T) {
		svc, paths := newService(t)
		testutil.WriteFile(t, paths.Thumbnails, "a/b/only.jpg", strings.Repeat("x", 100))
		setFileAge(t, filepath.Join(paths.Thumbnails, "a", "b", "only.jpg"), time.Hour)

		svc.TrimToSize(paths.Thumbnails, 0)

		if _, err := os.Stat(filepath.Join(paths.Thumbnails, "a")); !os.IsNotExist(err) {
			t.Errorf("emptied subdirectory a was not pruned")
		}
		if _, err := os.Stat(paths.Thumbnails); err != nil {
			t.Errorf("trim removed the root itself: %v", err)
		}
	})

	t.Run("never deletes kept names", func(t *testing.T) {
		svc, paths := newService(t)
		testutil.WriteFile(t, paths.Temp, "kodi.log", strings.Repeat("x", 100))
		testutil.WriteFile(t, paths.Temp, "cache.dat", strings.Repeat("x", 100))
		setFileAge(t, filepath.Join(paths.Temp, "kodi.log"), 3*time.Hour)
		setFileAge(t, filepath.Join(paths.Temp, "cache.dat"), time.Hour)

		svc.TrimToSize(paths.Temp, 0, "kodi.log")

		got := testutil.TreePaths(t, paths.Temp)
		if len(got) != 1 || got[0] != "kodi.log" {
			t.Errorf("remaining files = %v, want [kodi.log]", got)
		}
	})

	t.Run("no-op when already under budget", func(t *testing.T) {
		svc, paths := newService(t)
		testutil.WriteFile(t, paths.Thumbnails, "a.jpg", strings.Repeat("x", 100))

		svc.TrimToSize(paths.Thumbnails, 1000)

		if got := testutil.TreePaths(t, paths.Thumbnails); len(got) != 1 {
			t.Errorf("remaining files = %v, want the original file", got)
		}
	})
}

func TestMaintService_WipeTree(t *testing.T) {
	t.Run("removes all children but keeps the root", func(t *testing.T) {
		svc, paths := newService(t)
		testutil.WriteFile(t, paths.Temp, "a.dat", "x")
		testutil.WriteFile(t, paths.Temp, "sub/b.dat", "x")

		svc.WipeTree(paths.Temp)
		// Wiping an already-empty tree is a no-op.
		svc.WipeTree(paths.Temp)

		if got := testutil.TreePaths(t, paths.Temp); len(got) != 0 {
			t.Errorf("remaining files = %v, want none", got)
		}
		if _, err := os.Stat(paths.Temp); err != nil {
			t.Errorf("wipe removed the root itself: %v", err)
		}
	})

	t.Run("spares excluded names", func(t *testing.T) {
		svc, paths := newService(t)
		testutil.WriteFile(t, paths.Temp, "kodi.log", "log")
		testutil.WriteFile(t, paths.Temp, "cache.dat", "x")
		testutil.WriteFile(t, paths.Temp, "sub/c.dat", "x")

		svc.WipeTree(paths.Temp, "kodi.log")

		got := testutil.TreePaths(t, paths.Temp)
		if len(got) != 1 || got[0] != "kodi.log" {
			t.Errorf("remaining files = %v, want [kodi.log]", got)
		}
	})

	t.Run("missing root is a no-op", func(t *testing.T) {
		svc, paths := newService(t)
		svc.WipeTree(filepath.Join(paths.Home, "nope"))
	})
}

func TestMaintService_CopyToDestination(t *testing.T) {
	t.Run("streams a file to the destination", func(t *testing.T) {
		svc, paths := newService(t)
		testutil.WriteFile(t, paths.Temp, "payload.zip", "archive bytes")
		dest := destination.NewMemoryDestination()

		ok := svc.CopyToDestination(filepath.Join(paths.Temp, "payload.zip"), dest, "payload.zip", testutil.NewProgressRecorder())
		if !ok {
			t.Fatal("CopyToDestination() = false, want true")
		}
		data, found := dest.Object("payload.zip")
		if !found || string(data) != "archive bytes" {
			t.Errorf("destination object = %q, found=%v", data, found)
		}
	})

	t.Run("reports failure without propagating errors", func(t *testing.T) {
		svc, paths := newService(t)
		testutil.WriteFile(t, paths.Temp, "payload.zip", "archive bytes")
		dest := destination.NewMemoryDestination()
		dest.FailPut = true

		if ok := svc.CopyToDestination(filepath.Join(paths.Temp, "payload.zip"), dest, "payload.zip", testutil.NewProgressRecorder()); ok {
			t.Error("CopyToDestination() = true, want false")
		}
	})

	t.Run("missing local file fails", func(t *testing.T) {
		svc, paths := newService(t)
		dest := destination.NewMemoryDestination()

		if ok := svc.CopyToDestination(filepath.Join(paths.Temp, "nope.zip"), dest, "nope.zip", testutil.NewProgressRecorder()); ok {
			t.Error("CopyToDestination() = true, want false")
		}
	})
}

func TestMaintService_CopyFromSource(t *testing.T) {
	t.Run("streams an object to a local file", func(t *testing.T) {
		svc, paths := newService(t)
		dest := destination.NewMemoryDestination()
		dest.SetObject("backup.zip", []byte("archive bytes"))
		local := filepath.Join(paths.Temp, "restore_temp.zip")
		testutil.MkdirAll(t, paths.Home, "temp")

		if ok := svc.CopyFromSource(dest, "backup.zip", local, testutil.NewProgressRecorder()); !ok {
			t.Fatal("CopyFromSource() = false, want true")
		}
		data, err := os.ReadFile(local)
		if err != nil {
			t.Fatalf("reading local copy: %v", err)
		}
		if string(data) != "archive bytes" {
			t.Errorf("local copy = %q, want %q", data, "archive bytes")
		}
	})

	t.Run("removes the partial file on failure", func(t *testing.T) {
		svc, paths := newService(t)
		dest := destination.NewMemoryDestination()
		local := filepath.Join(paths.Temp, "restore_temp.zip")
		testutil.MkdirAll(t, paths.Home, "temp")

		if ok := svc.CopyFromSource(dest, "missing.zip", local, testutil.NewProgressRecorder()); ok {
			t.Fatal("CopyFromSource() = true, want false")
		}
		if _, err := os.Stat(local); !os.IsNotExist(err) {
			t.Errorf("partial file left behind at %s", local)
		}
	})

	t.Run("cancellation aborts the transfer", func(t *testing.T) {
		svc, paths := newService(t)
		dest := destination.NewMemoryDestination()
		dest.SetObject("backup.zip", []byte("archive bytes"))
		local := filepath.Join(paths.Temp, "restore_temp.zip")
		testutil.MkdirAll(t, paths.Home, "temp")

		progress := testutil.NewProgressRecorder()
		progress.CancelAfterPolls = 1

		if ok := svc.CopyFromSource(dest, "backup.zip", local, progress); ok {
			t.Fatal("CopyFromSource() = true, want false after cancellation")
		}
		if _, err := os.Stat(local); !os.IsNotExist(err) {
			t.Errorf("partial file left behind at %s", local)
		}
	})
}
