package destination

import (
	"path/filepath"
	"testing"

	"lazymaint/internal/config"
)

func TestParseS3URL(t *testing.T) {
	tests := []struct {
		raw        string
		bucket     string
		prefix     string
		ok         bool
	}{
		{"s3://backups", "backups", "", true},
		{"s3://backups/kodi", "backups", "kodi", true},
		{"s3://backups/kodi/nested/", "backups", "kodi/nested", true},
		{"s3://", "", "", false},
		{"/mnt/backups", "", "", false},
		{"mybackups", "", "", false},
	}

	for _, tt := range tests {
		bucket, prefix, ok := parseS3URL(tt.raw)
		if bucket != tt.bucket || prefix != tt.prefix || ok != tt.ok {
			t.Errorf("parseS3URL(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.raw, bucket, prefix, ok, tt.bucket, tt.prefix, tt.ok)
		}
	}
}

func TestFromString(t *testing.T) {
	t.Run("plain path becomes a filesystem destination", func(t *testing.T) {
		d, err := FromString(filepath.Join(t.TempDir(), "backups"), nil)
		if err != nil {
			t.Fatalf("FromString() error = %v", err)
		}
		if _, ok := d.(*FileSystemDestination); !ok {
			t.Errorf("FromString() = %T, want *FileSystemDestination", d)
		}
	})

	t.Run("configured name resolves through config", func(t *testing.T) {
		root := t.TempDir()
		cfg := &config.Config{
			Destinations: []config.DestinationConfig{
				{Type: "filesystem", Name: "nas", Path: root},
			},
		}

		d, err := FromString("nas", cfg)
		if err != nil {
			t.Fatalf("FromString() error = %v", err)
		}
		fsd, ok := d.(*FileSystemDestination)
		if !ok {
			t.Fatalf("FromString() = %T, want *FileSystemDestination", d)
		}
		if fsd.root != root {
			t.Errorf("destination root = %q, want %q", fsd.root, root)
		}
	})
}

func TestFromConfig(t *testing.T) {
	t.Run("filesystem requires a path", func(t *testing.T) {
		if _, err := FromConfig(config.DestinationConfig{Type: "filesystem"}); err == nil {
			t.Error("FromConfig() without path succeeded")
		}
	})

	t.Run("unknown type fails", func(t *testing.T) {
		if _, err := FromConfig(config.DestinationConfig{Type: "ftp"}); err == nil {
			t.Error("FromConfig() with unknown type succeeded")
		}
	})
}
