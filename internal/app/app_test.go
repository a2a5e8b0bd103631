package app

import "testing"

func TestSplitObjectString(t *testing.T) {
	tests := []struct {
		raw  string
		dir  string
		name string
	}{
		{"/mnt/backups/backup.zip", "/mnt/backups", "backup.zip"},
		{"backup.zip", ".", "backup.zip"},
		{"s3://bucket/prefix/backup.zip", "s3://bucket/prefix", "backup.zip"},
		{"s3://bucket/backup.zip", "s3://bucket", "backup.zip"},
		{"s3://bucket", "s3://bucket", ""},
	}

	for _, tt := range tests {
		dir, name := splitObjectString(tt.raw)
		if dir != tt.dir || name != tt.name {
			t.Errorf("splitObjectString(%q) = (%q, %q), want (%q, %q)", tt.raw, dir, name, tt.dir, tt.name)
		}
	}
}
