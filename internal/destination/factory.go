package destination

import (
	"context"
	"fmt"
	"strings"

	"lazymaint/internal/config"
	"lazymaint/internal/maint"
)

// FromConfig creates a Destination from a destination config entry.
func FromConfig(cfg config.DestinationConfig) (maint.Destination, error) {
	switch cfg.Type {
	case "filesystem":
		if cfg.Path == "" {
			return nil, fmt.Errorf("filesystem destination requires path to be set")
		}
		return NewFileSystemDestination(cfg.Path)
	case "s3":
		return NewS3Destination(context.Background(), S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown destination type: %s", cfg.Type)
	}
}

// FromString resolves an opaque destination string:
//
//	s3://bucket/prefix       → S3 destination
//	<configured name>        → that destination's config
//	anything else            → local/mounted filesystem path
//
// This is the user-facing form of the abstraction: local paths,
// mounted shares and remote buckets are addressed the same way.
func FromString(raw string, cfg *config.Config) (maint.Destination, error) {
	if bucket, prefix, ok := parseS3URL(raw); ok {
		return NewS3Destination(context.Background(), S3Options{
			Bucket: bucket,
			Prefix: prefix,
		})
	}
	if cfg != nil {
		if dc, ok := cfg.FindDestination(raw); ok {
			return FromConfig(dc)
		}
	}
	return NewFileSystemDestination(raw)
}

// parseS3URL splits "s3://bucket/prefix" into its parts.
func parseS3URL(raw string) (bucket, prefix string, ok bool) {
	rest, found := strings.CutPrefix(raw, "s3://")
	if !found || rest == "" {
		return "", "", false
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	return bucket, strings.TrimSuffix(prefix, "/"), true
}
