package maint

import "strings"

// Exclusion rules shared by the counting pass and the writing pass of
// backup. Both passes must consult the same matcher or progress
// percentages desync from the files actually written.

// alwaysSkippedDirs are pruned under every root.
var alwaysSkippedDirs = map[string]bool{
	".git":        true,
	"__pycache__": true,
}

// SkipDir reports whether a directory entry named name, encountered at
// any depth while walking the given root, is excluded from backup.
// The per-root names are pruned wherever they appear under their root,
// so profile-specific Thumbnails folders are excluded too.
func SkipDir(root RootKind, name string) bool {
	if alwaysSkippedDirs[name] {
		return true
	}
	switch root {
	case RootUserData:
		return name == "Thumbnails"
	case RootAddons:
		return name == "packages" || name == "temp"
	}
	return false
}

// SkipFile reports whether a file named name is excluded from backup
// under the given root. Only UserData excludes the texture cache
// database files; the pattern is case-insensitive.
func SkipFile(root RootKind, name string) bool {
	if root != RootUserData {
		return false
	}
	return IsTextureDB(name)
}

// IsTextureDB matches the host's texture cache database files
// (Textures13.db and friends), case-insensitively.
func IsTextureDB(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasPrefix(lower, "textures") && strings.HasSuffix(lower, ".db")
}
