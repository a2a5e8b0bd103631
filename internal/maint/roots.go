package maint

import "path/filepath"

// RootKind identifies a logical root of the media-center configuration tree.
type RootKind int

const (
	RootAddons RootKind = iota
	RootUserData
	RootMedia
	RootTemp
	RootThumbnails
	RootPackages
	RootLog
	RootDatabase
)

// String returns the archive/staging folder name for the root, where one exists.
func (k RootKind) String() string {
	switch k {
	case RootAddons:
		return "addons"
	case RootUserData:
		return "userdata"
	case RootMedia:
		return "media"
	case RootTemp:
		return "temp"
	case RootThumbnails:
		return "Thumbnails"
	case RootPackages:
		return "packages"
	case RootLog:
		return "log"
	case RootDatabase:
		return "Database"
	}
	return "unknown"
}

// PathConfig maps the logical roots to absolute filesystem locations.
// It is resolved once at startup and passed by value into every operation;
// the core never performs ambient path lookups.
type PathConfig struct {
	Home       string
	Addons     string
	UserData   string
	Media      string
	Temp       string
	Thumbnails string
	Packages   string
	LogDir     string
	Database   string
}

// DefaultPathConfig derives the conventional layout under a home directory:
//
//	<home>/addons            (packages cache at addons/packages)
//	<home>/userdata          (Thumbnails and Database underneath)
//	<home>/media
//	<home>/temp
//	<home>/log
func DefaultPathConfig(home string) PathConfig {
	userdata := filepath.Join(home, "userdata")
	addons := filepath.Join(home, "addons")
	return PathConfig{
		Home:       home,
		Addons:     addons,
		UserData:   userdata,
		Media:      filepath.Join(home, "media"),
		Temp:       filepath.Join(home, "temp"),
		Thumbnails: filepath.Join(userdata, "Thumbnails"),
		Packages:   filepath.Join(addons, "packages"),
		LogDir:     filepath.Join(home, "log"),
		Database:   filepath.Join(userdata, "Database"),
	}
}

// backupRoot pairs a live source tree with its archive prefix.
type backupRoot struct {
	Kind   RootKind
	Path   string
	Prefix string
}

// backupRoots returns the three archived trees in their fixed order.
// Addons and UserData entries are stored relative to Home; Media entries
// are stored under the fixed "media/" prefix regardless of where the
// media root actually lives.
func (p PathConfig) backupRoots() []backupRoot {
	return []backupRoot{
		{RootAddons, p.Addons, ""},
		{RootUserData, p.UserData, ""},
		{RootMedia, p.Media, mediaPrefix},
	}
}

// liveRoots returns the three trees that restore wipes and repopulates.
func (p PathConfig) liveRoots() []backupRoot {
	return []backupRoot{
		{RootAddons, p.Addons, ""},
		{RootUserData, p.UserData, ""},
		{RootMedia, p.Media, ""},
	}
}

// stagingTarget maps a top-level staging directory name to its live root.
// Unrecognized names fall through to Home in the move phase.
func (p PathConfig) stagingTarget(name string) (string, bool) {
	switch name {
	case "addons":
		return p.Addons, true
	case "userdata":
		return p.UserData, true
	case "media":
		return p.Media, true
	}
	return "", false
}
