// Package misc keeps program wide identification values, set at link time.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

var (
	version = "dev"
	githash = "unknown"
	appname = ""
)

// GetVersion returns program version, stamped with -ldflags "-X htmlpdf/misc.version=...".
func GetVersion() string {
	return version
}

// GetGitHash returns commit hash program was built from.
func GetGitHash() string {
	return githash
}

// GetAppName returns program name without extension.
func GetAppName() string {
	if len(appname) > 0 {
		return appname
	}
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}
