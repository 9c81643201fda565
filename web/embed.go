// Package web embeds the chat widget page served by the launcher.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var distFS embed.FS

// GetDistFS returns the widget assets rooted at dist, or nil when the
// embedded copy has no index.html.
func GetDistFS() fs.FS {
	subFS, err := fs.Sub(distFS, "dist")
	if err != nil {
		return nil
	}
	if _, err := fs.Stat(subFS, "index.html"); err != nil {
		return nil
	}
	return subFS
}
