// Package content embeds the articles served when no content.base_url is
// configured.
package content

import (
	"embed"
	"io/fs"
)

//go:embed Document
var files embed.FS

// FS returns the embedded tree. Articles live at Document/<category>/<file>.
func FS() fs.FS {
	return files
}
