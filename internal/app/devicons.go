package app

import (
	"io/fs"
	"time"

	devicons "github.com/epilande/go-devicons"
)

// Nerd Font glyphs for the header.
const (
	iconAPIKeySet     = ""
	iconAPIKeyMissing = ""
	iconFolder        = ""
)

// remoteFile is a feature file that only exists on the backend. devicons
// picks icons from a FileInfo, and the name is all it needs.
type remoteFile string

var _ fs.FileInfo = remoteFile("")

func (f remoteFile) Name() string     { return string(f) }
func (remoteFile) Size() int64        { return 0 }
func (remoteFile) Mode() fs.FileMode  { return 0 }
func (remoteFile) ModTime() time.Time { return time.Time{} }
func (remoteFile) IsDir() bool        { return false }
func (remoteFile) Sys() any           { return nil }

// fileIcon returns the icon for name followed by a space, or "" when the
// name is empty or has no icon.
func fileIcon(name string) string {
	if name == "" {
		return ""
	}
	return spaced(devicons.IconForInfo(remoteFile(name)).Icon)
}

func spaced(icon string) string {
	if icon == "" {
		return ""
	}
	return icon + " "
}
