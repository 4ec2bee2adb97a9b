package crawler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Crawler scans a directory for Lua source files.
type Crawler struct {
	fs      afero.Fs
	ignored []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler(fsys afero.Fs) *Crawler {
	return &Crawler{
		fs:      fsys,
		ignored: []string{".git", ".luarocks", "node_modules"},
	}
}

// ScanProject walks the root directory and streams every Lua file it finds.
// The callback receives the file path and its full contents.
func (c *Crawler) ScanProject(root string, onFile func(path string, source []byte) error) error {
	return afero.Walk(c.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if info.IsDir() {
			for _, ign := range c.ignored {
				if info.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(info.Name(), ".lua") {
			return nil
		}

		source, err := afero.ReadFile(c.fs, path)
		if err != nil {
			return err
		}

		return onFile(path, source)
	})
}
