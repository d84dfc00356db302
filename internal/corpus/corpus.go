package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnavailable marks a missing or unreadable corpus directory, so a
// misconfigured deployment is distinguishable from "no documents yet".
var ErrUnavailable = errors.New("corpus directory unavailable")

// Dir exposes the PDF documents of a single directory. Filenames are
// the document identities, unique and stable for one request.
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// List returns the PDF filenames in the corpus directory in lexical
// order. An existing but empty directory yields an empty slice.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, d.root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".pdf") {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Path maps a document identity to its filesystem path. The identity
// is reduced to its base name so callers cannot escape the corpus root.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, filepath.Base(name))
}
