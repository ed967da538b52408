// Package subdesign resolves submodule instantiations to the design
// files that declare them.
package subdesign

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/visiboole/Visiboole-sub000/pkg/lexer"
)

// ErrNotFound indicates no searched location declares the module.
var ErrNotFound = errors.New("module not found")

// DesignExt is the file extension of design files.
const DesignExt = ".vbi"

// FileResolver locates design files on disk. The design's own directory
// is searched first, then each library directory in configured order; the
// first file containing a module declaration for the requested name wins.
type FileResolver struct {
	// Dir is the directory of the design being scanned.
	Dir string

	// Libraries are additional search directories, in priority order.
	Libraries []string
}

// NewFileResolver creates a resolver rooted at the design's directory.
func NewFileResolver(dir string, libraries ...string) *FileResolver {
	return &FileResolver{Dir: dir, Libraries: libraries}
}

// AddLibrary appends a search directory. Relative paths are taken
// relative to the design's directory.
func (r *FileResolver) AddLibrary(path string) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.Dir, path)
	}
	r.Libraries = append(r.Libraries, path)
}

// Resolve searches for "<name>.vbi" and verifies the candidate declares a
// module of that name. The glob is case-sensitive.
func (r *FileResolver) Resolve(name string) (string, error) {
	dirs := append([]string{r.Dir}, r.Libraries...)
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, name+DesignExt))
		if err != nil {
			continue
		}
		for _, path := range matches {
			ok, err := declaresModule(path, name)
			if err != nil {
				continue
			}
			if ok {
				return path, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// declaresModule reports whether the file contains a line matching the
// module-header grammar for name.
func declaresModule(path, name string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	re := lexer.ModuleDeclarationRegexp(name)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if re.MatchString(sc.Text()) {
			return true, nil
		}
	}
	return false, sc.Err()
}
