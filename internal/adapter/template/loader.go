// Package template loads monitoring record skeletons from disk.
//
// A template named "ongoing" is looked up as ongoing.yaml, ongoing.yml and
// ongoing.json in the template directory, in that order. JSON is parsed as
// YAML. When no file exists for the default name the built-in skeleton is
// used.
package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/ongoing-monitor/internal/domain"
)

// DefaultName is the template used when none is configured.
const DefaultName = "ongoing"

var extensions = []string{".yaml", ".yml", ".json"}

// reserved keys are computed per record and never taken from a template.
var reserved = []string{"id", "subjectId", "searchKey", "status", "createdAt", "updatedAt", "entries"}

func builtin() map[string]any {
	return map[string]any{
		"kind":    "ongoing_monitoring",
		"version": 1,
	}
}

// Loader reads templates from a directory.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir)}
}

// NewLoaderFS creates a loader over an arbitrary file system.
func NewLoaderFS(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load returns a fresh copy of the named template with reserved keys removed.
// An unknown name other than DefaultName yields domain.ErrNotFound.
func (l *Loader) Load(name string) (map[string]any, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, domain.NewValidationError("template", "name must not contain path separators")
	}

	for _, ext := range extensions {
		data, err := fs.ReadFile(l.fsys, name+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("template %s: read: %w", name, err)
		}
		return decode(name+ext, data)
	}

	if name == DefaultName {
		return builtin(), nil
	}
	return nil, fmt.Errorf("template %s: %w", name, domain.ErrNotFound)
}

func decode(file string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("template %s: parse: %w", filepath.Base(file), err)
	}

	if doc == nil {
		doc = map[string]any{}
	}
	for _, k := range reserved {
		delete(doc, k)
	}
	return doc, nil
}
