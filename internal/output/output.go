// Package output delivers generated RAML to where the user reads it.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"

	"github.com/mcncl/json2raml/internal/errors"
)

// Target accepts the full text of a generated document, replacing
// whatever it showed before.
type Target interface {
	Replace(text string) error
	Name() string
}

// WriterTarget prints each document to a writer, typically stdout.
type WriterTarget struct {
	w io.Writer
}

// NewWriterTarget creates a Target writing to w.
func NewWriterTarget(w io.Writer) *WriterTarget {
	return &WriterTarget{w: w}
}

// Replace writes text, adding a final newline when it lacks one.
func (t *WriterTarget) Replace(text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if _, err := io.WriteString(t.w, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// Name implements Target.
func (t *WriterTarget) Name() string { return "stdout" }

// FileTarget keeps one file in sync with the latest document.
type FileTarget struct {
	fsys afero.Fs
	path string
}

// NewFileTarget creates a Target that rewrites path on every Replace.
func NewFileTarget(fsys afero.Fs, path string) *FileTarget {
	return &FileTarget{fsys: fsys, path: path}
}

// Replace overwrites the whole file with text, creating parent
// directories as needed.
func (t *FileTarget) Replace(text string) error {
	if dir := filepath.Dir(t.path); dir != "." {
		if err := t.fsys.MkdirAll(dir, 0o755); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to create directory '%s'", dir), err)
		}
	}
	if err := afero.WriteFile(t.fsys, t.path, []byte(text), 0o644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", t.path), err)
	}
	return nil
}

// Name implements Target.
func (t *FileTarget) Name() string { return t.path }

// Session owns the output target for a run. The target is opened on the
// first Show and reused for every later one, so repeated conversions
// replace the same document instead of opening new ones.
type Session struct {
	mu     sync.Mutex
	open   func() (Target, error)
	target Target
}

// NewSession creates a Session that calls open once, lazily.
func NewSession(open func() (Target, error)) *Session {
	return &Session{open: open}
}

// Show replaces the target's content with text.
func (s *Session) Show(text string) (Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.target == nil {
		target, err := s.open()
		if err != nil {
			return nil, err
		}
		s.target = target
	}
	if err := s.target.Replace(text); err != nil {
		return nil, err
	}
	return s.target, nil
}

// FileName derives the output file name for a source file:
// "user_profile.json" becomes "UserProfile.raml" with pascalCase set and
// "user_profile.raml" without.
func FileName(inputPath, extension string, pascalCase bool) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	// "user.schema.json" names the type "user"
	stem = strings.TrimSuffix(stem, ".schema")
	if pascalCase {
		stem = strcase.ToCamel(stem)
	}
	if stem == "" {
		stem = "DataType"
	}
	return stem + extension
}

// Stdout opens the default target.
func Stdout() (Target, error) {
	return NewWriterTarget(os.Stdout), nil
}
