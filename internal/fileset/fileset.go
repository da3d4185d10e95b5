// Package fileset holds the in-memory site tree that pipeline plugins read and
// rewrite: an insertion-ordered mapping from pipeline-relative path to file.
package fileset

import (
	"fmt"
	"io/fs"
	"iter"
	"maps"
	"slices"
	"time"
)

// File is one entry of the site tree.
type File struct {
	// Contents is the file body with any frontmatter block removed.
	Contents []byte

	// Meta is the parsed frontmatter; never nil for files produced by Load.
	Meta map[string]any

	// ModTime is the source file modification time, zero when unknown.
	ModTime time.Time

	// Mode is the permission bits used when writing; zero means 0o644.
	Mode fs.FileMode
}

// NewFile returns a file with the given contents and an empty metadata map.
func NewFile(contents []byte) *File {
	return &File{Contents: contents, Meta: map[string]any{}}
}

// Clone returns a shallow copy with its own metadata map.
func (f *File) Clone() *File {
	c := *f
	c.Meta = maps.Clone(f.Meta)
	if c.Meta == nil {
		c.Meta = map[string]any{}
	}
	return &c
}

// FileSet is an insertion-ordered path → file mapping.
// It is not safe for concurrent use; the pipeline hands it to one stage at a time.
type FileSet struct {
	order []string
	files map[string]*File
}

// New creates an empty file set.
func New() *FileSet {
	return &FileSet{files: make(map[string]*File)}
}

// Set stores f at path. Replacing an existing path keeps its position.
func (s *FileSet) Set(path string, f *File) {
	if _, exists := s.files[path]; !exists {
		s.order = append(s.order, path)
	}
	s.files[path] = f
}

// Get returns the file stored at path.
func (s *FileSet) Get(path string) (*File, bool) {
	f, ok := s.files[path]
	return f, ok
}

// Delete removes path and reports whether it was present.
func (s *FileSet) Delete(path string) bool {
	if _, ok := s.files[path]; !ok {
		return false
	}
	delete(s.files, path)
	s.order = slices.DeleteFunc(s.order, func(p string) bool { return p == path })
	return true
}

// Rename moves the file at from to to, keeping the original position.
func (s *FileSet) Rename(from, to string) error {
	f, ok := s.files[from]
	if !ok {
		return fmt.Errorf("rename %s: file not found", from)
	}
	if from == to {
		return nil
	}
	if _, exists := s.files[to]; exists {
		return fmt.Errorf("rename %s: target %s already exists", from, to)
	}
	idx := slices.Index(s.order, from)
	s.order[idx] = to
	delete(s.files, from)
	s.files[to] = f
	return nil
}

// Len returns the number of files.
func (s *FileSet) Len() int {
	return len(s.order)
}

// Paths returns the file paths in iteration order.
func (s *FileSet) Paths() []string {
	return slices.Clone(s.order)
}

// All iterates over the files in insertion order.
// The set must not be modified during iteration; use Paths for that.
func (s *FileSet) All() iter.Seq2[string, *File] {
	return func(yield func(string, *File) bool) {
		for _, p := range s.order {
			if !yield(p, s.files[p]) {
				return
			}
		}
	}
}
