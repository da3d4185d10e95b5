package fileset

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/frontmatter"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// Load walks dir and returns its files keyed by dir-relative path, in lexical order.
//
// Text files have a leading YAML frontmatter block parsed into Meta and stripped
// from Contents. A file whose frontmatter cannot be parsed is kept verbatim with
// empty metadata. Hidden files and directories are skipped.
func Load(dir string) (*FileSet, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "source directory not readable").
			WithContext("dir", dir).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.FileSystemError("source is not a directory").WithContext("dir", dir).Build()
	}

	set := New()
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		f, err := readFile(path)
		if err != nil {
			return err
		}
		set.Set(rel, f)
		return nil
	})
	if walkErr != nil {
		return nil, errors.WrapError(walkErr, errors.CategoryFileSystem, "failed to load source directory").
			WithContext("dir", dir).
			Build()
	}
	return set, nil
}

func readFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	f := &File{Contents: raw, Meta: map[string]any{}, ModTime: info.ModTime(), Mode: info.Mode().Perm()}
	if !utf8.Valid(raw) {
		return f, nil
	}

	fields, body, had, err := frontmatter.Read(raw)
	if err != nil {
		slog.Warn("Ignoring unreadable frontmatter", logfields.Path(path), logfields.Error(err))
		return f, nil
	}
	if had {
		f.Meta = fields
		f.Contents = body
	}
	return f, nil
}

// Write stores every file of set below dir, creating directories as needed.
// With clean set, dir is removed first.
func Write(set *FileSet, dir string, clean bool) error {
	if clean {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "invalid destination").WithContext("dir", dir).Build()
		}
		if abs == filepath.Dir(abs) {
			return errors.ValidationError("refusing to clean filesystem root").WithContext("dir", dir).Build()
		}
		if err := os.RemoveAll(abs); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to clean destination").WithContext("dir", dir).Build()
		}
	}

	for p, f := range set.All() {
		target := filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(p, `\`, "/")))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").WithContext("path", p).Build()
		}
		mode := f.Mode
		if mode == 0 {
			mode = 0o644
		}
		if err := os.WriteFile(target, f.Contents, mode); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write file").WithContext("path", p).Build()
		}
	}
	return nil
}
