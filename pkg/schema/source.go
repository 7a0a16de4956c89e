package schema

import (
	"path/filepath"
	"strings"
)

// Source identifies where an analysis or results document lives so loaders
// can read from disk or from an fs.FS without callers caring which.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

// fileSource identifies on-disk documents.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: filepath.ToSlash(name)}
}

// Base returns the final element of the source location, used to name the
// document in diagnostics.
func Base(src Source) string {
	if src == nil {
		return ""
	}
	loc := src.Location()
	if src.Kind() == SourceKindFS {
		if i := strings.LastIndex(loc, "/"); i >= 0 {
			return loc[i+1:]
		}
		return loc
	}
	return filepath.Base(loc)
}

// Sibling returns a Source of the same kind for name in the same directory as
// src, used to locate the results document next to an analysis.
func Sibling(src Source, name string) Source {
	if src == nil {
		return nil
	}
	loc := src.Location()
	if src.Kind() == SourceKindFS {
		dir := ""
		if i := strings.LastIndex(loc, "/"); i >= 0 {
			dir = loc[:i+1]
		}
		return SourceFromFS(dir + name)
	}
	return SourceFromFile(filepath.Join(filepath.Dir(loc), name))
}
