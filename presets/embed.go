package presets

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed behaviors/*.yaml water/*.yaml
var PresetsFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Category is a preset subdirectory.
type Category string

const (
	Behaviors Category = "behaviors"
	Water     Category = "water"
	Scripts   Category = "scripts"
)

// Library reads presets from Dir, falling back to the embedded copies.
type Library struct {
	Dir string
}

func NewLibrary(dir string) *Library {
	return &Library{Dir: dir}
}

// Load returns the preset file name in cat. A file on disk wins over the
// embedded one.
func (l *Library) Load(cat Category, name string) ([]byte, error) {
	clean := cleanPresetPath(cat, name, ".yaml")
	if data, ok := l.readDisk(clean); ok {
		return data, nil
	}
	return PresetsFS.ReadFile(clean)
}

// LoadScript returns a console script by name.
func (l *Library) LoadScript(name string) ([]byte, error) {
	clean := cleanPresetPath(Scripts, name, ".tengo")
	if data, ok := l.readDisk(clean); ok {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

// ModTime reports when the preset file name in cat last changed on disk.
// Embedded presets have none.
func (l *Library) ModTime(cat Category, name string) (time.Time, bool) {
	if l.Dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(l.diskPath(cleanPresetPath(cat, name, ".yaml")))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// List returns the preset names in cat, embedded and on disk, sorted.
func (l *Library) List(cat Category) ([]string, error) {
	ext := ".yaml"
	src := fs.FS(PresetsFS)
	if cat == Scripts {
		ext = ".tengo"
		src = ScriptsFS
	}

	seen := map[string]bool{}
	add := func(entries []fs.DirEntry) {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			x := strings.ToLower(filepath.Ext(e.Name()))
			if x == ext || (ext == ".yaml" && x == ".yml") {
				seen[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = true
			}
		}
	}

	embedded, err := fs.ReadDir(src, string(cat))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	add(embedded)
	if l.Dir != "" {
		disk, err := os.ReadDir(filepath.Join(l.Dir, string(cat)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		add(disk)
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func cleanPresetPath(cat Category, name, ext string) string {
	s := filepath.ToSlash(strings.TrimSpace(name))
	s = strings.TrimPrefix(s, "presets/")
	s = strings.TrimPrefix(s, string(cat)+"/")
	if path.Ext(s) == "" {
		s += ext
	}
	return path.Join(string(cat), s)
}

func (l *Library) readDisk(clean string) ([]byte, bool) {
	if l.Dir == "" {
		return nil, false
	}
	data, err := os.ReadFile(l.diskPath(clean))
	return data, err == nil
}

func (l *Library) diskPath(clean string) string {
	return filepath.Join(l.Dir, filepath.FromSlash(clean))
}
