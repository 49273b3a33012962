package maps

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrEmptyName     = errors.New("maps: name is empty")
	ErrBadName       = errors.New("maps: name has invalid characters")
	ErrDuplicateName = errors.New("maps: a map with this name already exists")
	ErrNotFound      = errors.New("maps: map not found")
)

const ext = ".json"

// Store keeps maps as indented JSON files in one directory.
type Store struct {
	Dir string
	log *slog.Logger
}

func NewStore(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{Dir: dir, log: log}
}

// CleanName trims name and drops a trailing .json.
func CleanName(name string) string {
	name = strings.TrimSpace(name)
	if strings.EqualFold(filepath.Ext(name), ext) {
		name = name[:len(name)-len(ext)]
	}
	return strings.TrimSpace(name)
}

// ValidateName checks a map name the way the save dialog does. overwrite
// allows the name of an existing map.
func (s *Store) ValidateName(name string, overwrite bool) error {
	name = CleanName(name)
	if name == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, `/\:*?"<>|`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrBadName, name)
	}
	if overwrite {
		return nil
	}
	existing, err := s.List()
	if err != nil {
		return err
	}
	for _, n := range existing {
		if strings.EqualFold(n, name) {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Dir, name+ext)
}

// List returns the names of the saved maps, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

// Save writes doc under name. An existing map is only replaced when
// overwrite is set.
func (s *Store) Save(name string, doc *Document, overwrite bool) error {
	if err := s.ValidateName(name, overwrite); err != nil {
		return err
	}
	name = CleanName(name)
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}
	doc.Version = Version
	doc.Name = name

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("maps: encode %q: %w", name, err)
	}
	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, b, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	s.log.Info("map saved", "name", name, "items", len(doc.Items), "models", len(doc.Models))
	return nil
}

// Load reads the map called name.
func (s *Store) Load(name string) (*Document, error) {
	if err := s.ValidateName(name, true); err != nil {
		return nil, err
	}
	name = CleanName(name)
	b, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("maps: decode %q: %w", name, err)
	}
	if doc.Version > Version {
		return nil, fmt.Errorf("maps: %q has version %d, newest known is %d", name, doc.Version, Version)
	}
	if doc.Name == "" {
		doc.Name = name
	}
	return &doc, nil
}

// Delete removes the map called name.
func (s *Store) Delete(name string) error {
	if err := s.ValidateName(name, true); err != nil {
		return err
	}
	name = CleanName(name)
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return err
}
