package editor

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/milk9111/worldeditor/presets"
)

// PresetReload is what one batch of changed preset files touched.
type PresetReload struct {
	Categories []presets.Category
	Water      bool
}

// Has reports whether files in cat changed.
func (r PresetReload) Has(cat presets.Category) bool {
	for _, c := range r.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// ReloadPresets takes the files a presets.Watcher reported. Files whose
// modification time is unchanged since the last call are ignored. When the
// water preset in use changed it is applied again and Water is set.
func (s *Session) ReloadPresets(paths []string) (PresetReload, error) {
	var r PresetReload
	var errs []error
	if s.presetTimes == nil {
		s.presetTimes = map[string]time.Time{}
	}
	for _, p := range paths {
		cat, ok := presets.CategoryOf(p)
		if !ok {
			continue
		}
		file := filepath.Base(p)
		key := string(cat) + "/" + file
		mod, exists := s.Presets.ModTime(cat, file)
		if last, seen := s.presetTimes[key]; exists && seen && last.Equal(mod) {
			continue
		}
		if exists {
			s.presetTimes[key] = mod
		} else {
			delete(s.presetTimes, key)
		}
		if !r.Has(cat) {
			r.Categories = append(r.Categories, cat)
		}

		name := strings.TrimSuffix(file, filepath.Ext(file))
		if cat == presets.Water && !r.Water && s.waterPreset != "" && strings.EqualFold(name, s.waterPreset) {
			if err := s.ApplyWaterPreset(s.waterPreset); err != nil {
				errs = append(errs, err)
				continue
			}
			r.Water = true
		}
		s.log.Info("preset reloaded", "category", cat, "name", name, "removed", !exists)
	}
	return r, errors.Join(errs...)
}
