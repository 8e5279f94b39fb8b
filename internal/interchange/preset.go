package interchange

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset is a named calendar document loaded from a YAML file on disk.
type Preset struct {
	// Slug is the filename without extension, used as the lookup key.
	Slug     string
	Document *Document
}

// LoadPresetFile reads a single YAML preset. The file holds a native
// Document; the shape inside gets ids filled and is validated the same way
// an imported document is.
func LoadPresetFile(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse preset %s: %w", path, err)
	}
	if doc.Config == nil {
		return nil, fmt.Errorf("preset %s has no config", path)
	}

	doc.Config.EnsureIDs()
	if err := doc.Config.Validate(); err != nil {
		return nil, fmt.Errorf("preset %s is invalid: %w", path, err)
	}

	slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Preset{Slug: slug, Document: &doc}, nil
}

// LoadPresetDir loads every .yaml/.yml file in a directory, sorted by slug.
// A missing directory is not an error; it yields an empty list.
func LoadPresetDir(dir string) ([]*Preset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read preset directory %s: %w", dir, err)
	}

	var presets []*Preset
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		p, err := LoadPresetFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].Slug < presets[j].Slug })
	return presets, nil
}
