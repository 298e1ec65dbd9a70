// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package manifest provides apps and shortcuts described by YAML files in a
// directory, one file per package:
//
//	package: com.example.maps
//	label: Maps
//	icon: icons/maps.png
//	activities:
//	  - name: com.example.maps.Main
//	  - name: com.example.maps.Navigate
//	    label: Navigate
//	shortcuts:
//	  - id: maps-home
//	    label: Navigate home
//	    pinned: true
//
// Shortcuts are enabled unless they set enabled: false. Only pinned, enabled
// shortcuts are reported.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotDirectory indicates the manifest path exists but is a file.
	ErrNotDirectory = errors.New("manifest path is not a directory")

	// ErrInvalidManifest indicates a manifest failed to parse or validate.
	ErrInvalidManifest = errors.New("invalid manifest")
)

// Manifest describes one installed package.
type Manifest struct {
	Package    string     `yaml:"package"`
	Label      string     `yaml:"label"`
	Icon       string     `yaml:"icon,omitempty"`
	Activities []Activity `yaml:"activities"`
	Shortcuts  []Shortcut `yaml:"shortcuts,omitempty"`
}

// Activity is a launchable entry point of a package.
type Activity struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label,omitempty"`
	Icon  string `yaml:"icon,omitempty"`
}

// Shortcut is a shortcut published by a package.
type Shortcut struct {
	ID      string `yaml:"id"`
	Label   string `yaml:"label"`
	Icon    string `yaml:"icon,omitempty"`
	Pinned  bool   `yaml:"pinned"`
	Enabled *bool  `yaml:"enabled,omitempty"`
}

// IsEnabled reports whether the shortcut is enabled. Missing means enabled.
func (s Shortcut) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Validate checks the fields every manifest needs.
func (m *Manifest) Validate() error {
	if m.Package == "" {
		return fmt.Errorf("%w: missing package", ErrInvalidManifest)
	}
	for i, a := range m.Activities {
		if a.Name == "" {
			return fmt.Errorf("%w: %s: activity %d has no name", ErrInvalidManifest, m.Package, i)
		}
	}
	for i, s := range m.Shortcuts {
		if s.ID == "" {
			return fmt.Errorf("%w: %s: shortcut %d has no id", ErrInvalidManifest, m.Package, i)
		}
	}
	return nil
}

// Parse decodes and validates one manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Write stores m as <dir>/<package>.yaml.
func Write(dir string, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, m.Package+".yaml"), data, 0o644)
}

// isManifestFile reports whether name looks like a manifest file.
func isManifestFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return (ext == ".yaml" || ext == ".yml") && !strings.HasPrefix(filepath.Base(name), ".")
}

// manifestFiles lists the manifest files of dir in name order.
func manifestFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !isManifestFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	slices.Sort(files)
	return files, nil
}
