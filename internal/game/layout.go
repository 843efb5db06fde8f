package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LayoutFile is the top-level structure of a deployment presets file.
type LayoutFile struct {
	Layouts []LayoutEntry `yaml:"layouts" json:"layouts"`
}

// LayoutEntry is one named deployment, e.g. "LLVVVVLL", as a player sees it
// from left to right.
type LayoutEntry struct {
	Name   string `yaml:"name" json:"name"`
	Layout string `yaml:"layout" json:"layout"`
}

// ParseLayouts decodes and validates a presets document.
func ParseLayouts(data []byte) (LayoutFile, error) {
	var lf LayoutFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return LayoutFile{}, fmt.Errorf("parse layout YAML: %w", err)
	}
	for _, l := range lf.Layouts {
		if _, err := ParseCommand(FormatDeploy(l.Layout)); err != nil {
			return LayoutFile{}, fmt.Errorf("layout %q: %w", l.Name, err)
		}
	}
	return lf, nil
}

// ParseLayoutFile reads a presets file.
func ParseLayoutFile(path string) (LayoutFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LayoutFile{}, err
	}
	return ParseLayouts(data)
}

// LayoutByNumber returns the Nth layout (1-indexed) from the presets file.
func LayoutByNumber(path string, n int) (LayoutEntry, error) {
	lf, err := ParseLayoutFile(path)
	if err != nil {
		return LayoutEntry{}, err
	}
	if n < 1 || n > len(lf.Layouts) {
		return LayoutEntry{}, fmt.Errorf("layout %d not found (have %d layouts)", n, len(lf.Layouts))
	}
	return lf.Layouts[n-1], nil
}
