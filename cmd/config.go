package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/chesskit/studytree/internal/tree"
	"github.com/chesskit/studytree/internal/view"
)

// DisplayConfig is the YAML-file form of the projection policy. Pointer
// fields distinguish "unset" from an explicit false.
type DisplayConfig struct {
	Path         string `yaml:"path"`
	ShowComputer *bool  `yaml:"show_computer"`
	ShowGlyphs   *bool  `yaml:"show_glyphs"`
	ShowComments *bool  `yaml:"show_comments"`
}

func loadDisplayConfig(path string) (*DisplayConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var dc DisplayConfig
	if err := yaml.Unmarshal(data, &dc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &dc, nil
}

// apply overlays the file's settings onto a view config. Unset fields keep
// their current values.
func (dc *DisplayConfig) apply(cfg *view.Config) {
	if dc == nil {
		return
	}
	if dc.Path != "" {
		cfg.Path = tree.ParsePath(dc.Path)
	}
	if dc.ShowComputer != nil {
		cfg.ShowComputer = *dc.ShowComputer
	}
	if dc.ShowGlyphs != nil {
		cfg.ShowGlyphs = *dc.ShowGlyphs
	}
	if dc.ShowComments != nil {
		cfg.ShowComments = *dc.ShowComments
	}
}
