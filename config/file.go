package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"
)

// File mirrors the flag surface as an optional YAML document. Every field
// is a pointer so absent keys leave the flag default untouched.
type File struct {
	FPS      *float64 `yaml:"fps,omitempty" json:"fps,omitempty"`
	Scale    *string  `yaml:"scale,omitempty" json:"scale,omitempty"`
	Colors   *string  `yaml:"colors,omitempty" json:"colors,omitempty"`
	Dither   *string  `yaml:"dither,omitempty" json:"dither,omitempty"`
	Symbols  *string  `yaml:"symbols,omitempty" json:"symbols,omitempty"`
	Width    *int     `yaml:"width,omitempty" json:"width,omitempty"`
	Height   *int     `yaml:"height,omitempty" json:"height,omitempty"`
	Threads  *int     `yaml:"threads,omitempty" json:"threads,omitempty"`
	Mode     *string  `yaml:"mode,omitempty" json:"mode,omitempty"`
	Renderer *string  `yaml:"renderer,omitempty" json:"renderer,omitempty"`
	Buffer   *int     `yaml:"buffer,omitempty" json:"buffer,omitempty"`
	Seek     *int     `yaml:"seek,omitempty" json:"seek,omitempty"`
	Loop     *bool    `yaml:"loop,omitempty" json:"loop,omitempty"`
	Quiet    *bool    `yaml:"quiet,omitempty" json:"quiet,omitempty"`
}

// LoadFile parses a YAML config file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var f File

	if err := yaml.UnmarshalWithOptions(data, &f, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return &f, nil
}

// Apply copies file values into c for every flag the user did not set
// explicitly: the file supplies defaults, the command line wins.
func (f *File) Apply(c *Config, flags *pflag.FlagSet) {
	setFloat(flags, c.Flags.FPS, &c.FPS, f.FPS)
	setString(flags, c.Flags.Scale, &c.Scale, f.Scale)
	setString(flags, c.Flags.Colors, &c.Colors, f.Colors)
	setString(flags, c.Flags.Dither, &c.Dither, f.Dither)
	setString(flags, c.Flags.Symbols, &c.Symbols, f.Symbols)
	setInt(flags, c.Flags.Width, &c.Width, f.Width)
	setInt(flags, c.Flags.Height, &c.Height, f.Height)
	setInt(flags, c.Flags.Threads, &c.Threads, f.Threads)
	setString(flags, c.Flags.Mode, &c.Mode, f.Mode)
	setString(flags, c.Flags.Renderer, &c.Renderer, f.Renderer)
	setInt(flags, c.Flags.Buffer, &c.Buffer, f.Buffer)
	setInt(flags, c.Flags.Seek, &c.Seek, f.Seek)
	setBool(flags, c.Flags.Loop, &c.Loop, f.Loop)
	setBool(flags, c.Flags.Quiet, &c.Quiet, f.Quiet)
}

func setString(flags *pflag.FlagSet, name string, dst *string, src *string) {
	if src != nil && !flags.Changed(name) {
		*dst = *src
	}
}

func setInt(flags *pflag.FlagSet, name string, dst *int, src *int) {
	if src != nil && !flags.Changed(name) {
		*dst = *src
	}
}

func setFloat(flags *pflag.FlagSet, name string, dst *float64, src *float64) {
	if src != nil && !flags.Changed(name) {
		*dst = *src
	}
}

func setBool(flags *pflag.FlagSet, name string, dst *bool, src *bool) {
	if src != nil && !flags.Changed(name) {
		*dst = *src
	}
}
