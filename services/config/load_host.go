//go:build !(rp2040 || rp2350)

package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"envpanel-go/errcode"
)

// Load overlays the YAML file at path on Default and validates the result.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		c := Default()
		return c, c.Validate()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errcode.Wrap(errcode.InvalidConfig, "config.Load", path, err)
	}
	return Parse(raw)
}

// Parse overlays YAML on Default. Keys that are absent keep their defaults;
// unknown keys are rejected.
func Parse(raw []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errcode.Wrap(errcode.InvalidConfig, "config.Parse", "yaml", err)
	}
	return c, c.Validate()
}
