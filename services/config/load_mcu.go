//go:build rp2040 || rp2350

package config

// Load returns the defaults; the MCU has no filesystem.
func Load(string) (Config, error) {
	c := Default()
	return c, c.Validate()
}
