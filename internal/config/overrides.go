package config

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Overrides are values given on the command line. Zero fields leave the
// config untouched, so a flag can only switch a boolean on.
type Overrides struct {
	Assets struct {
		Model       string
		Environment string
	}
	Remote struct {
		Addr string
	}
	Debug struct {
		ShowFPS bool
	}
}

// Apply merges o into c section by section.
func (c *Config) Apply(o Overrides) error {
	opt := copier.Option{IgnoreEmpty: true}
	if err := copier.CopyWithOption(&c.Assets, &o.Assets, opt); err != nil {
		return fmt.Errorf("config: assets overrides: %w", err)
	}
	if err := copier.CopyWithOption(&c.Remote, &o.Remote, opt); err != nil {
		return fmt.Errorf("config: remote overrides: %w", err)
	}
	if err := copier.CopyWithOption(&c.Debug, &o.Debug, opt); err != nil {
		return fmt.Errorf("config: debug overrides: %w", err)
	}
	return nil
}
