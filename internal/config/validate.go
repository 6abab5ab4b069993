package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration invariants that would otherwise surface as
// confusing mid-pipeline failures.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return fmt.Errorf("config: staging_dir must be set")
	}
	if strings.TrimSpace(c.Paths.PackageDir) == "" {
		return fmt.Errorf("config: package_dir must be set")
	}
	if strings.TrimSpace(c.Sender.PartyID) == "" {
		return fmt.Errorf("config: sender party_id must be set")
	}
	if c.Validation.ManifestTolerance < 0 {
		return fmt.Errorf("config: manifest_tolerance must not be negative")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging format %q is not supported", c.Logging.Format)
	}
	return nil
}
