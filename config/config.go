// Package config loads and validates the user-supplied YAML file that
// describes the server under test and the object instances to probe.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ga4gh/rnaget-compliance-suite/results"
)

// ObjectInstance is one concrete id+filters combination of a given
// object type, as configured for testing.
type ObjectInstance struct {
	ID      string            `yaml:"id"`
	Filters map[string]string `yaml:"filters"`
}

// ServerConfig describes one target server and the object instances to
// test against it. It is read-only input for the duration of one run.
type ServerConfig struct {
	ServerName  string           `yaml:"server_name"`
	BaseURL     string           `yaml:"base_url"`
	Token       string           `yaml:"token"`
	Projects    []ObjectInstance `yaml:"projects"`
	Studies     []ObjectInstance `yaml:"studies"`
	Expressions []ObjectInstance `yaml:"expressions"`
	Continuous  []ObjectInstance `yaml:"continuous"`
}

// Instances returns the configured instances for one object type, in
// configuration order.
func (c *ServerConfig) Instances(objectType results.ObjectType) []ObjectInstance {
	switch objectType {
	case results.ObjectTypeProjects:
		return c.Projects
	case results.ObjectTypeStudies:
		return c.Studies
	case results.ObjectTypeExpressions:
		return c.Expressions
	case results.ObjectTypeContinuous:
		return c.Continuous
	}
	return nil
}

// Load reads and parses a server configuration from a YAML file and
// validates it. Any problem is a setup error: the caller should print
// usage and exit without running any tests.
func Load(path string) (*ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file %s: %w", path, err)
	}
	var cfg ServerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration for operator mistakes: missing
// required fields, malformed base URL, instances without ids, and
// duplicate object ids within one object type.
func (c *ServerConfig) Validate() error {
	if c.ServerName == "" {
		return fmt.Errorf("server_name is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not a valid absolute URL", c.BaseURL)
	}

	for _, objectType := range results.ObjectTypes {
		seen := make(map[string]bool)
		for i, instance := range c.Instances(objectType) {
			if strings.TrimSpace(instance.ID) == "" {
				return fmt.Errorf("%s instance %d has no id", objectType, i)
			}
			if seen[instance.ID] {
				return fmt.Errorf("duplicate %s object id %q", objectType, instance.ID)
			}
			seen[instance.ID] = true
		}
	}
	return nil
}
