package soaprouter

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// parseConfigTOML decodes TOML config data directly into cfg using
// github.com/BurntSushi/toml.
func parseConfigTOML(data []byte, cfg *RouterConfig) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse TOML: %w", err)
	}
	return nil
}

// parseConfigYAML decodes YAML config data directly into cfg using
// gopkg.in/yaml.v3.
func parseConfigYAML(data []byte, cfg *RouterConfig) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}
