// Package config handles configuration loading and management for slng.
//
// It provides functionality for:
//   - Loading configuration from .slng.yaml, slng.yaml or .slng.json files
//   - Default configuration values
//   - Named environments and the parameters marked secret or sensitive
package config
