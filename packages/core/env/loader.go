package env

import (
	"fmt"
	"os"
	"strings"
)

type Environment struct {
	Name      string
	Variables map[string]any
}

// LoadEnvironment picks the named section of the configured environments.
// An empty name yields an empty environment.
func LoadEnvironment(envName string, configEnvs map[string]map[string]any) (*Environment, error) {
	env := &Environment{
		Name:      envName,
		Variables: make(map[string]any),
	}
	if envName == "" {
		return env, nil
	}

	vars, ok := configEnvs[envName]
	if !ok {
		return nil, fmt.Errorf("environment %q is not configured", envName)
	}
	for k, v := range vars {
		env.Variables[k] = v
	}
	return env, nil
}

func MergeVariables(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		for k, v := range src {
			result[k] = v
		}
	}
	return result
}

// LoadSystemEnv returns the process environment variables starting with
// prefix, with the prefix removed.
func LoadSystemEnv(prefix string) map[string]any {
	result := make(map[string]any)
	for _, e := range os.Environ() {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		if prefix == "" {
			result[key] = value
		} else if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			result[key[len(prefix):]] = value
		}
	}
	return result
}
