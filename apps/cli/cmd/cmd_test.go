package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marvin-Brouwer/slng-sub000/packages/core/config"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/env"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("unknown flag"), ExitUsageError},
		{"config error", withExitCode(ExitConfigError, errors.New("bad yaml")), ExitConfigError},
		{"wrapped parse error", errors.Join(errors.New("ctx"), withExitCode(ExitParseError, errors.New("bad"))), ExitParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}

	assert.NoError(t, withExitCode(ExitTestFailure, nil))
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(nested, 0o755))
	for _, name := range []string{"a.http", "b.slng", "notes.txt", filepath.Join("nested", "c.http")} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("GET http://x\n"), 0o644))
	}

	files, err := collectFiles([]string{dir})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.http"),
		filepath.Join(dir, "b.slng"),
		filepath.Join(nested, "c.http"),
	}, files)

	files, err = collectFiles([]string{filepath.Join(dir, "notes.txt"), filepath.Join(dir, "a.http")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.http")}, files)

	_, err = collectFiles([]string{filepath.Join(dir, "notes.txt")})
	assert.ErrorContains(t, err, "no .http or .slng files found")

	_, err = collectFiles([]string{filepath.Join(dir, "missing")})
	assert.ErrorContains(t, err, "cannot access")
}

func TestLoadParams(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SLNG_TEST_TOKEN=hunter2\n"), 0o644))
	t.Setenv(SystemVarPrefix+"region", "eu-west")

	cfg := config.DefaultConfig()
	cfg.Environments = map[string]map[string]any{
		"dev": {"baseUrl": "http://localhost", "user": "marvin", "port": 8080},
	}
	cfg.Sensitive = []string{"user"}

	opts := &commonOptions{envName: "dev", envFile: envFile}
	params, err := opts.loadParams(cfg)
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
		kind  env.Kind
	}{
		{"baseUrl", "http://localhost", env.Plain},
		{"port", "8080", env.Plain},
		{"user", "marvin", env.Sensitive},
		{"region", "eu-west", env.Plain},
		{"SLNG_TEST_TOKEN", "hunter2", env.Secret},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := params.Get(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.value, p.Value)
			assert.Equal(t, tt.kind, p.Kind)
		})
	}

	_, err = (&commonOptions{envName: "prod"}).loadParams(cfg)
	assert.ErrorContains(t, err, `environment "prod" is not configured`)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.http")
	bad := filepath.Join(dir, "bad.http")
	require.NoError(t, os.WriteFile(good, []byte("### ping\nGET http://localhost/ping\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("### ping\nGET http://localhost/{{missing}}\n"), 0o644))

	var stdout, stderr bytes.Buffer
	validateCmd.SetOut(&stdout)
	validateCmd.SetErr(&stderr)
	validateCmd.SetContext(context.Background())
	t.Cleanup(func() {
		validateCmd.SetOut(nil)
		validateCmd.SetErr(nil)
	})

	validateOpts = commonOptions{configPath: filepath.Join("testdata", "none.yaml"), noColor: true}
	err := validateCommand(validateCmd, []string{good})
	assert.Equal(t, ExitConfigError, exitCode(err))

	validateOpts = commonOptions{noColor: true}
	require.NoError(t, validateCommand(validateCmd, []string{good}))
	assert.Contains(t, stdout.String(), "Valid: "+good)

	err = validateCommand(validateCmd, []string{bad})
	assert.Equal(t, ExitParseError, exitCode(err))
	assert.Contains(t, stderr.String(), "missing")
}
