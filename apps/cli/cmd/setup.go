package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Marvin-Brouwer/slng-sub000/packages/cache"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/config"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/env"
	"github.com/Marvin-Brouwer/slng-sub000/packages/core/runner"
	"github.com/Marvin-Brouwer/slng-sub000/packages/export/metrics"
	"github.com/Marvin-Brouwer/slng-sub000/packages/http"
	"github.com/Marvin-Brouwer/slng-sub000/packages/logging"
)

// SystemVarPrefix marks process environment variables that become
// parameters, SLNG_VAR_token becomes {{token}}.
const SystemVarPrefix = "SLNG_VAR_"

// commonOptions are the flags shared by every command that loads requests.
type commonOptions struct {
	configPath   string
	envName      string
	envFile      string
	nameFilter   string
	timeout      string
	cacheTTL     string
	singleFlight bool
	bail         bool
	proxy        string
	insecure     bool
	noColor      bool
	logLevel     string
	logFormat    string
}

func (o *commonOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", getEnvString("SLNG_CONFIG", ""), "Path to config file (env: SLNG_CONFIG)")
	f.StringVarP(&o.envName, "env", "e", getEnvString("SLNG_ENV", ""), "Environment to use (env: SLNG_ENV)")
	f.StringVar(&o.envFile, "env-file", getEnvString("SLNG_ENV_FILE", ""), "Path to .env file, its values are treated as secrets (env: SLNG_ENV_FILE)")
	f.StringVarP(&o.nameFilter, "name", "n", "", "Only use requests matching name pattern")
	f.StringVar(&o.timeout, "timeout", getEnvString("SLNG_TIMEOUT", ""), "Request timeout (e.g., 30s, 1m) (env: SLNG_TIMEOUT)")
	f.StringVar(&o.cacheTTL, "cache-ttl", getEnvString("SLNG_CACHE_TTL", ""), "How long responses are reused: forever, off or a duration (env: SLNG_CACHE_TTL)")
	f.BoolVar(&o.singleFlight, "single-flight", getEnvBool("SLNG_SINGLE_FLIGHT", false), "Share one in-flight request between concurrent callers (env: SLNG_SINGLE_FLIGHT)")
	f.StringVar(&o.proxy, "proxy", getEnvString("SLNG_PROXY", ""), "Proxy URL for HTTP requests (env: SLNG_PROXY)")
	f.BoolVarP(&o.insecure, "insecure", "k", getEnvBool("SLNG_INSECURE", false), "Disable SSL certificate validation (env: SLNG_INSECURE)")
	f.BoolVar(&o.noColor, "no-color", getEnvBool("SLNG_NO_COLOR", false), "Disable colored output (env: SLNG_NO_COLOR)")
	f.StringVar(&o.logLevel, "log-level", getEnvString("SLNG_LOG_LEVEL", ""), "Log level: debug, info, warn, error (env: SLNG_LOG_LEVEL)")
	f.StringVar(&o.logFormat, "log-format", getEnvString("SLNG_LOG_FORMAT", ""), "Log format: console, json (env: SLNG_LOG_FORMAT)")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// session is everything a command needs to load and run request files.
type session struct {
	config  *config.Config
	params  *env.Params
	logger  zerolog.Logger
	metrics *metrics.Collector
	runner  *runner.Runner
	noColor bool
	bail    bool
}

// open loads the configuration and parameters and builds the runner.
// Failures carry ExitConfigError.
func (o *commonOptions) open() (*session, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("loading config: %w", err))
	}

	s := &session{
		config:  cfg,
		noColor: o.noColor || cfg.GetNoColor(),
		bail:    o.bail || cfg.GetBail(),
	}

	s.logger, err = logging.New(logging.Config{
		Level:   firstNonEmpty(o.logLevel, cfg.LogLevel),
		Format:  firstNonEmpty(o.logFormat, cfg.LogFormat),
		NoColor: s.noColor,
	})
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	s.params, err = o.loadParams(cfg)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}

	timeout := cfg.TimeoutDuration()
	if o.timeout != "" {
		timeout, err = time.ParseDuration(o.timeout)
		if err != nil {
			return nil, withExitCode(ExitConfigError, fmt.Errorf("invalid timeout value %q: %w (use format like 30s, 1m, 500ms)", o.timeout, err))
		}
	}

	ttl := cfg.GetCacheTTL()
	if o.cacheTTL != "" {
		ttl, err = cache.ParseTTL(o.cacheTTL)
		if err != nil {
			return nil, withExitCode(ExitConfigError, err)
		}
	}

	s.metrics = metrics.New()
	s.runner = runner.NewRunner(&runner.Config{
		Params:       s.params,
		Transport:    o.client(cfg, timeout),
		CacheTTL:     ttl,
		SingleFlight: o.singleFlight || cfg.GetSingleFlight(),
		Timeout:      timeout,
		Bail:         s.bail,
		NameFilter:   o.nameFilter,
		Logger:       &s.logger,
		Metrics:      s.metrics,
	})

	s.logger.Debug().
		Str("environment", firstNonEmpty(o.envName, cfg.DefaultEnvironment)).
		Strs("params", s.params.Names()).
		Stringer("cacheTtl", ttl).
		Dur("timeout", timeout).
		Msg("session ready")
	return s, nil
}

// loadParams merges the selected environment, SLNG_VAR_ variables and the
// .env file, in that order of precedence from low to high. Names listed as
// secrets or sensitive in the config are reclassified last.
func (o *commonOptions) loadParams(cfg *config.Config) (*env.Params, error) {
	environment, err := env.LoadEnvironment(firstNonEmpty(o.envName, cfg.DefaultEnvironment), cfg.Environments)
	if err != nil {
		return nil, err
	}

	params := env.NewParams()
	params.SetAll(env.MergeVariables(environment.Variables, env.LoadSystemEnv(SystemVarPrefix)))

	if envFile := firstNonEmpty(o.envFile, cfg.EnvFile); envFile != "" {
		vars, err := env.LoadAndExportDotEnv(envFile)
		if err != nil {
			return nil, err
		}
		params.SetAllSecret(vars)
	}

	params.Reclassify(env.Secret, cfg.Secrets...)
	params.Reclassify(env.Sensitive, cfg.Sensitive...)
	return params, nil
}

func (o *commonOptions) client(cfg *config.Config, timeout time.Duration) *http.Client {
	opts := []http.ClientOption{
		http.WithTimeout(timeout),
		http.WithFollowRedirects(cfg.GetFollowRedirects()),
		http.WithMaxRedirects(cfg.MaxRedirects),
		http.WithValidateSSL(cfg.GetValidateSSL() && !o.insecure),
		http.WithDefaultHeaders(cfg.Headers),
	}
	if proxy := firstNonEmpty(o.proxy, cfg.Proxy); proxy != "" {
		opts = append(opts, http.WithProxy(proxy))
	}
	return http.NewClient(opts...)
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && isRequestFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else if isRequestFile(arg) {
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no .http or .slng files found")
	}
	return files, nil
}

func isRequestFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".http" || ext == ".slng"
}
