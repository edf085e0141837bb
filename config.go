package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/agentflare-ai/go-lazydocs/docstring"
)

const (
	envPrefix         = "LAZYDOCS_"
	defaultOutputPath = "./docs"
	stdoutOutput      = "stdout"
)

var configFileNames = []string{".lazydocs.yaml", ".lazydocs.yml", "lazydocs.yaml"}

// config holds every knob of a generation run. Keys mirror the long flag
// names with dashes replaced by underscores.
type config struct {
	OutputPath          string   `koanf:"output_path"`
	SrcRootPath         string   `koanf:"src_root_path"`
	SrcBaseURL          string   `koanf:"src_base_url"`
	RemovePackagePrefix bool     `koanf:"remove_package_prefix"`
	IgnoredModules      []string `koanf:"ignored_modules"`
	OverviewFile        string   `koanf:"overview_file"`
	Watermark           bool     `koanf:"watermark"`
	DisableMarkdownlint bool     `koanf:"disable_markdownlint"`
	Pretty              bool     `koanf:"pretty"`
	Validate            bool     `koanf:"validate"`
	ValidateCommand     string   `koanf:"validate_command"`
	IgnoreMarker        string   `koanf:"ignore_marker"`
	Watch               bool     `koanf:"watch"`
	LogLevel            string   `koanf:"log_level"`
	Verbose             bool     `koanf:"verbose"`

	// configFile is the file the values were read from, if any.
	configFile string
}

func defaultConfig() map[string]any {
	return map[string]any{
		"output_path":           defaultOutputPath,
		"src_root_path":         "",
		"src_base_url":          "",
		"remove_package_prefix": false,
		"ignored_modules":       []string{},
		"overview_file":         "",
		"watermark":             true,
		"disable_markdownlint":  true,
		"pretty":                true,
		"validate":              false,
		"validate_command":      "",
		"ignore_marker":         docstring.DefaultIgnoreMarker,
		"watch":                 false,
		"log_level":             "info",
		"verbose":               false,
	}
}

// findConfigFile returns the explicit path or the first default config
// file present in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadConfig merges defaults, the config file, LAZYDOCS_* environment
// variables and explicitly set flags, in increasing order of precedence.
func loadConfig(cfgFile string, flags *pflag.FlagSet) (*config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultConfig(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", errInvalidConfig, path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidConfig, err)
	}
	cfg.configFile = path
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *config) validate() error {
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("%w: output_path must not be empty", errInvalidConfig)
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c *config) stdoutMode() bool {
	return strings.EqualFold(c.OutputPath, stdoutOutput)
}

func (c *config) level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", errInvalidConfig, c.LogLevel)
	}
	return lvl, nil
}

var (
	errInvalidConfig    = errors.New("invalid configuration")
	errNoTargets        = errors.New("no documentation targets matched")
	errValidationFailed = errors.New("docstring validation failed")
)
