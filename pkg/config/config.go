package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for a catgen run
type Config struct {
	CategoriesFolder string   `mapstructure:"categoriesFolder" validate:"required"`
	DataFileName     string   `mapstructure:"dataFileName" validate:"required"`
	DataFolder       string   `mapstructure:"dataFolder" validate:"required"`
	PostExtensions   []string `mapstructure:"postExtensions" validate:"min=1,dive,startswith=."`
	PostsFolder      string   `mapstructure:"postsFolder" validate:"required"`
	TemplateFileName string   `mapstructure:"templateFileName" validate:"required"`

	// ImageProperties adds empty image metadata fields to newly discovered categories.
	ImageProperties bool `mapstructure:"imageProperties"`
	// ExcludePatterns are doublestar globs, relative to PostsFolder, skipped while scanning.
	ExcludePatterns []string `mapstructure:"excludePatterns"`
	// WriteAttempts bounds retries of the catalog save.
	WriteAttempts int `mapstructure:"writeAttempts" validate:"gte=1"`

	QuitOnError bool `mapstructure:"quitOnError"`
	DebugMode   bool `mapstructure:"debugMode"`
}

var defaultConfig = Config{
	CategoriesFolder: "src/categories",
	DataFileName:     "category-meta.json",
	DataFolder:       "src/_data",
	PostExtensions:   []string{".md", ".njk"},
	PostsFolder:      "src/posts",
	TemplateFileName: "11ty-cat-pages.liquid",
	ImageProperties:  false,
	ExcludePatterns:  []string{},
	WriteAttempts:    3,
}

// Default returns a copy of the default configuration
func Default() Config {
	c := defaultConfig
	c.PostExtensions = append([]string(nil), defaultConfig.PostExtensions...)
	c.ExcludePatterns = append([]string{}, defaultConfig.ExcludePatterns...)
	return c
}

// flagBindings maps configuration keys to CLI flag names
var flagBindings = map[string]string{
	"categoriesFolder": "categories-folder",
	"dataFileName":     "data-file",
	"dataFolder":       "data-folder",
	"postExtensions":   "extensions",
	"postsFolder":      "posts-folder",
	"templateFileName": "template",
	"imageProperties":  "image-properties",
	"excludePatterns":  "exclude",
	"writeAttempts":    "write-attempts",
	"quitOnError":      "fail-fast",
	"debugMode":        "debug",
}

// LoadOptions controls where configuration is read from
type LoadOptions struct {
	// ConfigFile is an explicit config file path; when empty catgen.{yaml,yml,json,toml}
	// is searched for in SearchPaths.
	ConfigFile  string
	SearchPaths []string
	// Flags, when set, override file and environment values for flags the user changed.
	Flags *pflag.FlagSet
}

// Load reads configuration from flags, CATGEN_* environment variables, an optional
// config file and the defaults, in that priority order.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	v.SetDefault("categoriesFolder", defaultConfig.CategoriesFolder)
	v.SetDefault("dataFileName", defaultConfig.DataFileName)
	v.SetDefault("dataFolder", defaultConfig.DataFolder)
	v.SetDefault("postExtensions", defaultConfig.PostExtensions)
	v.SetDefault("postsFolder", defaultConfig.PostsFolder)
	v.SetDefault("templateFileName", defaultConfig.TemplateFileName)
	v.SetDefault("imageProperties", defaultConfig.ImageProperties)
	v.SetDefault("excludePatterns", defaultConfig.ExcludePatterns)
	v.SetDefault("writeAttempts", defaultConfig.WriteAttempts)
	v.SetDefault("quitOnError", false)
	v.SetDefault("debugMode", false)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("catgen")
		paths := opts.SearchPaths
		if len(paths) == 0 {
			paths = []string{"."}
		}
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	// Keys are camelCase, so the variables read CATGEN_POSTSFOLDER and friends
	v.SetEnvPrefix("CATGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range flagBindings {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag --%s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || opts.ConfigFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DataFilePath returns the path of the persisted catalog
func (c *Config) DataFilePath() string {
	return filepath.Join(c.DataFolder, c.DataFileName)
}

// ValidationError lists every invalid configuration field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report config keys, not Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("mapstructure"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// Validate checks field constraints and exclude pattern syntax
func (c *Config) Validate() error {
	fields := make(map[string]string)

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[fe.Field()] = friendlyMessage(fe)
		}
	}

	for _, p := range c.ExcludePatterns {
		if !doublestar.ValidatePattern(p) {
			fields["excludePatterns"] = fmt.Sprintf("contains an invalid glob %q", p)
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "startswith":
		return fmt.Sprintf("entries must start with %q", fe.Param())
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}
