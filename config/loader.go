package config

import (
	"os"
	"path"
	"strings"

	"github.com/spf13/viper"

	"github.com/kochabx/restclient/errors"
)

// EnvPrefix prefixes environment overrides, e.g. RESTCLIENT_LOG_LEVEL.
const EnvPrefix = "RESTCLIENT"

// Loader fills a Config from some source.
type Loader interface {
	Load(target *Config) error
}

// FileLoader loads configuration from an optional file plus the environment.
type FileLoader struct {
	viper    *viper.Viper
	validate Validator
	file     string
}

// Option configures a FileLoader
type Option func(*FileLoader)

// WithViper sets a custom viper instance
func WithViper(v *viper.Viper) Option {
	return func(l *FileLoader) {
		l.viper = v
	}
}

// WithValidator sets a custom validator
func WithValidator(v Validator) Option {
	return func(l *FileLoader) {
		l.validate = v
	}
}

// NewFileLoader creates a loader reading file, which may be empty to load
// only defaults and environment variables. The format follows the file
// extension (yaml, json, toml, ...).
func NewFileLoader(file string, opts ...Option) *FileLoader {
	l := &FileLoader{
		viper:    viper.New(),
		validate: NewValidator(),
		file:     file,
	}
	for _, opt := range opts {
		opt(l)
	}

	if file != "" {
		l.viper.SetConfigFile(file)
		if ext := strings.TrimPrefix(path.Ext(file), "."); ext != "" {
			l.viper.SetConfigType(ext)
		}
	}

	l.viper.SetEnvPrefix(EnvPrefix)
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.viper.AutomaticEnv()
	setDefaults(l.viper, Default())

	return l
}

// Load implements Loader.
func (l *FileLoader) Load(target *Config) error {
	if l.file != "" {
		if err := l.viper.ReadInConfig(); err != nil {
			return errors.Wrap(err, 404, "config file not found")
		}
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return errors.Wrap(err, 500, "config parse error")
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return errors.Wrap(err, 400, "config validation failed")
		}
	}
	return nil
}

// Configured reports whether key was given in the config file or in the
// environment, as opposed to falling back to its default. Call it after Load.
func (l *FileLoader) Configured(key string) bool {
	if l.file != "" && l.viper.InConfig(key) {
		return true
	}
	env := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	_, ok := os.LookupEnv(env)
	return ok
}

// Load reads file (optional) and the environment into a new Config.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if err := NewFileLoader(file).Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override keys
// missing from the file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("transport", d.Transport)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("follow_redirects", d.FollowRedirects)
	v.SetDefault("max_redirects", d.MaxRedirects)
	v.SetDefault("insecure_skip_verify", d.InsecureSkipVerify)
	v.SetDefault("rate_limit", d.RateLimit)
	v.SetDefault("burst", d.Burst)
	v.SetDefault("concurrency", d.Concurrency)
	v.SetDefault("request_id", d.RequestID)
	v.SetDefault("headers", map[string]string{})

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file.filepath", d.Log.File.Filepath)
	v.SetDefault("log.file.filename", d.Log.File.Filename)
	v.SetDefault("log.file.file_ext", d.Log.File.FileExt)
	v.SetDefault("log.file.rotate_mode", string(d.Log.File.RotateMode))
	v.SetDefault("log.file.max_age_hours", d.Log.File.MaxAgeHours)
	v.SetDefault("log.file.rotation_time_hours", d.Log.File.RotationTimeHours)
	v.SetDefault("log.file.max_size", d.Log.File.MaxSize)
	v.SetDefault("log.file.max_backups", d.Log.File.MaxBackups)
	v.SetDefault("log.file.max_age_days", d.Log.File.MaxAgeDays)
	v.SetDefault("log.file.compress", d.Log.File.Compress)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
}
