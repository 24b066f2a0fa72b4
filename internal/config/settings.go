package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Engine names
const (
	EngineNative = "native"
	EngineYTDLP  = "ytdlp"
)

// Settings keys, shared by flags, env vars and the config file
const (
	KeyConfigFile       = "config"
	KeyListenAddress    = "listen"
	KeyDownloadDir      = "download-dir"
	KeyDownloadRoot     = "download-root"
	KeyFilenameTemplate = "filename-template"
	KeyLanguage         = "language"
	KeyEngine           = "engine"
	KeyYTDLPPath        = "ytdlp-path"
	KeyEngineTimeout    = "engine-timeout"
	KeyLogLevel         = "log-level"
	KeyLogJSON          = "log-json"
	KeyLogFile          = "log-file"
	KeyPrometheus       = "prometheus"
	KeyPrometheusPrefix = "prometheus-prefix"
	KeyFlashSecret      = "flash-secret"
	KeySecureCookie     = "secure-cookie"
)

// Default values
const (
	DefaultListenAddress    = "127.0.0.1:5000"
	DefaultDownloadDirName  = "downloads"
	DefaultFilenameTemplate = "%(title)s.%(ext)s"
	DefaultLanguage         = "system"
	DefaultEngine           = EngineNative
	DefaultYTDLPPath        = "yt-dlp"
	DefaultEngineTimeout    = time.Duration(0)
	DefaultLogLevel         = "info"
	DefaultPrometheusPrefix = "ytweb_"

	EnvPrefix      = "YTWEB"
	ConfigName     = "ytweb-config"
	ConfigType     = "yaml"
	DotEnvFilename = ".env"

	MaxEngineTimeout = time.Hour
)

// Settings manages application configuration
type Settings struct {
	v *viper.Viper
}

// NewSettings creates a new settings manager backed by v
func NewSettings(v *viper.Viper) *Settings {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	return &Settings{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyListenAddress, DefaultListenAddress)
	v.SetDefault(KeyFilenameTemplate, DefaultFilenameTemplate)
	v.SetDefault(KeyLanguage, DefaultLanguage)
	v.SetDefault(KeyEngine, DefaultEngine)
	v.SetDefault(KeyYTDLPPath, DefaultYTDLPPath)
	v.SetDefault(KeyEngineTimeout, DefaultEngineTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyPrometheusPrefix, DefaultPrometheusPrefix)
}

// Load reads the .env file and the config file, if any, and enables env overrides.
// Flags must already be bound with BindFlags.
func (s *Settings) Load() error {
	if err := godotenv.Load(DotEnvFilename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", DotEnvFilename, err)
	}

	s.v.SetEnvPrefix(EnvPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	s.v.AutomaticEnv()

	if configFile := s.v.GetString(KeyConfigFile); configFile != "" {
		s.v.SetConfigFile(configFile)
		if err := s.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		s.v.AddConfigPath(home)
	}
	s.v.AddConfigPath(".")
	s.v.SetConfigName(ConfigName)
	s.v.SetConfigType(ConfigType)

	if err := s.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// BindFlags binds every flag of the set to the settings key of the same name
func (s *Settings) BindFlags(flagSet *pflag.FlagSet) {
	flagSet.VisitAll(func(flag *pflag.Flag) {
		s.v.BindPFlag(flag.Name, flag)
	})
}

// ConfigFileUsed returns the config file that was read, if any
func (s *Settings) ConfigFileUsed() string {
	return s.v.ConfigFileUsed()
}

// GetDownloadDirectory returns the configured default download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := strings.TrimSpace(s.v.GetString(KeyDownloadDir))
	if dir == "" {
		// Default to ./downloads next to the working directory
		cwd, err := os.Getwd()
		if err != nil {
			cwd = os.TempDir()
		}
		dir = filepath.Join(cwd, DefaultDownloadDirName)
		s.SetDownloadDirectory(dir)
	}
	return dir
}

// SetDownloadDirectory sets the default download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.v.Set(KeyDownloadDir, dir)
}

// GetDownloadRoot returns the directory all destinations must live under, or "" for no restriction
func (s *Settings) GetDownloadRoot() string {
	return strings.TrimSpace(s.v.GetString(KeyDownloadRoot))
}

// GetListenAddress returns the HTTP listen address
func (s *Settings) GetListenAddress() string {
	addr := strings.TrimSpace(s.v.GetString(KeyListenAddress))
	if addr == "" {
		return DefaultListenAddress
	}
	return addr
}

// GetFilenameTemplate returns the filename template
func (s *Settings) GetFilenameTemplate() string {
	template := s.v.GetString(KeyFilenameTemplate)
	if template == "" {
		s.SetFilenameTemplate(DefaultFilenameTemplate)
		return DefaultFilenameTemplate
	}
	return template
}

// SetFilenameTemplate sets the filename template
func (s *Settings) SetFilenameTemplate(template string) {
	if template == "" {
		template = DefaultFilenameTemplate
	}
	s.v.Set(KeyFilenameTemplate, template)
}

// GetLanguage returns the configured language, the default for unknown values
func (s *Settings) GetLanguage() string {
	lang := strings.ToLower(strings.TrimSpace(s.v.GetString(KeyLanguage)))
	if _, ok := s.GetLanguageOptions()[lang]; !ok {
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the interface language
func (s *Settings) SetLanguage(lang string) {
	s.v.Set(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetEngine returns the extraction engine name, falling back to the default for unknown values
func (s *Settings) GetEngine() string {
	engine := strings.ToLower(strings.TrimSpace(s.v.GetString(KeyEngine)))
	for _, option := range s.GetEngineOptions() {
		if engine == option {
			return engine
		}
	}
	return DefaultEngine
}

// SetEngine sets the extraction engine name
func (s *Settings) SetEngine(engine string) {
	s.v.Set(KeyEngine, engine)
}

// GetEngineOptions returns the supported engine names
func (s *Settings) GetEngineOptions() []string {
	return []string{EngineNative, EngineYTDLP}
}

// GetYTDLPPath returns the yt-dlp executable used by the ytdlp engine
func (s *Settings) GetYTDLPPath() string {
	path := strings.TrimSpace(s.v.GetString(KeyYTDLPPath))
	if path == "" {
		return DefaultYTDLPPath
	}
	return path
}

// GetEngineTimeout returns the per-call engine timeout, zero meaning none
func (s *Settings) GetEngineTimeout() time.Duration {
	timeout := s.v.GetDuration(KeyEngineTimeout)
	if timeout < 0 {
		return 0
	}
	if timeout > MaxEngineTimeout {
		return MaxEngineTimeout
	}
	return timeout
}

// SetEngineTimeout sets the per-call engine timeout
func (s *Settings) SetEngineTimeout(timeout time.Duration) {
	s.v.Set(KeyEngineTimeout, timeout)
}

// GetLogLevel returns the log level name
func (s *Settings) GetLogLevel() string {
	return s.v.GetString(KeyLogLevel)
}

// GetLogJSON returns whether logs are written as JSON
func (s *Settings) GetLogJSON() bool {
	return s.v.GetBool(KeyLogJSON)
}

// GetLogFile returns the optional log file path
func (s *Settings) GetLogFile() string {
	return strings.TrimSpace(s.v.GetString(KeyLogFile))
}

// GetPrometheus returns whether /metrics is exposed
func (s *Settings) GetPrometheus() bool {
	return s.v.GetBool(KeyPrometheus)
}

// GetPrometheusPrefix returns the prefix of exported metric names
func (s *Settings) GetPrometheusPrefix() string {
	return s.v.GetString(KeyPrometheusPrefix)
}

// GetFlashSecret returns the key used to sign flash cookies, "" to generate one per process
func (s *Settings) GetFlashSecret() string {
	return s.v.GetString(KeyFlashSecret)
}

// GetSecureCookie returns whether cookies carry the Secure attribute, for
// deployments behind TLS
func (s *Settings) GetSecureCookie() bool {
	return s.v.GetBool(KeySecureCookie)
}
