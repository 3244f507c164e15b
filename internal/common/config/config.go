package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read at process start.
const (
	EnvBaseDir   = "APPDATA"
	EnvLocalDir  = "LOCALAPPDATA"
	EnvTimeout   = "SPICE_GUARD_TIMEOUT"
	EnvFreshness = "SPICE_GUARD_FRESHNESS"
)

const (
	// DefaultTimeout bounds every external command.
	DefaultTimeout = 600 * time.Second
	// DefaultFreshness is how long a successful run lets later runs skip all work.
	DefaultFreshness = 12 * time.Hour
	// DefaultPatcher is the command name looked up on PATH.
	DefaultPatcher = "spicetify"
)

// Error variables for settings errors
var (
	// ErrBaseDirUnavailable is returned when neither APPDATA nor the user config dir is set
	ErrBaseDirUnavailable = errors.New("base directory is not configured")
	// ErrInvalidSettings is returned when the settings file cannot be parsed or holds bad values
	ErrInvalidSettings = errors.New("invalid settings file")
)

// Settings is the guard configuration, built once at startup and passed
// explicitly to everything that needs it.
type Settings struct {
	BaseDir      string        // holds spicetify/ and Spotify/
	LocalDir     string        // optional local install root for the patcher
	Patcher      string        // resolved patcher command or absolute path
	ProcessName  string        // target application process to stop
	Timeout      time.Duration // per external command
	Freshness    time.Duration
	SettingsFile string // YAML file that was consulted, may not exist
	GOOS         string
}

// FileSettings mirrors the optional YAML settings file.
type FileSettings struct {
	Timeout     int    `yaml:"timeout,omitempty"`   // seconds
	Freshness   string `yaml:"freshness,omitempty"` // Go duration, e.g. "6h"
	Patcher     string `yaml:"patcher,omitempty"`
	ProcessName string `yaml:"process_name,omitempty"`
}

// Env looks up an environment variable; os.Getenv satisfies it.
type Env func(string) string

// Load resolves settings from the process environment.
// settingsPath may be empty to use the default location.
func Load(settingsPath string) (*Settings, error) {
	return Resolve(os.Getenv, settingsPath)
}

// Resolve builds Settings from defaults, the optional settings file and env,
// in increasing order of precedence.
func Resolve(env Env, settingsPath string) (*Settings, error) {
	return resolve(env, settingsPath, runtime.GOOS)
}

// ResolveBaseDir returns APPDATA, falling back to the user config directory.
func ResolveBaseDir(env Env) (string, error) {
	if base := env(EnvBaseDir); base != "" {
		return base, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "", ErrBaseDirUnavailable
	}
	return dir, nil
}

// LogPathIn returns the guard log location under base. It needs no other
// settings so the log can be opened before the settings file is read.
func LogPathIn(base string) string {
	return filepath.Join(base, "Spotify", "spicetify_boot_guard.log")
}

func resolve(env Env, settingsPath, goos string) (*Settings, error) {
	base, err := ResolveBaseDir(env)
	if err != nil {
		return nil, err
	}

	s := &Settings{
		BaseDir:     base,
		LocalDir:    env(EnvLocalDir),
		ProcessName: DefaultProcessName(goos),
		Timeout:     DefaultTimeout,
		Freshness:   DefaultFreshness,
		GOOS:        goos,
	}

	if settingsPath == "" {
		settingsPath = s.DefaultSettingsPath()
	}
	s.SettingsFile = settingsPath

	fs, err := LoadFile(settingsPath)
	if err != nil {
		return nil, err
	}
	if err := s.apply(fs); err != nil {
		return nil, err
	}

	if v, ok := parseTimeout(env(EnvTimeout)); ok {
		s.Timeout = v
	}
	if v, ok := parseFreshness(env(EnvFreshness)); ok {
		s.Freshness = v
	}

	if s.Patcher == "" {
		s.Patcher = ResolvePatcher(s.LocalDir, goos)
	}
	return s, nil
}

// LoadFile reads the YAML settings file. A missing file yields zero settings.
func LoadFile(path string) (*FileSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileSettings{}, nil
		}
		return nil, err
	}

	var fs FileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSettings, path, err)
	}
	return &fs, nil
}

// SaveTo writes the settings file, creating its directory.
func (fs *FileSettings) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(fs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Settings) apply(fs *FileSettings) error {
	if fs.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be positive, got %d", ErrInvalidSettings, fs.Timeout)
	}
	if fs.Timeout > 0 {
		s.Timeout = time.Duration(fs.Timeout) * time.Second
	}
	if fs.Freshness != "" {
		d, ok := parseFreshness(fs.Freshness)
		if !ok {
			return fmt.Errorf("%w: freshness %q is not a positive duration", ErrInvalidSettings, fs.Freshness)
		}
		s.Freshness = d
	}
	if fs.Patcher != "" {
		s.Patcher = fs.Patcher
	}
	if fs.ProcessName != "" {
		s.ProcessName = fs.ProcessName
	}
	return nil
}

// parseTimeout accepts a positive whole number of seconds.
func parseTimeout(v string) (time.Duration, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}

func parseFreshness(v string) (time.Duration, bool) {
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

// DefaultProcessName returns the target application's process name on goos.
func DefaultProcessName(goos string) string {
	if goos == "windows" {
		return "Spotify.exe"
	}
	return "spotify"
}

// ResolvePatcher prefers a locally installed executable over PATH lookup.
// A local batch wrapper is still run through PATH.
func ResolvePatcher(localDir, goos string) string {
	if localDir == "" {
		return DefaultPatcher
	}

	exeName := DefaultPatcher
	if goos == "windows" {
		exeName += ".exe"
	}
	exe := filepath.Join(localDir, "spicetify", exeName)
	if fileExists(exe) {
		return exe
	}
	return DefaultPatcher
}

// MarkerPath is the patcher's config file; its presence is half of the
// installation check.
func (s *Settings) MarkerPath() string {
	return filepath.Join(s.BaseDir, "spicetify", "config-xpui.ini")
}

// StateDir holds the guard's cache, log and settings files.
func (s *Settings) StateDir() string {
	return filepath.Join(s.BaseDir, "Spotify")
}

// CachePath returns the cache record location.
func (s *Settings) CachePath() string {
	return filepath.Join(s.StateDir(), "spicetify_boot_guard_cache.toml")
}

// LogPath returns the append-only guard log location.
func (s *Settings) LogPath() string {
	return LogPathIn(s.BaseDir)
}

// DefaultSettingsPath returns where the optional YAML settings file lives.
func (s *Settings) DefaultSettingsPath() string {
	return filepath.Join(s.StateDir(), "spicetify_boot_guard.yaml")
}

// HasMarker reports whether the patcher config file exists.
func (s *Settings) HasMarker() bool {
	return fileExists(s.MarkerPath())
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
