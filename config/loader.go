package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix may precede any environment variable name.
const EnvPrefix = "OFFCLIENT_"

// appDir is the directory under the user config dir searched for files.
const appDir = "offclient"

// FileSystem abstracts the file operations of the loader (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (RealFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Resolver finds config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for a service. Explicit paths from
// opts win over the search.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.first(r.searchDirs(), serviceName+".yml", "config.yml")
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.first(r.searchDirs(), ".env."+serviceName, ".env")
	}
	return resolved
}

// searchDirs lists the directories searched, most specific first.
func (r *Resolver) searchDirs() []string {
	dirs := []string{".", "config"}
	if dir, err := r.FileSystem.UserConfigDir(); err == nil && dir != "" {
		dirs = append(dirs, filepath.Join(dir, appDir))
	}
	return dirs
}

// first returns the first existing file, trying every name in each directory
// before moving on to the next one.
func (r *Resolver) first(dirs []string, names ...string) string {
	for _, dir := range dirs {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if r.FileSystem.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// LoadConfig loads configuration for a service into cfg, a pointer to a
// struct with mapstructure tags. Values already in cfg are kept unless a
// source overrides them.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	v := viper.New()

	// 1. YAML config is the base.
	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", files.ConfigFile, err)
		}
	}

	// 2. .env only fills variables the process does not already have.
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("config: load %s: %w", files.EnvFile, err)
		}
	}

	// 3. Environment overrides everything.
	bindEnv(v, sections(cfg), os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for service %s: %w", serviceName, err)
	}
	return nil
}

// sections returns the top-level mapstructure keys of cfg, each mapped to
// whether it holds a nested struct.
func sections(cfg interface{}) map[string]bool {
	t := reflect.TypeOf(cfg)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := make(map[string]bool)
	if t == nil || t.Kind() != reflect.Struct {
		return out
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name != "" && name != "-" {
			out[name] = f.Type.Kind() == reflect.Struct
		}
	}
	return out
}

// bindEnv sets every environment variable whose first segment names a
// config section, under each nested key it could stand for. Top-level
// scalars such as name are only bound from prefixed variables.
func bindEnv(v *viper.Viper, sections map[string]bool, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		trimmed := strings.TrimPrefix(key, EnvPrefix)
		prefixed := trimmed != key
		for _, variant := range envKeyVariants(trimmed) {
			section, _, nested := strings.Cut(variant, ".")
			isStruct, known := sections[section]
			if !known || nested != isStruct || (!nested && !prefixed) {
				continue
			}
			v.Set(variant, value)
		}
	}
}

// envKeyVariants maps an UPPER_SNAKE name onto the dotted keys it could
// address, since both nesting and key names use underscores:
//
//	FOLKSONOMY_BASE_URL -> folksonomy_base_url, folksonomy.base_url,
//	                       folksonomy_base.url, folksonomy.base.url
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	variants := []string{lower}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], "_")+"."+strings.Join(parts[i:], "_"))
	}
	if len(parts) > 2 {
		variants = append(variants, strings.Join(parts, "."))
	}
	return variants
}
