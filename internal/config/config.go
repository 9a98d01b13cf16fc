// Package config carga la configuración de la consola: valores por defecto,
// config.yaml opcional y variables de entorno (.env incluido).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	App      App      `koanf:"app"`
	Log      Log      `koanf:"log"`
	HTTP     HTTP     `koanf:"http"`
	Upstream Upstream `koanf:"upstream"`
	Cache    Cache    `koanf:"cache"`
	Console  Console  `koanf:"console"`
	Auth     Auth     `koanf:"auth"`
}

type App struct {
	Name string `koanf:"name"`
	Env  string `koanf:"env"`
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type HTTP struct {
	Port           int           `koanf:"port"`
	ReadTimeout    time.Duration `koanf:"readTimeout"`
	WriteTimeout   time.Duration `koanf:"writeTimeout"`
	AllowedOrigins []string      `koanf:"allowedOrigins"`
}

type Upstream struct {
	BaseURL string        `koanf:"baseUrl"`
	Timeout time.Duration `koanf:"timeout"`
	Token   string        `koanf:"token"`
}

type Cache struct {
	Driver      string        `koanf:"driver"`
	TTL         time.Duration `koanf:"ttl"`
	RedisURL    string        `koanf:"redisUrl"`
	PostgresDSN string        `koanf:"postgresDsn"`
}

type Console struct {
	MinOverlay      time.Duration `koanf:"minOverlay"`
	NotificationTTL time.Duration `koanf:"notificationTtl"`
}

type Auth struct {
	JWTSecret         string        `koanf:"jwtSecret"`
	TokenTTL          time.Duration `koanf:"tokenTtl"`
	AdminEmail        string        `koanf:"adminEmail"`
	AdminPasswordHash string        `koanf:"adminPasswordHash"`
	DevMode           bool          `koanf:"devMode"`
}

func (c Config) IsDev() bool {
	return c.Auth.DevMode || strings.EqualFold(c.App.Env, "dev") || strings.EqualFold(c.App.Env, "development")
}

var defaults = map[string]any{
	"app.name":                "pet-store-console",
	"app.env":                 "dev",
	"log.level":               "info",
	"log.format":              "json",
	"http.port":               8080,
	"http.readTimeout":        "5s",
	"http.writeTimeout":       "15s",
	"http.allowedOrigins":     "http://localhost:5173",
	"upstream.baseUrl":        "http://localhost:3000/api",
	"upstream.timeout":        "10s",
	"upstream.token":          "",
	"cache.driver":            CacheMemory,
	"cache.ttl":               "24h",
	"cache.redisUrl":          "",
	"cache.postgresDsn":       "",
	"console.minOverlay":      "1s",
	"console.notificationTtl": "5m",
	"auth.jwtSecret":          "",
	"auth.tokenTtl":           "8h",
	"auth.adminEmail":         "",
	"auth.adminPasswordHash":  "",
	"auth.devMode":            false,
}

// envPrefixes son las secciones que se pueden pisar desde el entorno
// (UPSTREAM_BASEURL -> upstream.baseUrl).
var envPrefixes = []string{"APP_", "LOG_", "HTTP_", "UPSTREAM_", "CACHE_", "CONSOLE_", "AUTH_"}

// Load lee .env (si existe), config.yaml (si existe) y el entorno.
// paths son directorios donde buscar config.yaml además del actual.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return nil, errors.Wrapf(err, "default %s", key)
		}
	}

	if f := findFile(append([]string{"."}, paths...)); f != "" {
		if err := k.Load(file.Provider(f), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read %s", f)
		}
	}

	known := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, v string) (string, any) {
			if !hasEnvPrefix(key) {
				return "", nil
			}
			return canonicalizeEnvKey(key, known), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env")
	}

	cfg := new(Config)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	normalize(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa combinaciones que no arrancarían.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Upstream.BaseURL) == "" {
		return errors.Wrap(ErrInvalid, "upstream.baseUrl is required")
	}
	switch c.Cache.Driver {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.Wrap(ErrInvalid, "cache.redisUrl is required for the redis driver")
		}
	case CachePostgres:
		if c.Cache.PostgresDSN == "" {
			return errors.Wrap(ErrInvalid, "cache.postgresDsn is required for the postgres driver")
		}
	default:
		return errors.Wrapf(ErrInvalid, "unknown cache.driver %q", c.Cache.Driver)
	}
	if !c.IsDev() && c.Auth.JWTSecret == "" {
		return errors.Wrap(ErrInvalid, "auth.jwtSecret is required outside dev")
	}
	return nil
}

func normalize(c *Config) {
	c.Cache.Driver = strings.ToLower(strings.TrimSpace(c.Cache.Driver))
	c.Upstream.BaseURL = strings.TrimRight(strings.TrimSpace(c.Upstream.BaseURL), "/")
	origins := make([]string, 0, len(c.HTTP.AllowedOrigins))
	for _, o := range c.HTTP.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.HTTP.AllowedOrigins = origins
}

func findFile(dirs []string) string {
	for _, d := range dirs {
		candidate := filepath.Join(d, "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func hasEnvPrefix(key string) bool {
	for _, p := range envPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// canonicalizeEnvKey lleva CACHE_REDISURL a la clave existente cache.redisUrl.
func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
			continue
		}
		canonical = append(canonical, segment)
		current = nil
	}
	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (string, map[string]any, bool) {
	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}
		child, _ := value.(map[string]any)
		return key, child, true
	}
	return "", nil, false
}

func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
