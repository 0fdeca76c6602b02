package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Security SecurityConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración del almacén SQLite de un solo archivo.
type DBConfig struct {
	Path        string // ruta al archivo .sqlite
	BusyTimeout time.Duration
}

// DSN devuelve el nombre de datos para el driver modernc.org/sqlite con las pragmas por conexión.
func (c DBConfig) DSN() string {
	timeout := c.BusyTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)",
		filepath.Clean(c.Path), timeout.Milliseconds())
}

// JWTConfig configuración del token de sesión del bridge.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SecurityConfig política de contraseñas, bloqueo de login y limitación por IP.
type SecurityConfig struct {
	BcryptCost        int
	MaxFailedAttempts int
	LockoutDuration   time.Duration
	LoginRPS          float64 // peticiones por segundo por IP en /auth/login
	LoginBurst        int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_PATH, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "usa-store"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Path:        getString(v, "DB_PATH", filepath.Join("data", "usa_store.sqlite")),
			BusyTimeout: time.Duration(getInt(v, "DB_BUSY_TIMEOUT_MS", 5000)) * time.Millisecond,
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 720),
			Issuer:     getString(v, "JWT_ISSUER", "usa-store"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Security: SecurityConfig{
			BcryptCost:        getInt(v, "SECURITY_BCRYPT_COST", 10),
			MaxFailedAttempts: getInt(v, "SECURITY_MAX_FAILED_ATTEMPTS", 5),
			LockoutDuration:   time.Duration(getInt(v, "SECURITY_LOCKOUT_SECONDS", 120)) * time.Second,
			LoginRPS:          getFloat(v, "SECURITY_LOGIN_RPS", 2),
			LoginBurst:        getInt(v, "SECURITY_LOGIN_BURST", 10),
		},
	}

	if cfg.DB.Path == "" {
		return nil, fmt.Errorf("DB_PATH no puede estar vacío")
	}
	if cfg.Security.MaxFailedAttempts < 1 {
		return nil, fmt.Errorf("SECURITY_MAX_FAILED_ATTEMPTS debe ser >= 1")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if v.IsSet(key) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
		if err != nil {
			return def
		}
		return f
	}
	return def
}
