// Пакет config — загрузка и валидация конфигурации сайта Pool N Play
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Допустимые значения окружения.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config содержит все параметры конфигурации приложения.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Окружение (development, production)
	Env string
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	// Полный URL подключения (DATABASE_URL), имеет приоритет над DB*
	DatabaseURLRaw string
	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string
	// Завершать процесс, если БД недоступна при старте
	DBRequired bool
	// Таймаут одного обращения к хранилищу
	StoreTimeout time.Duration

	// --- Сессии и вход администратора ---

	// Секрет для шифрования cookie сессии
	SessionSecret string
	// Время жизни сессии
	SessionTTL time.Duration
	// Логин администратора
	AdminUsername string
	// Пароль администратора (открытым текстом, если не задан хеш)
	AdminPassword string
	// bcrypt-хеш пароля администратора (приоритетнее AdminPassword)
	AdminPasswordHash string

	// --- Почта ---

	// SMTP-хост
	SMTPHost string
	// SMTP-порт
	SMTPPort int
	// Пользователь SMTP
	SMTPUser string
	// Пароль SMTP
	SMTPPass string
	// Адрес отправителя (по умолчанию SMTPUser)
	SMTPFrom string
	// Таймаут отправки одного письма
	SMTPTimeout time.Duration
	// Операционный ящик для уведомлений о заявках
	EmailTo string

	// --- Загрузка медиа ---

	// Максимальный размер одного файла в байтах
	UploadMaxBytes int64
	// Максимальное количество файлов в одной загрузке
	UploadMaxFiles int

	// --- Прочее ---

	// TTL кэша настроек сайта
	SettingsCacheTTL time.Duration
	// Разрешённые источники CORS для POST /inquiry
	CORSAllowedOrigins []string
	// Группа topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// значения и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// PP_PORT (или PORT от платформы) — порт HTTP-сервера (по умолчанию 3000)
	cfg.Port, err = getEnvInt("PP_PORT", 0)
	if err != nil {
		return nil, fmt.Errorf("PP_PORT: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port, err = getEnvInt("PORT", 3000)
		if err != nil {
			return nil, fmt.Errorf("PORT: %w", err)
		}
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PP_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// PP_ENV — окружение (по умолчанию development)
	cfg.Env = strings.ToLower(getEnvDefault("PP_ENV", EnvDevelopment))
	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction {
		return nil, fmt.Errorf("PP_ENV: недопустимое значение %q, допустимые: development, production", cfg.Env)
	}

	// PP_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("PP_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("PP_LOG_LEVEL: %w", err)
	}

	// PP_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("PP_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("PP_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	// DATABASE_URL — полный URL, если задан, DB* игнорируются
	cfg.DatabaseURLRaw = getEnvDefault("DATABASE_URL", "")
	if cfg.DatabaseURLRaw != "" {
		if err := cfg.applyDatabaseURL(cfg.DatabaseURLRaw); err != nil {
			return nil, fmt.Errorf("DATABASE_URL: %w", err)
		}
	} else {
		cfg.DBHost = getEnvDefault("PP_DB_HOST", "localhost")

		cfg.DBPort, err = getEnvInt("PP_DB_PORT", 5432)
		if err != nil {
			return nil, fmt.Errorf("PP_DB_PORT: %w", err)
		}

		cfg.DBName = getEnvDefault("PP_DB_NAME", "poolnplay")
		cfg.DBUser = getEnvDefault("PP_DB_USER", "poolnplay")
		cfg.DBPassword = getEnvDefault("PP_DB_PASSWORD", "")
		cfg.DBSSLMode = getEnvDefault("PP_DB_SSL_MODE", "disable")
	}

	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("PP_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// PP_DB_REQUIRED — падать при недоступной БД (по умолчанию false, работаем деградированно)
	cfg.DBRequired, err = getEnvBool("PP_DB_REQUIRED", false)
	if err != nil {
		return nil, fmt.Errorf("PP_DB_REQUIRED: %w", err)
	}

	// PP_STORE_TIMEOUT — таймаут обращения к БД (по умолчанию 5s)
	cfg.StoreTimeout, err = getEnvDuration("PP_STORE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PP_STORE_TIMEOUT: %w", err)
	}

	// --- Сессии ---

	// PP_SESSION_SECRET — пустой допустим, ключ генерируется при старте
	cfg.SessionSecret = getEnvDefault("PP_SESSION_SECRET", "")

	// PP_SESSION_TTL — время жизни сессии (по умолчанию 24h)
	cfg.SessionTTL, err = getEnvDuration("PP_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("PP_SESSION_TTL: %w", err)
	}

	cfg.AdminUsername = getEnvDefault("PP_ADMIN_USERNAME", "admin")
	cfg.AdminPassword = getEnvDefault("PP_ADMIN_PASSWORD", "admin123")
	cfg.AdminPasswordHash = getEnvDefault("PP_ADMIN_PASSWORD_HASH", "")

	// --- Почта ---

	cfg.SMTPHost = getEnvDefault("PP_SMTP_HOST", "smtp.gmail.com")

	cfg.SMTPPort, err = getEnvInt("PP_SMTP_PORT", 587)
	if err != nil {
		return nil, fmt.Errorf("PP_SMTP_PORT: %w", err)
	}

	cfg.SMTPUser = getEnvDefault("PP_SMTP_USER", "")
	cfg.SMTPPass = getEnvDefault("PP_SMTP_PASS", "")
	cfg.SMTPFrom = getEnvDefault("PP_SMTP_FROM", cfg.SMTPUser)

	// PP_SMTP_TIMEOUT — таймаут отправки письма (по умолчанию 10s)
	cfg.SMTPTimeout, err = getEnvDuration("PP_SMTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PP_SMTP_TIMEOUT: %w", err)
	}

	cfg.EmailTo = getEnvDefault("PP_EMAIL_TO", "info@poolnplay.com")

	// --- Загрузка медиа ---

	maxBytes, err := getEnvInt("PP_UPLOAD_MAX_BYTES", 10*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("PP_UPLOAD_MAX_BYTES: %w", err)
	}
	if maxBytes < 1 {
		return nil, fmt.Errorf("PP_UPLOAD_MAX_BYTES: значение %d должно быть положительным", maxBytes)
	}
	cfg.UploadMaxBytes = int64(maxBytes)

	cfg.UploadMaxFiles, err = getEnvInt("PP_UPLOAD_MAX_FILES", 10)
	if err != nil {
		return nil, fmt.Errorf("PP_UPLOAD_MAX_FILES: %w", err)
	}
	if cfg.UploadMaxFiles < 1 || cfg.UploadMaxFiles > 100 {
		return nil, fmt.Errorf("PP_UPLOAD_MAX_FILES: значение %d вне допустимого диапазона 1-100", cfg.UploadMaxFiles)
	}

	// --- Прочее ---

	cfg.SettingsCacheTTL, err = getEnvDuration("PP_SETTINGS_CACHE_TTL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("PP_SETTINGS_CACHE_TTL: %w", err)
	}

	cfg.CORSAllowedOrigins = parseCSV(getEnvDefault("PP_CORS_ALLOWED_ORIGINS", ""))

	cfg.DephealthGroup = getEnvDefault("PP_DEPHEALTH_GROUP", "poolnplay")

	cfg.DephealthCheckInterval, err = getEnvDuration("PP_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PP_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// PP_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("PP_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("PP_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// IsProduction сообщает, запущено ли приложение в production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SMTPConfigured сообщает, заданы ли учётные данные SMTP.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != ""
}

// DatabaseDSN возвращает строку подключения к PostgreSQL для pgxpool.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL (для лейблов topologymetrics).
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// MigrateURL возвращает URL для golang-migrate (схема pgx5://).
func (c *Config) MigrateURL() string {
	return "pgx5" + strings.TrimPrefix(c.DatabaseURL(), "postgres")
}

// applyDatabaseURL разбирает DATABASE_URL в отдельные поля DB*.
func (c *Config) applyDatabaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("некорректный URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("недопустимая схема %q, допустимые: postgres, postgresql", u.Scheme)
	}

	c.DBHost = u.Hostname()
	if c.DBHost == "" {
		return fmt.Errorf("не указан хост")
	}

	c.DBPort = 5432
	if p := u.Port(); p != "" {
		c.DBPort, err = strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("некорректный порт: %q", p)
		}
	}

	c.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		c.DBUser = u.User.Username()
		c.DBPassword, _ = u.User.Password()
	}

	c.DBSSLMode = u.Query().Get("sslmode")
	if c.DBSSLMode == "" {
		c.DBSSLMode = "disable"
	}
	return nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
