package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envEnvironment           = "ENV"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envDBBackend             = "DB_BACKEND"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envJWTSecret             = "JWT_SECRET"
	envJWTExpiry             = "JWT_EXPIRY_MINUTES"
	envMaxUploadSize         = "MAX_UPLOAD_SIZE"
	envAllowedFileTypes      = "ALLOWED_FILE_TYPES"
	envAllowedMimeTypes      = "ALLOWED_MIME_TYPES"
	envUploadDir             = "UPLOAD_DIR"
	envStorageBackend        = "STORAGE_BACKEND"
	envS3Bucket              = "S3_BUCKET"
	envAWSRegion             = "AWS_REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envAnalysisTimeout       = "ANALYSIS_TIMEOUT"
	envAnalysisReaperPeriod  = "ANALYSIS_REAPER_INTERVAL"
	envPaginationPageSize    = "PAGINATION_PAGE_SIZE"
)

const (
	defaultServerPort          = "8080"
	defaultEnvironment         = "development"
	environmentDevelopment     = "development"
	defaultServerReadTimeout   = 30 * time.Second
	defaultServerWriteTimeout  = 30 * time.Second
	defaultServerShutdown      = 10 * time.Second
	defaultDBHost              = "localhost"
	defaultDBPort              = 5432
	defaultDBName              = "legaldocs"
	defaultDBUser              = "legaldocs_app"
	defaultDBSSLMode           = "disable"
	defaultDBMaxConns          = 25
	defaultDBMinConns          = 5
	defaultJWTExpiry           = 60 * time.Minute
	defaultMaxUploadSize       = int64(25 * 1024 * 1024)
	defaultUploadDir           = "./uploads"
	defaultAnalysisTimeout     = 5 * time.Minute
	defaultAnalysisReaper      = time.Minute
	defaultPageSize            = 100
	minJWTSecretLength         = 32
	errDBPasswordRequiredFmt   = "%s must be set"
	errJWTSecretRequiredFmt    = "%s must be set"
	errJWTSecretMinLengthFmt   = "%s must be at least %d characters"
	errS3BucketRequiredFmt     = "%s must be set when STORAGE_BACKEND=s3"
	errAWSKeyRequiredFmt       = "%s must be set when STORAGE_BACKEND=s3"
	errUnknownStorageBackend   = "unknown storage backend %q (expected local or s3)"
	errUnknownDBBackend        = "unknown database backend %q (expected postgres or memory)"
	errInvalidIntEnvFmt        = "invalid value for %s: %w"
	errInvalidDurationEnvFmt   = "invalid duration for %s: %w"
	allowedTypesSeparator      = ","
	defaultAllowedFileTypesCSV = "pdf,doc,docx,txt"
	defaultAllowedMimeTypesCSV = "application/pdf,application/msword," +
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document,text/plain"
)

// StorageBackend selects where uploaded bytes live.
const (
	StorageBackendLocal = "local"
	StorageBackendS3    = "s3"
)

// DatabaseBackend selects where records live. The memory backend keeps
// everything in process and is meant for local development.
const (
	DatabaseBackendPostgres = "postgres"
	DatabaseBackendMemory   = "memory"
)

type ServerConfig struct {
	Port            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Backend  string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type UploadConfig struct {
	MaxSizeBytes      int64
	AllowedExtensions []string
	AllowedMimeTypes  []string
}

type StorageConfig struct {
	Backend   string
	UploadDir string
	S3Bucket  string
	AWS       AWSConfig
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

type AnalysisConfig struct {
	// Timeout after which a stuck processing record is marked failed.
	Timeout time.Duration
	// ReaperInterval is how often stale records are swept.
	ReaperInterval time.Duration
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Upload   UploadConfig
	Storage  StorageConfig
	Analysis AnalysisConfig
	PageSize int
}

// Load reads configuration from the environment, applying defaults and
// validating required values.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Server.Port = getEnv(envPort, defaultServerPort)
	cfg.Server.Environment = getEnv(envEnvironment, defaultEnvironment)

	var err error
	if cfg.Server.ReadTimeout, err = getDurationEnv(envServerReadTimeout, defaultServerReadTimeout); err != nil {
		return nil, err
	}
	if cfg.Server.WriteTimeout, err = getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout); err != nil {
		return nil, err
	}
	if cfg.Server.ShutdownTimeout, err = getDurationEnv(envServerShutdownTimeout, defaultServerShutdown); err != nil {
		return nil, err
	}

	cfg.Database.Backend = getEnv(envDBBackend, DatabaseBackendPostgres)
	switch cfg.Database.Backend {
	case DatabaseBackendMemory:
	case DatabaseBackendPostgres:
		cfg.Database.Host = getEnv(envDBHost, defaultDBHost)
		if cfg.Database.Port, err = getIntEnv(envDBPort, defaultDBPort); err != nil {
			return nil, err
		}
		cfg.Database.Name = getEnv(envDBName, defaultDBName)
		cfg.Database.User = getEnv(envDBUser, defaultDBUser)
		cfg.Database.Password = os.Getenv(envDBPassword)
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf(errDBPasswordRequiredFmt, envDBPassword)
		}
		cfg.Database.SSLMode = getEnv(envDBSSLMode, defaultDBSSLMode)
		if cfg.Database.MaxConns, err = getIntEnv(envDBMaxConns, defaultDBMaxConns); err != nil {
			return nil, err
		}
		if cfg.Database.MinConns, err = getIntEnv(envDBMinConns, defaultDBMinConns); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf(errUnknownDBBackend, cfg.Database.Backend)
	}

	cfg.JWT.Secret = os.Getenv(envJWTSecret)
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf(errJWTSecretRequiredFmt, envJWTSecret)
	}
	if len(cfg.JWT.Secret) < minJWTSecretLength {
		return nil, fmt.Errorf(errJWTSecretMinLengthFmt, envJWTSecret, minJWTSecretLength)
	}
	expiryMinutes, err := getIntEnv(envJWTExpiry, int(defaultJWTExpiry.Minutes()))
	if err != nil {
		return nil, err
	}
	cfg.JWT.Expiry = time.Duration(expiryMinutes) * time.Minute

	if cfg.Upload.MaxSizeBytes, err = getInt64Env(envMaxUploadSize, defaultMaxUploadSize); err != nil {
		return nil, err
	}
	cfg.Upload.AllowedExtensions = splitCSV(getEnv(envAllowedFileTypes, defaultAllowedFileTypesCSV))
	cfg.Upload.AllowedMimeTypes = splitCSV(getEnv(envAllowedMimeTypes, defaultAllowedMimeTypesCSV))

	cfg.Storage.Backend = getEnv(envStorageBackend, StorageBackendLocal)
	cfg.Storage.UploadDir = getEnv(envUploadDir, defaultUploadDir)
	switch cfg.Storage.Backend {
	case StorageBackendLocal:
	case StorageBackendS3:
		cfg.Storage.S3Bucket = os.Getenv(envS3Bucket)
		if cfg.Storage.S3Bucket == "" {
			return nil, fmt.Errorf(errS3BucketRequiredFmt, envS3Bucket)
		}
		cfg.Storage.AWS.Region = os.Getenv(envAWSRegion)
		cfg.Storage.AWS.AccessKeyID = os.Getenv(envAWSAccessKeyID)
		cfg.Storage.AWS.SecretAccessKey = os.Getenv(envAWSSecretAccessKey)
		if cfg.Storage.AWS.AccessKeyID == "" {
			return nil, fmt.Errorf(errAWSKeyRequiredFmt, envAWSAccessKeyID)
		}
		if cfg.Storage.AWS.SecretAccessKey == "" {
			return nil, fmt.Errorf(errAWSKeyRequiredFmt, envAWSSecretAccessKey)
		}
	default:
		return nil, fmt.Errorf(errUnknownStorageBackend, cfg.Storage.Backend)
	}

	if cfg.Analysis.Timeout, err = getDurationEnv(envAnalysisTimeout, defaultAnalysisTimeout); err != nil {
		return nil, err
	}
	if cfg.Analysis.ReaperInterval, err = getDurationEnv(envAnalysisReaperPeriod, defaultAnalysisReaper); err != nil {
		return nil, err
	}

	if cfg.PageSize, err = getIntEnv(envPaginationPageSize, defaultPageSize); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsDevelopment reports whether detailed errors may be returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == environmentDevelopment
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf(errInvalidIntEnvFmt, key, err)
	}
	return n, nil
}

func getInt64Env(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf(errInvalidIntEnvFmt, key, err)
	}
	return n, nil
}

func getDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf(errInvalidDurationEnvFmt, key, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, allowedTypesSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
