package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port              string
	CORSAllowOrigin   []string
	ObjectStoreType   string
	LocalStoreDir     string
	AWSRegion         string
	S3Bucket          string
	S3Prefix          string
	S3Endpoint        string
	SSEKMSKeyID       string
	AuditQueueURL     string
	DatabaseURL       string
	Env               string
	AuthRequired      bool
	Images            ImageLimits
	SubmitRateLimit   float64
	SubmitRateBurst   int
	DefaultPageSize   int
	MaxUploadBytes    int64
	RunMigrationsBoot bool
}

// ImageLimits bounds the images accepted in a transaction.
type ImageLimits struct {
	MaxSizeMB int
	MinWidth  int
	MinHeight int
	MaxWidth  int
	MaxHeight int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	images := DefaultImageLimits()
	images.MaxSizeMB = getEnvInt("MAX_IMAGE_SIZE_MB", images.MaxSizeMB)
	images.MinWidth = getEnvInt("MIN_IMAGE_WIDTH", images.MinWidth)
	images.MinHeight = getEnvInt("MIN_IMAGE_HEIGHT", images.MinHeight)
	images.MaxWidth = getEnvInt("MAX_IMAGE_WIDTH", images.MaxWidth)
	images.MaxHeight = getEnvInt("MAX_IMAGE_HEIGHT", images.MaxHeight)

	return Config{
		Port:              getEnv("PORT", "8080"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:   normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", "transaction_images/"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		SSEKMSKeyID:       getEnv("SSE_KMS_KEY_ID", ""),
		AuditQueueURL:     getEnv("AUDIT_SQS_QUEUE_URL", ""),
		DatabaseURL:       dbURL,
		Env:               env,
		AuthRequired:      getEnvBool("AUTH_REQUIRED", env == "production"),
		Images:            images,
		SubmitRateLimit:   getEnvFloat("RATE_LIMIT_SUBMIT_RPS", 2),
		SubmitRateBurst:   getEnvInt("RATE_LIMIT_SUBMIT_BURST", 10),
		DefaultPageSize:   getEnvInt("PAGE_SIZE", 35),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		RunMigrationsBoot: getEnvBool("RUN_MIGRATIONS", false),
	}
}

// DefaultImageLimits returns the limits for identity document images.
func DefaultImageLimits() ImageLimits {
	return ImageLimits{
		MaxSizeMB: 4,
		MinWidth:  224,
		MinHeight: 224,
		MaxWidth:  3840,
		MaxHeight: 2160,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config: %s invalid float %q, using %g", key, raw, def)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config: %s invalid bool %q, using %t", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
