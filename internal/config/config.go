package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// Batch run reports (CSV) are written here when enabled.
	EnableReports  bool
	ReportBasePath string

	AuthSecret    string
	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOrigins []string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:       addr,
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		EnableReports:  envBool("ENABLE_REPORTS", true),
		ReportBasePath: envOr("REPORT_BASE_PATH", "./data"),
		AuthSecret:     envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:      envOr("ADMIN_USER", "admin"),
		AdminPassHash:  envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
