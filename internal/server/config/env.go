package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays values from the given dotenv files and the process
// environment. Process variables win over file entries; missing files are
// skipped and empty values count as unset.
//
// Recognised variables:
//
//	SERVER_ADDRESS, DATABASE_URL, SECRET_KEY, ALGORITHM,
//	ACCESS_TOKEN_EXPIRE_MINUTES, BCRYPT_COST, LOG_LEVEL,
//	CORS_ALLOW_ORIGINS (comma separated), S3_ROOT_USER, S3_ROOT_PASSWORD,
//	S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
func parseEnv(cfg *Config, files ...string) error {
	vars := map[string]string{}

	for _, f := range files {
		m, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		for k, v := range m {
			vars[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v := vars[key]
		return v, v != ""
	}

	strVars := map[string]*string{
		"SERVER_ADDRESS":   &cfg.EndpointAddrHTTP,
		"DATABASE_URL":     &cfg.DatabaseDSN,
		"SECRET_KEY":       &cfg.SecretKey,
		"ALGORITHM":        &cfg.SigningAlgorithm,
		"LOG_LEVEL":        &cfg.LogLevel,
		"S3_ROOT_USER":     &cfg.S3RootUser,
		"S3_ROOT_PASSWORD": &cfg.S3RootPassword,
		"S3_BUCKET":        &cfg.S3Bucket,
		"S3_REGION":        &cfg.S3Region,
		"S3_BASE_ENDPOINT": &cfg.S3BaseEndpoint,
	}
	for key, dst := range strVars {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES: invalid value %q", v)
		}
		cfg.AccessTokenValidityDuration = time.Duration(n) * time.Minute
	}

	if v, ok := lookup("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: invalid value %q", v)
		}
		cfg.PasswordHashCost = n
	}

	if v, ok := lookup("CORS_ALLOW_ORIGINS"); ok {
		cfg.CORSAllowOrigins = splitList(v)
	}

	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
