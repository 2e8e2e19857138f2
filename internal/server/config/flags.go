package config

import (
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/accounts/internal/flagx"
)

// parseFlags overlays values from short command-line flags:
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token HMAC secret
//	-m string   token signing method (HS256, HS384, HS512)
//	-t int      access token validity, minutes
//	-k int      bcrypt cost
//	-l string   log level
//	-o string   CORS allowed origins, comma separated
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket
//	-r string   S3 region
//	-e string   S3 base endpoint
func parseFlags(cfg *Config) {
	fs, args := flagx.NewFlagSet("server", os.Args[1:],
		[]string{"-a", "-d", "-s", "-m", "-t", "-k", "-l", "-o", "-u", "-p", "-b", "-r", "-e"})

	fs.StringVar(&cfg.EndpointAddrHTTP, "a", cfg.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	fs.StringVar(&cfg.SigningAlgorithm, "m", cfg.SigningAlgorithm, "token signing method")
	minutes := fs.Int("t", int(cfg.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.IntVar(&cfg.PasswordHashCost, "k", cfg.PasswordHashCost, "bcrypt cost")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	origins := fs.String("o", strings.Join(cfg.CORSAllowOrigins, ","), "CORS allowed origins")
	fs.StringVar(&cfg.S3RootUser, "u", cfg.S3RootUser, "S3 root user")
	fs.StringVar(&cfg.S3RootPassword, "p", cfg.S3RootPassword, "S3 root password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "r", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AccessTokenValidityDuration = time.Duration(*minutes) * time.Minute
	cfg.CORSAllowOrigins = splitList(*origins)
}
