package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Chat platform integration.
	NotifyBaseURL string // messaging API root, e.g. https://api.line.me/v2/bot
	NotifyToken   string // channel access token; empty disables delivery
	VerifyURL     string // identity token verify endpoint; empty disables verification
	ChannelID     string // expected token audience
	AppLink       string // deep link into the staff mini-app, used in chat menus

	// Proof image upload gateway.
	UploadURL     string
	DriveFolderID string
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "carelink"),
		MySQLUser: getenv("MYSQL_USER", "carelink"),
		MySQLPass: getenv("MYSQL_PASS", "carelink"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,

		NotifyBaseURL: getenv("NOTIFY_BASE_URL", "https://api.line.me/v2/bot"),
		NotifyToken:   os.Getenv("NOTIFY_CHANNEL_TOKEN"),
		VerifyURL:     os.Getenv("VERIFY_URL"),
		ChannelID:     os.Getenv("CHANNEL_ID"),
		AppLink:       os.Getenv("APP_LINK"),

		UploadURL:     os.Getenv("UPLOAD_URL"),
		DriveFolderID: os.Getenv("DRIVE_FOLDER_ID"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
