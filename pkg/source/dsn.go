package source

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"piilog-hq/piilog/pkg/config"
)

// DSN builds the data source name for cfg.Driver.
func DSN(cfg *config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case "mysql":
		return mysqlDSN(cfg), nil
	case "pgx":
		return postgresDSN(cfg), nil
	case "sqlite":
		// modernc.org/sqlite takes pragmas as _pragma=name(value).
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=query_only(1)",
			cfg.Path, cfg.ConnectTimeout.Milliseconds()), nil
	case "sqlite3":
		// mattn/go-sqlite3 uses underscore-prefixed connection parameters.
		return fmt.Sprintf("file:%s?_busy_timeout=%d&_query_only=1",
			cfg.Path, cfg.ConnectTimeout.Milliseconds()), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

func mysqlDSN(cfg *config.DatabaseConfig) string {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.Timeout = cfg.ConnectTimeout
	return mc.FormatDSN()
}

func postgresDSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}

	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(cfg.ConnectTimeout.Seconds())))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
