package postgres

import (
	"net/url"
	"strconv"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/config"
)

// DSN renders cfg as a postgres:// URL so credentials with reserved
// characters survive lib/pq's parser.
func DSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:   "/" + cfg.Name,
	}
	switch {
	case cfg.User != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	}

	q := url.Values{}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q.Set("sslmode", sslMode)
	q.Set("application_name", "depgraph")
	u.RawQuery = q.Encode()
	return u.String()
}
