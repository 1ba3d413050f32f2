package db

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/diewo77/paytrack/internal/config"
)

var (
	kvPairRegex   = regexp.MustCompile(`(?i)\b(host|user|password|dbname|port|sslmode)=`)
	kvPassword    = regexp.MustCompile(`(?i)(password=)(\S+)`)
	urlCredential = regexp.MustCompile(`^(postgres(?:ql)?://[^:/@]+:)([^@]+)(@)`)
)

// NormalizeDSN accepts either a URL style DSN (postgres://...) or a key=value list.
// It trims quotes and whitespace and adds sslmode=disable to a key=value list
// that has none.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	// not key=value pairs either: leave it to the driver to complain
	if !kvPairRegex.MatchString(s) {
		return s
	}
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

// MaskDSN hides the password of either DSN form for logging.
func MaskDSN(dsn string) string {
	masked := kvPassword.ReplaceAllString(dsn, `${1}***`)
	return urlCredential.ReplaceAllString(masked, `${1}***${3}`)
}

// ToURLDSN converts a key=value DSN into the postgres:// URL form golang-migrate
// expects. URL input is returned as is, and so is a key=value list missing
// host, user or dbname, leaving the migration driver to report it.
func ToURLDSN(dsn string) string {
	lower := strings.ToLower(dsn)
	if dsn == "" || strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return dsn
	}
	kv := map[string]string{}
	for _, part := range strings.Fields(dsn) {
		k, v, ok := strings.Cut(part, "=")
		if ok {
			kv[strings.ToLower(k)] = v
		}
	}
	host, user, dbname := kv["host"], kv["user"], kv["dbname"]
	if host == "" || user == "" || dbname == "" {
		return dsn
	}
	u := &url.URL{Scheme: "postgres", Host: host, Path: "/" + dbname}
	if port := kv["port"]; port != "" {
		u.Host = host + ":" + port
	}
	if pass, ok := kv["password"]; ok && pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	if sslmode := kv["sslmode"]; sslmode != "" {
		u.RawQuery = url.Values{"sslmode": {sslmode}}.Encode()
	}
	return u.String()
}

// MigrationURL is the URL form of the DSN that Open connects with.
func MigrationURL(cfg config.DatabaseConfig) string {
	return ToURLDSN(NormalizeDSN(cfg.DSN()))
}
