package app

import (
	"net/url"
	"strings"

	"github.com/riskibarqy/challenge-league/internal/config"
)

const maxTracedQueryLength = 512

// postgresDSN accepts both URL (postgres://...) and keyword (host=... dbname=...)
// connection strings.
type postgresDSN struct {
	raw    string
	parsed *url.URL
}

func parsePostgresDSN(raw string) postgresDSN {
	raw = strings.TrimSpace(raw)
	dsn := postgresDSN{raw: raw}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		dsn.parsed = u
	}
	return dsn
}

// connString adds driver options from cfg unless the DSN already sets them.
func (d postgresDSN) connString(cfg config.Config) string {
	params := [][2]string{{"application_name", cfg.ServiceName}}
	if cfg.DBDisablePreparedBinary {
		params = append(params, [2]string{"disable_prepared_binary_result", "yes"})
	}

	if d.parsed == nil {
		out := d.raw
		for _, kv := range params {
			if kv[1] != "" && d.keyword(kv[0]) == "" {
				out += " " + kv[0] + "=" + kv[1]
			}
		}
		return out
	}

	u := *d.parsed
	query := u.Query()
	for _, kv := range params {
		if kv[1] != "" && query.Get(kv[0]) == "" {
			query.Set(kv[0], kv[1])
		}
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func (d postgresDSN) databaseName() string {
	if d.parsed != nil {
		if name := strings.TrimSpace(strings.TrimPrefix(d.parsed.Path, "/")); name != "" {
			return name
		}
	}
	return d.keyword("dbname")
}

func (d postgresDSN) keyword(key string) string {
	for _, token := range strings.Fields(d.raw) {
		if value, ok := strings.CutPrefix(token, key+"="); ok {
			return strings.Trim(value, `"'`)
		}
	}
	return ""
}

// traceQuery collapses whitespace so multi-line SQL fits a span attribute.
func traceQuery(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	if len(normalized) > maxTracedQueryLength {
		return normalized[:maxTracedQueryLength] + "..."
	}
	return normalized
}
