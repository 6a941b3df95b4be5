package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"bvapi/internal/models"
)

// Query parameters added to every request.
const (
	ParamAPIVersion = "apiversion"
	ParamPasskey    = "passkey"
)

// BuildURL returns the request URL and, for POST, the form-encoded body.
// GET requests carry params in the query string.
func (c *Client) BuildURL(method string, entityType models.EntityType, params url.Values) (string, string) {
	query := url.Values{}

	var (
		body     string
		endpoint string
	)

	if method == http.MethodPost {
		body = params.Encode()
		endpoint = entityType.SubmitEndpoint()
	} else {
		for k, vs := range params {
			for _, v := range vs {
				query.Add(k, v)
			}
		}

		endpoint = entityType.Plural()
	}

	query.Set(ParamAPIVersion, c.cfg.Version)
	query.Set(ParamPasskey, c.cfg.Key)

	host := c.cfg.Host
	if c.cfg.ProxyHost != "" {
		host = c.cfg.ProxyHost
	}

	staging := ""
	if c.cfg.Staging {
		staging = "/bvstaging"
	}

	virtualEnv := ""
	if c.cfg.VirtualEnv != "" {
		virtualEnv = "/ve/" + c.cfg.VirtualEnv
	}

	return fmt.Sprintf("%s://%s:%d%s%s/data/%s.json?%s",
		c.cfg.Scheme,
		host,
		c.cfg.Port,
		staging,
		virtualEnv,
		endpoint,
		query.Encode(),
	), body
}

// Escape formats values for a filter expression, escaping commas inside values.
func Escape(values ...any) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = strings.ReplaceAll(fmt.Sprint(v), ",", `\,`)
	}

	return strings.Join(escaped, ",")
}

// Filter builds a "field:value1,value2" filter parameter value.
func Filter(field string, values ...any) string {
	return field + ":" + Escape(values...)
}

// redact hides the passkey in URLs written to logs and errors.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	if q.Has(ParamPasskey) {
		q.Set(ParamPasskey, "REDACTED")
		u.RawQuery = q.Encode()
	}

	return u.String()
}
