package stream

import (
	"fmt"
	"net/url"
	"strings"
)

// buildURL appends the credential as a token query parameter. With
// websocketScheme set, http(s) schemes are mapped onto ws(s).
func buildURL(rawURL, token string, websocketScheme bool) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse stream url: %w", err)
	}

	if websocketScheme {
		switch u.Scheme {
		case "https":
			u.Scheme = "wss"
		case "http":
			u.Scheme = "ws"
		}
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// redactToken strips the token value out of a URL for logging.
func redactToken(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("token") {
		q.Set("token", "[redacted]")
		u.RawQuery = strings.ReplaceAll(q.Encode(), "%5Bredacted%5D", "[redacted]")
	}
	return u.String()
}
