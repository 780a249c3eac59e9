package apiclient

import (
	"net/url"
	"strings"
)

const redacted = "REDACTED"

// redactURL masks the access token query value so failure diagnostics can be
// logged and printed. URLs without a token are returned unchanged.
func redactURL(raw string) string {
	if !strings.Contains(raw, AccessTokenParam) {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		base, _, _ := strings.Cut(raw, "?")
		return base
	}
	q := u.Query()
	if !q.Has(AccessTokenParam) {
		return raw
	}
	for i := range q[AccessTokenParam] {
		q[AccessTokenParam][i] = redacted
	}
	u.RawQuery = q.Encode()
	return u.String()
}
