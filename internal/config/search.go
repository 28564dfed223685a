package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidSearchURL = errors.New("invalid search url")

// ValidateSearchURL checks that raw points at the configured search domain
// and carries every required query parameter.
func (c *Config) ValidateSearchURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSearchURL, err)
	}
	if c.Site.SearchDomain != "" && !strings.Contains(u.Host, c.Site.SearchDomain) {
		return fmt.Errorf("%w: host %q is not on %s", ErrInvalidSearchURL, u.Host, c.Site.SearchDomain)
	}
	q := u.Query()
	for _, p := range c.Site.RequiredParams {
		if !q.Has(p) {
			return fmt.Errorf("%w: missing %q parameter", ErrInvalidSearchURL, p)
		}
	}
	return nil
}

// Keyword returns the keywords query parameter of a search URL, or "".
func Keyword(searchURL string) string {
	u, err := url.Parse(searchURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("keywords")
}
