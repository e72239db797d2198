package enrich

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var idnaProfile = idna.Lookup

// ValidateWebsite checks that website is an absolute http(s) URL with a host.
func ValidateWebsite(website string) error {
	if strings.TrimSpace(website) == "" {
		return ErrMissingWebsite
	}
	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return ErrInvalidWebsite
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return nil
	default:
		return ErrInvalidWebsite
	}
}

// TargetKey canonicalizes website so equivalent spellings of the same page share a key.
// The scheme and host are lowercased and the host is converted to its ASCII form.
func TargetKey(website string) string {
	u, err := url.Parse(strings.TrimSpace(website))
	if err != nil || u.Host == "" {
		return strings.TrimSpace(website)
	}
	host := strings.ToLower(u.Hostname())
	if ascii, err := idnaProfile.ToASCII(host); err == nil && ascii != "" {
		host = ascii
	}
	if port := u.Port(); port != "" {
		host = host + ":" + port
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = host
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}
