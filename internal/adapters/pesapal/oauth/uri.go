package oauth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kevin07696/pesapal-merchant/internal/domain"
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// NormalizeURL returns the form of absoluteURL used in signature base strings:
// lowercase scheme and host, default port removed, empty path as "/",
// no query and no fragment.
func NormalizeURL(absoluteURL string) (string, error) {
	u, err := url.Parse(absoluteURL)
	if err != nil {
		return "", domain.WrapError(domain.ErrorCodeMalformedURL, "parse URL", err).
			WithDetail("url", absoluteURL)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return "", domain.NewDomainError(domain.ErrorCodeMalformedURL, "URL needs a scheme and a host").
			WithDetail("url", absoluteURL)
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	port := u.Port()
	if port != "" && defaultPorts[scheme] != port {
		host = fmt.Sprintf("%s:%s", host, port)
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	return scheme + "://" + host + path, nil
}
