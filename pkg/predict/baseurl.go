package predict

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DevPort is where a locally running backend listens.
const DevPort = "8000"

var loopbackPattern = regexp.MustCompile(`localhost|127\.0\.0\.1`)

// ResolveBaseURL derives the service URL from the origin serving the forms.
// Loopback origins target the development port on the same host, anything
// else is treated as a same-origin deployment.
func ResolveBaseURL(origin string) (string, error) {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return "", fmt.Errorf("predict: origin is required")
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("predict: parse origin %q: %w", origin, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("predict: origin %q must include scheme and host", origin)
	}
	if loopbackPattern.MatchString(origin) {
		return parsed.Scheme + "://" + hostWithPort(parsed.Hostname(), DevPort), nil
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

func hostWithPort(host, port string) string {
	if strings.Contains(host, ":") {
		return "[" + host + "]:" + port
	}
	return host + ":" + port
}
