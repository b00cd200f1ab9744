package canon

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/purell"
)

// ErrMalformedURL is returned when a URL cannot be canonicalized.
var ErrMalformedURL = errors.New("malformed url")

const flags = purell.FlagsUsuallySafeGreedy |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveFragment |
	purell.FlagRemoveWWW

// Normalize returns the canonical form of raw.
func Normalize(raw string) (string, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty", ErrMalformedURL)
	}
	// debian vcs fields may carry a trailing "-b branch"
	s := fields[0]

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if u.Hostname() == "" || !strings.Contains(u.Hostname(), ".") {
		return "", fmt.Errorf("%w: no host in %q", ErrMalformedURL, raw)
	}

	n := purell.NormalizeURL(u, flags)
	n = strings.TrimPrefix(n, strings.ToLower(u.Scheme)+"://")
	n = strings.TrimSuffix(n, "/")
	n = strings.TrimSuffix(n, ".git")
	n = strings.TrimSuffix(n, "/")

	return n, nil
}

// IsCanonical reports whether u is already in canonical form.
func IsCanonical(u string) bool {
	n, err := Normalize(u)
	return err == nil && n == u
}

// IsGitHub reports whether a canonical URL points at github.com.
func IsGitHub(u string) bool {
	return strings.HasPrefix(u, "github.com/")
}
