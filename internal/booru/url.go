package booru

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tagpull/tagpull/internal/errors"
)

// Domains the post-URL parser accepts.
var recognizedDomains = map[string]struct{}{
	"danbooru.donmai.us":  {},
	"safebooru.donmai.us": {},
}

// ParsePostURL extracts the domain and post id from a post page URL like
// https://danbooru.donmai.us/posts/12345. Only https URLs on recognized
// domains are accepted.
func ParsePostURL(raw string) (string, int, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", 0, errors.InvalidURLf("invalid url: %s", raw).WithCause(err)
	}
	if parsed.Scheme != "https" {
		return "", 0, errors.InvalidURLf("invalid url (not https): %s", raw)
	}
	if _, ok := recognizedDomains[parsed.Host]; !ok {
		return "", 0, errors.InvalidURLf("invalid url (unrecognized domain): %s", raw)
	}

	path := strings.TrimSuffix(parsed.Path, "/")
	idStr := path[strings.LastIndex(path, "/")+1:]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return "", 0, errors.InvalidURLf("invalid url (no post id): %s", raw)
	}

	return parsed.Host, id, nil
}
