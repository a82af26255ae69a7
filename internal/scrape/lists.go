package scrape

import (
	"strings"

	"github.com/tagpull/tagpull/internal/errors"
	"github.com/tagpull/tagpull/internal/util"
)

// LoadQueryList reads a query-per-line file. Spaces inside a line are the
// human spelling of multi-word tags and are rejoined with underscores.
func LoadQueryList(path string) ([]string, error) {
	lines, err := util.ReadLines(path)
	if err != nil {
		return nil, errors.Configurationf("read query list %s", path).WithCause(err)
	}
	queries := make([]string, len(lines))
	for i, line := range lines {
		queries[i] = strings.ReplaceAll(line, " ", "_")
	}
	return queries, nil
}

// LoadURLList reads a post-URL-per-line file.
func LoadURLList(path string) ([]string, error) {
	urls, err := util.ReadLines(path)
	if err != nil {
		return nil, errors.Configurationf("read url list %s", path).WithCause(err)
	}
	return urls, nil
}
