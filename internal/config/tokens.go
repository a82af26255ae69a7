package config

import (
	"os"

	"github.com/tagpull/tagpull/internal/errors"
	"github.com/tagpull/tagpull/internal/util"
)

// TokenSource is a rule operand that is either an inline token list or, when
// given as a single string naming an existing file, a reference to a line-
// separated token list on disk. Sources are resolved to concrete token lists
// exactly once, when a pipeline or filter is constructed, so I/O failures
// surface early and rule application stays pure.
type TokenSource struct {
	inline []string
	raw    string
}

// Tokens builds a TokenSource from an inline list.
func Tokens(tags ...string) TokenSource {
	return TokenSource{inline: tags}
}

// TokenRef builds a TokenSource from a single string: a file path if one
// exists at resolution time, otherwise a literal one-element list.
func TokenRef(s string) TokenSource {
	return TokenSource{raw: s}
}

// IsZero reports whether the source was never set.
func (s TokenSource) IsZero() bool {
	return s.inline == nil && s.raw == ""
}

// Resolve returns the concrete token list. A raw string is treated as a file
// reference when a regular file exists at that path, matching the config
// convention that a bare string operand names a tag-list file.
func (s TokenSource) Resolve() ([]string, error) {
	if s.inline != nil {
		return s.inline, nil
	}
	if s.raw == "" {
		return nil, nil
	}

	info, err := os.Stat(s.raw)
	if err == nil && info.Mode().IsRegular() {
		lines, err := util.ReadLines(s.raw)
		if err != nil {
			return nil, errors.Configurationf("read tag list %s", s.raw).WithCause(err)
		}
		return lines, nil
	}

	return []string{s.raw}, nil
}
