package booru

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagpull/tagpull/internal/errors"
)

func TestParsePostURL(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantDomain string
		wantID     int
		wantErr    bool
	}{
		{"danbooru", "https://danbooru.donmai.us/posts/12345", "danbooru.donmai.us", 12345, false},
		{"safebooru", "https://safebooru.donmai.us/posts/777", "safebooru.donmai.us", 777, false},
		{"trailing slash", "https://danbooru.donmai.us/posts/42/", "danbooru.donmai.us", 42, false},
		{"not https", "http://danbooru.donmai.us/posts/12345", "", 0, true},
		{"unrecognized domain", "https://example.com/posts/12345", "", 0, true},
		{"no post id", "https://danbooru.donmai.us/posts/latest", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dom, id, err := ParsePostURL(tt.url)
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDomain, dom)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
