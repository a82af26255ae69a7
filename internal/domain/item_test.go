package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func preserveSet(tokens ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func TestParseTagString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		preserve map[string]struct{}
		want     []string
	}{
		{
			name:  "underscores become spaces",
			input: "long_hair blue_eyes smile",
			want:  []string{"long hair", "blue eyes", "smile"},
		},
		{
			name:     "preserved tokens keep underscores",
			input:    "smile ^_^ long_hair",
			preserve: preserveSet("^_^"),
			want:     []string{"smile", "^_^", "long hair"},
		},
		{
			name:  "duplicates collapse",
			input: "smile smile 1girl",
			want:  []string{"smile", "1girl"},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "extra whitespace",
			input: "  1girl   smile ",
			want:  []string{"1girl", "smile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTagString(tt.input, tt.preserve))
		})
	}
}

func TestNewPostItem(t *testing.T) {
	post := Post{
		ID:                 1,
		MD5:                "abc",
		TagStringArtist:    "cool_artist",
		TagStringCharacter: "hatsune_miku",
		TagStringCopyright: "vocaloid",
		TagStringGeneral:   "1girl ^_^ long_hair",
		TagStringMeta:      "highres",
	}

	item := NewPostItem(post, preserveSet("^_^"))

	assert.Equal(t, []string{"cool artist"}, item.ArtistTags)
	assert.Equal(t, []string{"hatsune miku"}, item.CharacterTags)
	assert.Equal(t, []string{"vocaloid"}, item.CopyrightTags)
	assert.Equal(t, []string{"1girl", "^_^", "long hair"}, item.GeneralTags)
	assert.Equal(t, []string{"highres"}, item.MetaTags)

	// Rating and quality groups are never produced by raw parsing.
	assert.Empty(t, item.RatingTags)
	assert.Empty(t, item.QualityTags)
}

func TestPostItem_RawTags(t *testing.T) {
	item := &PostItem{
		ArtistTags:    []string{"a"},
		CharacterTags: []string{"c"},
		CopyrightTags: []string{"cp"},
		GeneralTags:   []string{"g1", "g2"},
		MetaTags:      []string{"m"},
	}

	assert.Equal(t, []string{"a", "c", "cp", "g1", "g2", "m"}, item.RawTags())
}

func TestPost_DownloadURL(t *testing.T) {
	withLarge := Post{FileURL: "https://cdn/orig.png", LargeFileURL: "https://cdn/large.jpg"}
	assert.Equal(t, "https://cdn/large.jpg", withLarge.DownloadURL())

	withoutLarge := Post{FileURL: "https://cdn/orig.png"}
	assert.Equal(t, "https://cdn/orig.png", withoutLarge.DownloadURL())
}
