package domain

import "strings"

// PostItem is a Post together with its parsed tag groups. The five raw groups
// are populated at construction; RatingTags and QualityTags are synthesized
// later by the caption pipeline and are never produced by raw parsing.
//
// A PostItem belongs to exactly one pipeline run; it is mutated in place by
// the pipeline and must not be shared across concurrent runs.
type PostItem struct {
	Post Post `json:"post"`

	ArtistTags    []string `json:"artist_tags"`
	CharacterTags []string `json:"character_tags"`
	CopyrightTags []string `json:"copyright_tags"`
	GeneralTags   []string `json:"general_tags"`
	MetaTags      []string `json:"meta_tags"`

	RatingTags  []string `json:"rating_tags"`
	QualityTags []string `json:"quality_tags"`
}

// NewPostItem builds a PostItem from a fetched post. preserve holds tokens
// (kaomoji) whose underscores must survive the underscore-to-space rewrite.
func NewPostItem(post Post, preserve map[string]struct{}) *PostItem {
	return &PostItem{
		Post:          post,
		ArtistTags:    ParseTagString(post.TagStringArtist, preserve),
		CharacterTags: ParseTagString(post.TagStringCharacter, preserve),
		CopyrightTags: ParseTagString(post.TagStringCopyright, preserve),
		GeneralTags:   ParseTagString(post.TagStringGeneral, preserve),
		MetaTags:      ParseTagString(post.TagStringMeta, preserve),
	}
}

// RawTags returns the union of the five raw tag groups, in group order.
// Used by the result filter, which matches against every group at once.
func (it *PostItem) RawTags() []string {
	tags := make([]string, 0,
		len(it.ArtistTags)+len(it.CharacterTags)+len(it.CopyrightTags)+len(it.GeneralTags)+len(it.MetaTags))
	tags = append(tags, it.ArtistTags...)
	tags = append(tags, it.CharacterTags...)
	tags = append(tags, it.CopyrightTags...)
	tags = append(tags, it.GeneralTags...)
	tags = append(tags, it.MetaTags...)
	return tags
}

// ParseTagString splits a space-separated tag string into distinct
// human-readable tokens. Underscores are the board's word joiner and become
// spaces, except for tokens in preserve (kaomoji like "^_^"), which are kept
// verbatim.
func ParseTagString(s string, preserve map[string]struct{}) []string {
	if s == "" {
		return nil
	}

	fields := strings.Fields(s)
	tags := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, tok := range fields {
		if _, ok := preserve[tok]; !ok {
			tok = strings.ReplaceAll(tok, "_", " ")
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tags = append(tags, tok)
	}

	return tags
}
