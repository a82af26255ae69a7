// Package domain contains the core data types shared across the scraper:
// posts as returned by the board API and the tag-bearing items derived from them.
package domain

// Rating is the board's categorical content rating.
type Rating string

const (
	RatingGeneral      Rating = "g"
	RatingSensitive    Rating = "s"
	RatingQuestionable Rating = "q"
	RatingExplicit     Rating = "e"
)

// Post is one submission as returned by the board API.
// Timestamps are kept as the API's RFC 3339 strings; nothing downstream
// needs them as time values.
type Post struct {
	ID        int    `json:"id"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`

	Score     int    `json:"score"`
	UpScore   int    `json:"up_score"`
	DownScore int    `json:"down_score"`
	FavCount  int    `json:"fav_count"`
	Rating    Rating `json:"rating"`
	Source    string `json:"source"`

	// MD5 is empty for posts whose content is hidden (e.g. takedowns).
	// Such posts are not valid dataset members.
	MD5 string `json:"md5"`

	FileExt     string `json:"file_ext"`
	FileSize    int64  `json:"file_size"`
	ImageWidth  int    `json:"image_width"`
	ImageHeight int    `json:"image_height"`

	FileURL        string `json:"file_url"`
	LargeFileURL   string `json:"large_file_url"`
	PreviewFileURL string `json:"preview_file_url"`

	TagString          string `json:"tag_string"`
	TagStringGeneral   string `json:"tag_string_general"`
	TagStringArtist    string `json:"tag_string_artist"`
	TagStringCharacter string `json:"tag_string_character"`
	TagStringCopyright string `json:"tag_string_copyright"`
	TagStringMeta      string `json:"tag_string_meta"`

	TagCount          int `json:"tag_count"`
	TagCountGeneral   int `json:"tag_count_general"`
	TagCountArtist    int `json:"tag_count_artist"`
	TagCountCharacter int `json:"tag_count_character"`
	TagCountCopyright int `json:"tag_count_copyright"`
	TagCountMeta      int `json:"tag_count_meta"`

	ParentID *int `json:"parent_id"`
	PixivID  *int `json:"pixiv_id"`

	IsPending bool `json:"is_pending"`
	IsFlagged bool `json:"is_flagged"`
	IsDeleted bool `json:"is_deleted"`
	IsBanned  bool `json:"is_banned"`

	HasChildren bool `json:"has_children"`
	HasLarge    bool `json:"has_large"`
}

// DownloadURL returns the best URL for saving the post's image:
// the large variant when the board provides one, otherwise the original.
func (p *Post) DownloadURL() string {
	if p.LargeFileURL != "" {
		return p.LargeFileURL
	}
	return p.FileURL
}
