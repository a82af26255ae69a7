package config

// CaptionConfig controls how tag groups become caption text for one subset.
type CaptionConfig struct {
	Extension string `mapstructure:"extension"`
	Overwrite bool   `mapstructure:"overwrite"`

	// Per-group rule sets. Boolean shorthands: true keeps the group's raw
	// tokens, false drops the group entirely.
	Artist    Option[RuleSet] `mapstructure:"artist"`
	Character Option[RuleSet] `mapstructure:"character"`
	Copyright Option[RuleSet] `mapstructure:"copyright"`
	General   Option[RuleSet] `mapstructure:"general"`
	Meta      Option[RuleSet] `mapstructure:"meta"`

	// Common is applied to all five groups after their individual rule sets.
	Common Option[RuleSet] `mapstructure:"common"`

	Rating Option[RatingTagConfig] `mapstructure:"rating"`

	// Quality maps a quality tag to the minimum score it requires. The
	// highest threshold the post's score meets wins; at most one tag is
	// emitted.
	Quality map[string]int `mapstructure:"quality"`

	CategorySeparator string `mapstructure:"category_separator"`
	CategoryOrder     string `mapstructure:"category_order" validate:"omitempty,oneof=wd naidv3 animaginexlv3"`

	// PersonTags is the general-tag subset (1girl, 2boys, solo, ...) that
	// ordering styles may pull to the front of the caption.
	PersonTags TokenSource `mapstructure:"person_tags"`
}

// RuleSet is an ordered list of caption rewrite rules for one tag group.
// Kinds always apply replace, keep, delete, insert in that order; rules
// within a kind apply in configuration order.
type RuleSet struct {
	Replaces []ReplaceRule `mapstructure:"replaces"`
	Keeps    []KeepRule    `mapstructure:"keeps"`
	Deletes  []DeleteRule  `mapstructure:"deletes"`
	Inserts  []InsertRule  `mapstructure:"inserts" validate:"omitempty,dive"`
}

// ReplaceRule rewrites every token matching Tags to To, token for token.
type ReplaceRule struct {
	Tags TokenSource `mapstructure:"tags"`
	To   string      `mapstructure:"to"`
}

// KeepRule drops every token not in Tags.
type KeepRule struct {
	Tags TokenSource `mapstructure:"tags"`
}

// DeleteRule drops every token in Tags.
type DeleteRule struct {
	Tags TokenSource `mapstructure:"tags"`
}

// InsertRule adds literal tokens at the start or end of the group.
type InsertRule struct {
	Tags     TokenSource `mapstructure:"tags"`
	Position string      `mapstructure:"position" validate:"omitempty,oneof=start end"`
}

// Rating tag synthesis modes.
const (
	RatingModeNone     = "none"
	RatingModeByTag    = "by_tag"
	RatingModeByRating = "by_rating"
)

// RatingTagConfig controls the synthesized rating tag group.
type RatingTagConfig struct {
	Type string `mapstructure:"type" validate:"omitempty,oneof=none by_tag by_rating"`

	// by_tag: when any transformed general tag is in NSFWTags, emit InsertTags.
	NSFWTags   TokenSource `mapstructure:"nsfw_tags"`
	InsertTags TokenSource `mapstructure:"insert_tags"`

	// by_rating: tokens emitted per categorical rating; an unset mapping
	// emits nothing for that rating.
	General      TokenSource `mapstructure:"general"`
	Sensitive    TokenSource `mapstructure:"sensitive"`
	Questionable TokenSource `mapstructure:"questionable"`
	Explicit     TokenSource `mapstructure:"explicit"`
}
