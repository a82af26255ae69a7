package config

// Default token lists. These replace tag-list files that earlier revisions
// loaded at import time; constructing them here keeps tests free to substitute
// their own fixtures.

// DefaultKaomojiTags are tokens whose underscores are part of the tag itself
// and must not be rewritten to spaces.
var DefaultKaomojiTags = []string{
	"0_0", "(o)_(o)", "+_+", "+_-", "._.", "<o>_<o>", "<|>_<|>", "=_=",
	">_<", "3_3", "6_9", ">_o", "@_@", "^_^", "o_o", "u_u", "x_x",
	"|_|", "||_||",
}

// DefaultAllowedMetaTags are the meta tags worth keeping in captions; the
// rest (scan info, commentary flags and the like) only add noise.
var DefaultAllowedMetaTags = []string{
	"lowres", "highres", "absurdres", "incredibly absurdres",
	"official art", "game cg", "animated",
}

// DefaultNSFWTags mark a post NSFW in by_tag rating mode.
var DefaultNSFWTags = []string{
	"nude", "completely nude", "topless", "bottomless", "sex", "nipples",
	"pussy", "penis", "cum", "oral", "paizuri", "bar censor", "mosaic censoring",
}

// DefaultNSFWInsertTags are prepended to captions of NSFW posts in by_tag mode.
var DefaultNSFWInsertTags = []string{"nsfw"}

// DefaultPersonTags is the general-tag subset that ordering styles move to
// the front of the caption.
var DefaultPersonTags = []string{
	"1girl", "2girls", "3girls", "4girls", "5girls", "6+girls", "multiple girls",
	"1boy", "2boys", "3boys", "4boys", "5boys", "6+boys", "multiple boys",
	"1other", "2others", "3others", "4others", "5others", "6+others",
	"multiple others", "solo", "no humans",
}

// DefaultFiletypes are the image formats suitable for dataset building.
var DefaultFiletypes = []string{"jpg", "png", "webp", "avif"}

const (
	defaultDomain      = DomainDanbooru
	defaultMaxWorkers  = 10
	defaultCaptionExt  = "txt"
	defaultSeparator   = ", "
	defaultSubsetLimit = 100
)

// DefaultRatingTag returns the recommended rating tag settings: tag-based
// NSFW detection with the built-in token lists.
func DefaultRatingTag() RatingTagConfig {
	return RatingTagConfig{
		Type:       RatingModeByTag,
		NSFWTags:   Tokens(DefaultNSFWTags...),
		InsertTags: Tokens(DefaultNSFWInsertTags...),
		// by_rating fallbacks, used only when the mode is switched.
		Sensitive:    Tokens("sensitive"),
		Questionable: Tokens("questionable"),
		Explicit:     Tokens("explicit"),
	}
}

// DefaultCaption returns the caption settings used when a subset says
// caption: true or nothing overrides the global section.
func DefaultCaption() CaptionConfig {
	return CaptionConfig{
		Extension: defaultCaptionExt,
		Artist:    Disabled[RuleSet](),
		Character: Defaulted[RuleSet](),
		Copyright: Defaulted[RuleSet](),
		General:   Defaulted[RuleSet](),
		Meta: Explicit(RuleSet{
			Keeps: []KeepRule{{Tags: Tokens(DefaultAllowedMetaTags...)}},
		}),
		Rating:            Defaulted[RatingTagConfig](),
		CategorySeparator: defaultSeparator,
		PersonTags:        Tokens(DefaultPersonTags...),
	}
}

// Default returns a Config populated with every fallback the loader merges
// file contents over.
func Default() *Config {
	return &Config{
		Domain:       defaultDomain,
		Caption:      DefaultCaption(),
		SearchFilter: SearchFilter{Filetypes: DefaultFiletypes},
		ResultFilter: ResultFilter{},
		PreserveTags: Tokens(DefaultKaomojiTags...),
		MaxWorkers:   defaultMaxWorkers,
	}
}

// DefaultSubsetLimit is the per-subset post cap when none is configured.
func DefaultSubsetLimit() int {
	return defaultSubsetLimit
}
