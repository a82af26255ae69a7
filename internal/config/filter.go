package config

// SearchFilter is the optional set of server-side filter clauses compiled
// into the board's query grammar. Each clause contributes only when present;
// a nil clause in a subset filter falls back to the global filter's clause.
type SearchFilter struct {
	Score     *IntRange     `mapstructure:"score"`
	Date      *DateRange    `mapstructure:"date"`
	Age       *AgeRange     `mapstructure:"age"`
	TagCount  *IntRange     `mapstructure:"tag_count"`
	Filetypes []string      `mapstructure:"filetypes" validate:"omitempty,dive,oneof=jpg png gif webm mp4 swf zip webp avif"`
	Order     *SortOrder    `mapstructure:"order"`
	Rating    *RatingFilter `mapstructure:"rating"`
}

// IntRange is an optional numeric range; nil bounds are open.
type IntRange struct {
	Min *int `mapstructure:"min"`
	Max *int `mapstructure:"max"`
}

// DateRange is an optional date range. Bounds are passed through to the
// query grammar verbatim (the board accepts several date spellings).
type DateRange struct {
	Start *string `mapstructure:"start"`
	End   *string `mapstructure:"end"`
}

// AgeRange is an optional post-age range. Bounds are duration expressions
// like "3d" or "1w" (integer plus the initial of years, months, weeks, days,
// hours, minutes, or seconds).
type AgeRange struct {
	Min *string `mapstructure:"min"`
	Max *string `mapstructure:"max"`
}

// SortOrder selects the server-side result ordering. In config it may be a
// bare string (just the type) or an object with a direction.
type SortOrder struct {
	Type      string `mapstructure:"type" validate:"omitempty,oneof=score rank upvotes downvotes id"`
	Direction string `mapstructure:"direction" validate:"omitempty,oneof=asc desc none"`
}

// RatingFilter includes or excludes rating categories. Tokens may be full
// names, single-letter initials, or the aliases sfw and nsfw.
type RatingFilter struct {
	Include []string `mapstructure:"include" validate:"omitempty,dive,oneof=g s q e general sensitive questionable explicit sfw nsfw"`
	Exclude []string `mapstructure:"exclude" validate:"omitempty,dive,oneof=g s q e general sensitive questionable explicit sfw nsfw"`
}

// ResultFilter is applied after retrieval against the union of a post's raw
// tag groups. Checks run in declaration order and short-circuit on the first
// rejection.
type ResultFilter struct {
	IncludeAny TokenSource `mapstructure:"include_any"`
	IncludeAll TokenSource `mapstructure:"include_all"`
	ExcludeAny TokenSource `mapstructure:"exclude_any"`
	ExcludeAll TokenSource `mapstructure:"exclude_all"`
}
