// Package query compiles structured search filters into the board's
// single-string query grammar. All functions are pure; composition precedence
// across subset and fallback filters lives in Compose.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tagpull/tagpull/internal/config"
	"github.com/tagpull/tagpull/internal/errors"
)

// Score renders a score range clause: score:min..max, score:>=min, or
// score:<=max. Both bounds absent renders nothing.
func Score(min, max *int) string {
	return intRange("score", min, max)
}

// TagCount renders a tagcount range clause.
func TagCount(min, max *int) string {
	return intRange("tagcount", min, max)
}

// Date renders a date range clause from start/end bounds.
func Date(start, end *string) string {
	return strRange("date", start, end)
}

// Age renders an age range clause. Bounds are duration expressions like "3d".
func Age(min, max *string) string {
	return strRange("age", min, max)
}

func intRange(field string, min, max *int) string {
	switch {
	case min == nil && max == nil:
		return ""
	case min == nil:
		return fmt.Sprintf("%s:<=%d", field, *max)
	case max == nil:
		return fmt.Sprintf("%s:>=%d", field, *min)
	default:
		return fmt.Sprintf("%s:%d..%d", field, *min, *max)
	}
}

func strRange(field string, min, max *string) string {
	switch {
	case min == nil && max == nil:
		return ""
	case min == nil:
		return fmt.Sprintf("%s:<=%s", field, *max)
	case max == nil:
		return fmt.Sprintf("%s:>=%s", field, *min)
	default:
		return fmt.Sprintf("%s:%s..%s", field, *min, *max)
	}
}

// Duration renders an age bound as the board expects it: the count followed
// by the unit's initial (e.g. 3 days -> "3d").
func Duration(n int, unit string) (string, error) {
	switch unit {
	case "years", "months", "weeks", "days", "hours", "minutes", "seconds":
		return fmt.Sprintf("%d%c", n, unit[0]), nil
	default:
		return "", errors.Configurationf("unknown age unit: %q", unit)
	}
}

// Filetype renders a filetype clause from a list of extensions; an empty
// list renders nothing.
func Filetype(types []string) string {
	if len(types) == 0 {
		return ""
	}
	return "filetype:" + strings.Join(types, ",")
}

// Order renders a sort order clause. The direction suffix is omitted when
// absent or the literal "none".
func Order(order *config.SortOrder) string {
	if order == nil || order.Type == "" {
		return ""
	}
	q := "order:" + order.Type
	if order.Direction != "" && order.Direction != "none" {
		q += "_" + order.Direction
	}
	return q
}

// Rating renders the rating include/exclude clauses. Each token set is
// normalized to single-letter initials with the aliases sfw -> {g,s} and
// nsfw -> {q,e}; duplicates collapse. Include and exclude sub-clauses are
// space-joined when both present.
func Rating(include, exclude []string) (string, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return "", nil
	}

	render := func(prefix string, tokens []string) (string, error) {
		if len(tokens) == 0 {
			return "", nil
		}
		set, err := expandRatingTokens(tokens)
		if err != nil {
			return "", err
		}
		return prefix + strings.Join(set, ","), nil
	}

	includeQ, err := render("rating:", include)
	if err != nil {
		return "", err
	}
	excludeQ, err := render("-rating:", exclude)
	if err != nil {
		return "", err
	}

	switch {
	case includeQ != "" && excludeQ != "":
		return includeQ + " " + excludeQ, nil
	case includeQ != "":
		return includeQ, nil
	default:
		return excludeQ, nil
	}
}

// expandRatingTokens maps rating tokens to a sorted, de-duplicated set of
// initials. Sorting keeps compiled queries stable so cache keys are too.
func expandRatingTokens(tokens []string) ([]string, error) {
	set := make(map[string]struct{})
	for _, tok := range tokens {
		switch tok {
		case "sfw":
			set["g"] = struct{}{}
			set["s"] = struct{}{}
		case "nsfw":
			set["q"] = struct{}{}
			set["e"] = struct{}{}
		case "g", "s", "q", "e",
			"general", "sensitive", "questionable", "explicit":
			set[tok[:1]] = struct{}{}
		default:
			return nil, errors.Configurationf("unknown rating token: %q", tok)
		}
	}

	out := make([]string, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Strings(out)
	return out, nil
}

// Compose renders a subset filter against its global fallback and appends the
// resulting clauses to the base query.
//
// A disabled filter returns the base query untouched. An explicit filter
// contributes each clause it defines; clauses it leaves nil fall back to the
// global filter's clause. The true shorthand behaves as an empty explicit
// filter, so every clause resolves through the fallback.
func Compose(base string, filter config.Option[config.SearchFilter], fallback config.SearchFilter) (string, error) {
	if filter.State == config.StateDisabled {
		return base, nil
	}

	var f config.SearchFilter
	if filter.State == config.StateExplicit {
		f = *filter.Value
	}

	parts := []string{base}

	if f.Score != nil {
		parts = append(parts, Score(f.Score.Min, f.Score.Max))
	} else if fallback.Score != nil {
		parts = append(parts, Score(fallback.Score.Min, fallback.Score.Max))
	}

	if f.Date != nil {
		parts = append(parts, Date(f.Date.Start, f.Date.End))
	} else if fallback.Date != nil {
		parts = append(parts, Date(fallback.Date.Start, fallback.Date.End))
	}

	if f.Age != nil {
		parts = append(parts, Age(f.Age.Min, f.Age.Max))
	} else if fallback.Age != nil {
		parts = append(parts, Age(fallback.Age.Min, fallback.Age.Max))
	}

	if f.TagCount != nil {
		parts = append(parts, TagCount(f.TagCount.Min, f.TagCount.Max))
	} else if fallback.TagCount != nil {
		parts = append(parts, TagCount(fallback.TagCount.Min, fallback.TagCount.Max))
	}

	if f.Filetypes != nil {
		parts = append(parts, Filetype(f.Filetypes))
	} else if fallback.Filetypes != nil {
		parts = append(parts, Filetype(fallback.Filetypes))
	}

	if f.Order != nil {
		parts = append(parts, Order(f.Order))
	} else if fallback.Order != nil {
		parts = append(parts, Order(fallback.Order))
	}

	rating := f.Rating
	if rating == nil {
		rating = fallback.Rating
	}
	if rating != nil {
		clause, err := Rating(rating.Include, rating.Exclude)
		if err != nil {
			return "", err
		}
		parts = append(parts, clause)
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " "), nil
}
