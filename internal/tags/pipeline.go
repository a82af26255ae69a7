// Package tags converts a post's raw tag groups into final caption text:
// ordered rewrite rules per group, an optional common pass, synthesized
// rating and quality tags, and style-selectable caption rendering.
package tags

import (
	"sort"

	"github.com/tagpull/tagpull/internal/config"
	"github.com/tagpull/tagpull/internal/domain"
	"github.com/tagpull/tagpull/internal/errors"
)

// Pipeline is a compiled caption configuration. Construction resolves every
// token-list operand exactly once; a Pipeline is read-only afterwards and
// safe for concurrent use across post items.
type Pipeline struct {
	artist    groupRules
	character groupRules
	copyright groupRules
	general   groupRules
	meta      groupRules

	common    *groupRules // nil when no common pass is configured
	rating    ratingRule
	quality   []qualityLevel
	separator string
	order     string
	person    map[string]struct{}
}

type qualityLevel struct {
	tag      string
	minScore int
}

// NewPipeline compiles a caption config. Token-list files are read here, so
// resolution failures surface before any post is processed.
func NewPipeline(cfg config.CaptionConfig) (*Pipeline, error) {
	p := &Pipeline{
		separator: cfg.CategorySeparator,
		order:     cfg.CategoryOrder,
	}
	if p.separator == "" {
		p.separator = ", "
	}

	var err error
	if p.artist, err = compileGroup(cfg.Artist); err != nil {
		return nil, err
	}
	if p.character, err = compileGroup(cfg.Character); err != nil {
		return nil, err
	}
	if p.copyright, err = compileGroup(cfg.Copyright); err != nil {
		return nil, err
	}
	if p.general, err = compileGroup(cfg.General); err != nil {
		return nil, err
	}
	if p.meta, err = compileGroup(cfg.Meta); err != nil {
		return nil, err
	}

	if cfg.Common.State != config.StateUnset {
		common, err := compileGroup(cfg.Common)
		if err != nil {
			return nil, err
		}
		p.common = &common
	}

	if p.rating, err = compileRating(cfg.Rating); err != nil {
		return nil, err
	}

	// Quality thresholds ordered descending so the highest one the score
	// meets wins; ties break on tag name for determinism.
	for tag, score := range cfg.Quality {
		p.quality = append(p.quality, qualityLevel{tag: tag, minScore: score})
	}
	sort.Slice(p.quality, func(i, j int) bool {
		if p.quality[i].minScore != p.quality[j].minScore {
			return p.quality[i].minScore > p.quality[j].minScore
		}
		return p.quality[i].tag < p.quality[j].tag
	})

	if p.person, err = resolveSet(cfg.PersonTags); err != nil {
		return nil, err
	}

	return p, nil
}

// Apply transforms the item's tag groups in place and returns it.
//
// Order is a contract, not an accident: per-group rules run first, then the
// common pass, and only then are rating tags derived from the resulting
// general tags, so common rules that rewrite general tags affect NSFW
// detection. Quality tags depend only on the post's score.
func (p *Pipeline) Apply(item *domain.PostItem) (*domain.PostItem, error) {
	item.ArtistTags = p.artist.apply(item.ArtistTags)
	item.CharacterTags = p.character.apply(item.CharacterTags)
	item.CopyrightTags = p.copyright.apply(item.CopyrightTags)
	item.GeneralTags = p.general.apply(item.GeneralTags)
	item.MetaTags = p.meta.apply(item.MetaTags)

	if p.common != nil {
		item.ArtistTags = p.common.apply(item.ArtistTags)
		item.CharacterTags = p.common.apply(item.CharacterTags)
		item.CopyrightTags = p.common.apply(item.CopyrightTags)
		item.GeneralTags = p.common.apply(item.GeneralTags)
		item.MetaTags = p.common.apply(item.MetaTags)
	}

	ratingTags, err := p.rating.apply(item.GeneralTags, item.Post.Rating)
	if err != nil {
		return nil, err
	}
	item.RatingTags = ratingTags
	item.QualityTags = p.qualityTags(item.Post.Score)

	return item, nil
}

// qualityTags returns at most one tag: the highest threshold the score meets.
func (p *Pipeline) qualityTags(score int) []string {
	for _, q := range p.quality {
		if score >= q.minScore {
			return []string{q.tag}
		}
	}
	return nil
}

// ratingRule is the resolved rating tag synthesis config.
type ratingRule struct {
	mode     string
	nsfw     map[string]struct{}
	insert   []string
	byRating map[domain.Rating][]string
}

func compileRating(opt config.Option[config.RatingTagConfig]) (ratingRule, error) {
	var cfg config.RatingTagConfig
	switch opt.State {
	case config.StateDisabled:
		return ratingRule{mode: config.RatingModeNone}, nil
	case config.StateExplicit:
		cfg = *opt.Value
	default:
		cfg = config.DefaultRatingTag()
	}

	mode := cfg.Type
	if mode == "" {
		mode = config.RatingModeByTag
	}

	r := ratingRule{mode: mode}

	var err error
	if r.nsfw, err = resolveSet(cfg.NSFWTags); err != nil {
		return r, err
	}
	if r.insert, err = cfg.InsertTags.Resolve(); err != nil {
		return r, err
	}

	r.byRating = make(map[domain.Rating][]string, 4)
	for rating, src := range map[domain.Rating]config.TokenSource{
		domain.RatingGeneral:      cfg.General,
		domain.RatingSensitive:    cfg.Sensitive,
		domain.RatingQuestionable: cfg.Questionable,
		domain.RatingExplicit:     cfg.Explicit,
	} {
		tokens, err := src.Resolve()
		if err != nil {
			return r, err
		}
		if len(tokens) > 0 {
			r.byRating[rating] = tokens
		}
	}

	return r, nil
}

// apply synthesizes the rating tag group from the transformed general tags
// and the post's categorical rating.
func (r ratingRule) apply(generalTags []string, rating domain.Rating) ([]string, error) {
	switch r.mode {
	case config.RatingModeNone:
		return nil, nil

	case config.RatingModeByTag:
		for _, tag := range generalTags {
			if _, ok := r.nsfw[tag]; ok {
				return r.insert, nil
			}
		}
		return nil, nil

	case config.RatingModeByRating:
		switch rating {
		case domain.RatingGeneral, domain.RatingSensitive,
			domain.RatingQuestionable, domain.RatingExplicit:
			return r.byRating[rating], nil
		default:
			return nil, errors.Configurationf("invalid post rating: %q", rating)
		}

	default:
		return nil, errors.Configurationf("unknown rating tag mode: %q", r.mode)
	}
}
