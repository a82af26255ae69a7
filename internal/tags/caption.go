package tags

import (
	"strings"

	"github.com/tagpull/tagpull/internal/domain"
)

// Caption ordering styles. Styles that pull person tags (1girl, solo, ...)
// to the front follow the prompt conventions of the models they are named
// after; the default keeps the board's category order.
const (
	OrderWD            = "wd"
	OrderNAIDv3        = "naidv3"
	OrderAnimagineXLv3 = "animaginexlv3"
)

// Caption renders the item's transformed groups into one caption line.
// Groups are concatenated in the pipeline's ordering style, blank tokens are
// dropped, and empty groups contribute nothing.
func (p *Pipeline) Caption(item *domain.PostItem) string {
	var groups [][]string

	switch p.order {
	case OrderNAIDv3:
		person, rest := p.splitPerson(item.GeneralTags)
		groups = [][]string{
			person,
			item.CharacterTags,
			item.CopyrightTags,
			item.ArtistTags,
			rest,
			item.RatingTags,
			item.QualityTags,
			item.MetaTags,
		}
	case OrderAnimagineXLv3:
		person, rest := p.splitPerson(item.GeneralTags)
		groups = [][]string{
			person,
			item.CharacterTags,
			item.CopyrightTags,
			rest,
			item.ArtistTags,
			item.RatingTags,
			item.QualityTags,
			item.MetaTags,
		}
	default: // "" and OrderWD
		groups = [][]string{
			item.RatingTags,
			item.QualityTags,
			item.ArtistTags,
			item.CharacterTags,
			item.CopyrightTags,
			item.GeneralTags,
			item.MetaTags,
		}
	}

	var tokens []string
	for _, group := range groups {
		for _, tok := range group {
			if strings.TrimSpace(tok) == "" {
				continue
			}
			tokens = append(tokens, tok)
		}
	}

	return strings.Join(tokens, p.separator)
}

// splitPerson partitions general tags into the person subset and the rest,
// preserving relative order within each part.
func (p *Pipeline) splitPerson(generalTags []string) (person, rest []string) {
	for _, tok := range generalTags {
		if _, ok := p.person[tok]; ok {
			person = append(person, tok)
		} else {
			rest = append(rest, tok)
		}
	}
	return person, rest
}
