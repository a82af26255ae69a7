package tags

import (
	"github.com/tagpull/tagpull/internal/config"
	"github.com/tagpull/tagpull/internal/errors"
)

type groupMode int

const (
	modePassthrough groupMode = iota // true shorthand: raw tokens unchanged
	modeDrop                         // false shorthand: empty group
	modeApply                        // explicit rule set
)

// groupRules is one tag group's resolved rule set. All token operands are
// resolved at construction; application is pure list manipulation.
type groupRules struct {
	mode     groupMode
	replaces []replaceRule
	keeps    []map[string]struct{}
	deletes  []map[string]struct{}
	inserts  []insertRule
}

type replaceRule struct {
	from map[string]struct{}
	to   string
}

type insertRule struct {
	tokens  []string
	atStart bool
}

// compileGroup resolves a boolean-or-ruleset option into executable rules.
// The unset state passes tokens through, same as the true shorthand.
func compileGroup(opt config.Option[config.RuleSet]) (groupRules, error) {
	switch opt.State {
	case config.StateDisabled:
		return groupRules{mode: modeDrop}, nil
	case config.StateExplicit:
		return compileRuleSet(*opt.Value)
	default:
		return groupRules{mode: modePassthrough}, nil
	}
}

func compileRuleSet(rs config.RuleSet) (groupRules, error) {
	g := groupRules{mode: modeApply}

	for _, r := range rs.Replaces {
		from, err := resolveSet(r.Tags)
		if err != nil {
			return g, err
		}
		g.replaces = append(g.replaces, replaceRule{from: from, to: r.To})
	}
	for _, r := range rs.Keeps {
		set, err := resolveSet(r.Tags)
		if err != nil {
			return g, err
		}
		g.keeps = append(g.keeps, set)
	}
	for _, r := range rs.Deletes {
		set, err := resolveSet(r.Tags)
		if err != nil {
			return g, err
		}
		g.deletes = append(g.deletes, set)
	}
	for _, r := range rs.Inserts {
		tokens, err := r.Tags.Resolve()
		if err != nil {
			return g, err
		}
		switch r.Position {
		case "", "start":
			g.inserts = append(g.inserts, insertRule{tokens: tokens, atStart: true})
		case "end":
			g.inserts = append(g.inserts, insertRule{tokens: tokens})
		default:
			return g, errors.Configurationf("invalid insert position: %q", r.Position)
		}
	}

	return g, nil
}

func resolveSet(src config.TokenSource) (map[string]struct{}, error) {
	tokens, err := src.Resolve()
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set, nil
}

// apply runs the group's rules over the tokens: replace, keep, delete,
// insert, with rules within a kind in configuration order.
func (g groupRules) apply(tokens []string) []string {
	switch g.mode {
	case modePassthrough:
		return tokens
	case modeDrop:
		return nil
	}

	out := make([]string, len(tokens))
	copy(out, tokens)

	for _, r := range g.replaces {
		for i, tok := range out {
			if _, ok := r.from[tok]; ok {
				out[i] = r.to
			}
		}
	}

	for _, keep := range g.keeps {
		kept := out[:0]
		for _, tok := range out {
			if _, ok := keep[tok]; ok {
				kept = append(kept, tok)
			}
		}
		out = kept
	}

	for _, del := range g.deletes {
		kept := out[:0]
		for _, tok := range out {
			if _, ok := del[tok]; !ok {
				kept = append(kept, tok)
			}
		}
		out = kept
	}

	for _, ins := range g.inserts {
		if ins.atStart {
			out = append(append([]string{}, ins.tokens...), out...)
		} else {
			out = append(out, ins.tokens...)
		}
	}

	return out
}
