// Package scrape drives paginated retrieval against a post source, applies
// post-fetch result filtering, and consults the query cache.
package scrape

import (
	"context"
	"log/slog"

	"github.com/tagpull/tagpull/internal/booru"
	"github.com/tagpull/tagpull/internal/cache"
	"github.com/tagpull/tagpull/internal/config"
	"github.com/tagpull/tagpull/internal/domain"
)

// PostSource fetches one page of posts for a query. Satisfied by
// *booru.Client; tests substitute fakes.
type PostSource interface {
	Posts(ctx context.Context, query string, page, limit int) ([]domain.Post, error)
}

// Engine retrieves bounded, filtered post lists for one subset.
type Engine struct {
	source   PostSource
	store    *cache.Store // nil disables caching
	preserve map[string]struct{}
	pageSize int
	logger   *slog.Logger
}

// NewEngine creates an engine. store may be nil to disable the query cache.
// preserve is the kaomoji token set forwarded to tag parsing.
func NewEngine(source PostSource, store *cache.Store, preserve []string, logger *slog.Logger) *Engine {
	set := make(map[string]struct{}, len(preserve))
	for _, t := range preserve {
		set[t] = struct{}{}
	}
	return &Engine{
		source:   source,
		store:    store,
		preserve: set,
		pageSize: booru.MaxPageSize,
		logger:   logger,
	}
}

// Retrieve returns up to limit post items matching the compiled query.
//
// A cached entry for the query short-circuits the network entirely. Otherwise
// pages are fetched in order until the limit is reached or the source returns
// an empty page; posts without a content hash are dropped, the result filter
// rejects the rest. Any page error aborts the whole retrieval - no partial
// results are returned.
func (e *Engine) Retrieve(ctx context.Context, query string, filter *config.ResultFilter, limit int) ([]*domain.PostItem, error) {
	matcher, err := newResultMatcher(filter)
	if err != nil {
		return nil, err
	}

	if e.store != nil {
		cached, err := e.store.Load(query)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			// The key covers only the query, so a changed result filter must
			// still hold against cached entries.
			kept := cached[:0]
			for _, item := range cached {
				if matcher.Accept(item.RawTags()) {
					kept = append(kept, item)
				}
			}
			return truncate(kept, limit), nil
		}
	}

	var items []*domain.PostItem
	for page := 1; len(items) < limit; page++ {
		posts, err := e.source.Posts(ctx, query, page, e.pageSize)
		if err != nil {
			return nil, err
		}
		if len(posts) == 0 {
			e.logger.Debug("source exhausted", "query", query, "page", page)
			break
		}

		for _, post := range posts {
			if post.MD5 == "" {
				continue
			}
			item := domain.NewPostItem(post, e.preserve)
			if !matcher.Accept(item.RawTags()) {
				continue
			}
			items = append(items, item)
		}
	}

	if e.store != nil {
		if err := e.store.Save(query, items); err != nil {
			return nil, err
		}
	}

	return truncate(items, limit), nil
}

func truncate(items []*domain.PostItem, limit int) []*domain.PostItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// resultMatcher holds the result filter's four token sets, resolved once per
// retrieval.
type resultMatcher struct {
	includeAny map[string]struct{}
	includeAll []string
	excludeAny map[string]struct{}
	excludeAll []string
}

// newResultMatcher resolves the filter's token sources. A nil filter matches
// everything.
func newResultMatcher(filter *config.ResultFilter) (*resultMatcher, error) {
	m := &resultMatcher{}
	if filter == nil {
		return m, nil
	}

	var err error
	if m.includeAny, err = resolveSet(filter.IncludeAny); err != nil {
		return nil, err
	}
	if m.includeAll, err = filter.IncludeAll.Resolve(); err != nil {
		return nil, err
	}
	if m.excludeAny, err = resolveSet(filter.ExcludeAny); err != nil {
		return nil, err
	}
	if m.excludeAll, err = filter.ExcludeAll.Resolve(); err != nil {
		return nil, err
	}
	return m, nil
}

func resolveSet(src config.TokenSource) (map[string]struct{}, error) {
	tokens, err := src.Resolve()
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set, nil
}

// Accept evaluates the four checks in their fixed order, short-circuiting on
// the first rejection: include_any, include_all, exclude_any, exclude_all.
func (m *resultMatcher) Accept(tags []string) bool {
	if len(m.includeAny) > 0 {
		found := false
		for _, t := range tags {
			if _, ok := m.includeAny[t]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(m.includeAll) > 0 {
		have := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			have[t] = struct{}{}
		}
		for _, required := range m.includeAll {
			if _, ok := have[required]; !ok {
				return false
			}
		}
	}

	if len(m.excludeAny) > 0 {
		for _, t := range tags {
			if _, ok := m.excludeAny[t]; ok {
				return false
			}
		}
	}

	if len(m.excludeAll) > 0 {
		have := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			have[t] = struct{}{}
		}
		all := true
		for _, excluded := range m.excludeAll {
			if _, ok := have[excluded]; !ok {
				all = false
				break
			}
		}
		if all {
			return false
		}
	}

	return true
}
