package scrape

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagpull/tagpull/internal/cache"
	"github.com/tagpull/tagpull/internal/config"
	"github.com/tagpull/tagpull/internal/domain"
	"github.com/tagpull/tagpull/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSource serves pre-built pages and counts fetches.
type fakeSource struct {
	pages [][]domain.Post
	calls int
	err   error
}

func (f *fakeSource) Posts(_ context.Context, _ string, page, _ int) ([]domain.Post, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if page-1 < len(f.pages) {
		return f.pages[page-1], nil
	}
	return nil, nil
}

func post(id int, general string) domain.Post {
	return domain.Post{ID: id, MD5: "hash", TagStringGeneral: general, FileExt: "jpg"}
}

func makePage(startID, n int) []domain.Post {
	page := make([]domain.Post, n)
	for i := range page {
		page[i] = post(startID+i, "1girl")
	}
	return page
}

func TestRetrieve_StopsAtLimit(t *testing.T) {
	source := &fakeSource{pages: [][]domain.Post{makePage(1, 200), makePage(201, 200)}}
	engine := NewEngine(source, nil, nil, testLogger())

	items, err := engine.Retrieve(context.Background(), "1girl", nil, 150)
	require.NoError(t, err)

	assert.Len(t, items, 150, "never more than the limit")
	assert.Equal(t, 1, source.calls, "the first page already covers the limit")
}

func TestRetrieve_SourceExhausted(t *testing.T) {
	source := &fakeSource{pages: [][]domain.Post{makePage(1, 30)}}
	engine := NewEngine(source, nil, nil, testLogger())

	items, err := engine.Retrieve(context.Background(), "obscure tag", nil, 100)
	require.NoError(t, err)

	assert.Len(t, items, 30, "fewer than limit only when a page came back empty")
	assert.Equal(t, 2, source.calls, "one full page, one empty page")
}

func TestRetrieve_DropsPostsWithoutContentHash(t *testing.T) {
	hidden := post(2, "1girl")
	hidden.MD5 = ""
	source := &fakeSource{pages: [][]domain.Post{{post(1, "1girl"), hidden, post(3, "1girl")}}}
	engine := NewEngine(source, nil, nil, testLogger())

	items, err := engine.Retrieve(context.Background(), "1girl", nil, 10)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Post.ID)
	assert.Equal(t, 3, items[1].Post.ID)
}

func TestRetrieve_ResultFilter(t *testing.T) {
	pages := [][]domain.Post{{
		post(1, "1girl smile"),
		post(2, "1girl violence"),
		post(3, "1girl smile flower"),
	}}

	tests := []struct {
		name    string
		filter  config.ResultFilter
		wantIDs []int
	}{
		{
			name:    "exclude_any rejects any match",
			filter:  config.ResultFilter{ExcludeAny: config.Tokens("violence")},
			wantIDs: []int{1, 3},
		},
		{
			name:    "include_any requires an intersection",
			filter:  config.ResultFilter{IncludeAny: config.Tokens("flower", "violence")},
			wantIDs: []int{2, 3},
		},
		{
			name:    "include_all requires every tag",
			filter:  config.ResultFilter{IncludeAll: config.Tokens("1girl", "smile")},
			wantIDs: []int{1, 3},
		},
		{
			name:    "exclude_all rejects only the full set",
			filter:  config.ResultFilter{ExcludeAll: config.Tokens("smile", "flower")},
			wantIDs: []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{pages: pages}
			engine := NewEngine(source, nil, nil, testLogger())

			items, err := engine.Retrieve(context.Background(), "1girl", &tt.filter, 10)
			require.NoError(t, err)

			ids := make([]int, len(items))
			for i, item := range items {
				ids[i] = item.Post.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestRetrieve_FilterMatchesAcrossAllGroups(t *testing.T) {
	p := post(1, "1girl")
	p.TagStringMeta = "animated"
	source := &fakeSource{pages: [][]domain.Post{{p}}}
	engine := NewEngine(source, nil, nil, testLogger())

	filter := config.ResultFilter{ExcludeAny: config.Tokens("animated")}
	items, err := engine.Retrieve(context.Background(), "1girl", &filter, 10)
	require.NoError(t, err)
	assert.Empty(t, items, "meta tags count toward the filter too")
}

func TestRetrieve_TransportErrorAbortsWithoutPartialResults(t *testing.T) {
	source := &fakeSource{err: errors.Transportf("search page 1: status 500")}
	engine := NewEngine(source, nil, nil, testLogger())

	items, err := engine.Retrieve(context.Background(), "1girl", nil, 10)
	assert.ErrorIs(t, err, errors.ErrTransport)
	assert.Nil(t, items)
}

func TestRetrieve_CacheHitSkipsNetwork(t *testing.T) {
	dir := t.TempDir()
	store := cache.New(dir, testLogger())

	query := "1girl score:>=50"
	cached := []*domain.PostItem{
		{Post: domain.Post{ID: 1, MD5: "a"}, GeneralTags: []string{"1girl"}},
		{Post: domain.Post{ID: 2, MD5: "b"}, GeneralTags: []string{"1girl"}},
		{Post: domain.Post{ID: 3, MD5: "c"}, GeneralTags: []string{"1girl"}},
	}
	require.NoError(t, store.Save(query, cached))

	source := &fakeSource{pages: [][]domain.Post{makePage(100, 10)}}
	engine := NewEngine(source, store, nil, testLogger())

	items, err := engine.Retrieve(context.Background(), query, nil, 2)
	require.NoError(t, err)

	assert.Equal(t, 0, source.calls, "a cache hit makes no network calls")
	require.Len(t, items, 2, "cached entries are truncated on read")
	assert.Equal(t, 1, items[0].Post.ID)
	assert.Equal(t, 2, items[1].Post.ID)
}

func TestRetrieve_CacheHitStillAppliesFilter(t *testing.T) {
	dir := t.TempDir()
	store := cache.New(dir, testLogger())

	query := "1girl"
	cached := []*domain.PostItem{
		{Post: domain.Post{ID: 1, MD5: "a"}, GeneralTags: []string{"1girl", "violence"}},
		{Post: domain.Post{ID: 2, MD5: "b"}, GeneralTags: []string{"1girl"}},
	}
	require.NoError(t, store.Save(query, cached))

	engine := NewEngine(&fakeSource{}, store, nil, testLogger())
	filter := config.ResultFilter{ExcludeAny: config.Tokens("violence")}

	items, err := engine.Retrieve(context.Background(), query, &filter, 10)
	require.NoError(t, err)

	require.Len(t, items, 1, "excluded items are absent regardless of cache state")
	assert.Equal(t, 2, items[0].Post.ID)
}

func TestRetrieve_CacheMissFetchesAndWrites(t *testing.T) {
	dir := t.TempDir()
	store := cache.New(dir, testLogger())

	source := &fakeSource{pages: [][]domain.Post{makePage(1, 5)}}
	engine := NewEngine(source, store, nil, testLogger())

	items, err := engine.Retrieve(context.Background(), "1girl", nil, 10)
	require.NoError(t, err)
	require.Len(t, items, 5)

	// Second retrieval through a fresh engine comes from the cache.
	fresh := &fakeSource{}
	engine2 := NewEngine(fresh, store, nil, testLogger())
	again, err := engine2.Retrieve(context.Background(), "1girl", nil, 10)
	require.NoError(t, err)

	assert.Equal(t, 0, fresh.calls)
	assert.Len(t, again, 5)
}

func TestRetrieve_ParsesTagGroups(t *testing.T) {
	p := post(1, "1girl long_hair ^_^")
	p.TagStringArtist = "some_artist"
	source := &fakeSource{pages: [][]domain.Post{{p}}}
	engine := NewEngine(source, nil, []string{"^_^"}, testLogger())

	items, err := engine.Retrieve(context.Background(), "1girl", nil, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, []string{"1girl", "long hair", "^_^"}, items[0].GeneralTags)
	assert.Equal(t, []string{"some artist"}, items[0].ArtistTags)
}
