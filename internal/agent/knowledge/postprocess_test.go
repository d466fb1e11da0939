package knowledge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custcare-agent/server/internal/agent/model"
)

type fakeRetriever struct {
	results  []model.RetrievalCandidate
	err      error
	calls    int
	lastOpts model.SearchOptions
}

func (f *fakeRetriever) Search(_ context.Context, _ string, opts model.SearchOptions) ([]model.RetrievalCandidate, error) {
	f.calls++
	f.lastOpts = opts
	return f.results, f.err
}

func TestDeduplicate(t *testing.T) {
	in := []model.RetrievalCandidate{
		{Title: "保修政策", Content: "保修一年", Score: 0.9},
		{Title: "保修政策", Content: "保修一年", Score: 0.8},
		{Title: "退换货政策", Content: "七天无理由", Score: 0.7},
		{Title: "保修政策", Content: "保修两年", Score: 0.6},
	}

	out := Deduplicate(in)
	require.Len(t, out, 3)
	// First occurrence kept, rank order preserved.
	assert.Equal(t, 0.9, out[0].Score)
	assert.Equal(t, "退换货政策", out[1].Title)
	assert.Equal(t, "保修两年", out[2].Content)

	// Idempotent: a second pass changes nothing.
	assert.Equal(t, out, Deduplicate(out))
}

func TestFilterByFocus(t *testing.T) {
	candidates := []model.RetrievalCandidate{
		{Title: "售后服务政策-保修", Content: "保修政策 保修1年"},
		{Title: "售后服务政策-退换货", Content: "退换货政策 七天无理由"},
		{Title: "售后服务政策-维修", Content: "维修服务 周期1-2周"},
	}

	t.Run("warranty focus", func(t *testing.T) {
		out := filterByFocus("保修多久", candidates)
		require.Len(t, out, 1)
		assert.Contains(t, out[0].Title, "保修")
	})

	t.Run("return focus from 退货", func(t *testing.T) {
		out := filterByFocus("退货要运费吗", candidates)
		require.Len(t, out, 1)
		assert.Contains(t, out[0].Title, "退换")
	})

	t.Run("warranty wins over repair", func(t *testing.T) {
		out := filterByFocus("保修期内维修收费吗", candidates)
		require.Len(t, out, 1)
		assert.Contains(t, out[0].Title, "保修")
	})

	t.Run("no focus keyword passes through", func(t *testing.T) {
		assert.Equal(t, candidates, filterByFocus("发货要多久", candidates))
	})

	t.Run("over-filtering falls back to unfiltered", func(t *testing.T) {
		noMatch := []model.RetrievalCandidate{
			{Title: "常见问题", Content: "如何联系客服"},
		}
		assert.Equal(t, noMatch, filterByFocus("保修政策", noMatch))
	})
}

func TestSearchKnowledgeBase(t *testing.T) {
	t.Run("uses loose retrieval options", func(t *testing.T) {
		f := &fakeRetriever{}
		NewService(f).SearchKnowledgeBase(context.Background(), "保修政策")
		assert.Equal(t, 1, f.calls)
		assert.Equal(t, 10, f.lastOpts.Limit)
		assert.Equal(t, 0.3, f.lastOpts.ScoreThreshold)
	})

	t.Run("empty results", func(t *testing.T) {
		f := &fakeRetriever{}
		out := NewService(f).SearchKnowledgeBase(context.Background(), "保修政策")
		assert.Equal(t, notFoundMessage, out)
	})

	t.Run("retriever failure absorbed", func(t *testing.T) {
		f := &fakeRetriever{err: errors.New("connection refused")}
		out := NewService(f).SearchKnowledgeBase(context.Background(), "保修政策")
		assert.Equal(t, retrievalErrorMessage, out)
	})

	t.Run("renders top three with intro", func(t *testing.T) {
		f := &fakeRetriever{results: []model.RetrievalCandidate{
			{Title: "售后服务政策-保修", Content: "保修政策 1. iPhone整机保修1年", Score: 0.9},
			{Title: "产品使用指南", Content: "保修相关注意事项", Score: 0.8},
			{Title: "常见问题与解答", Content: "问：保修怎么办理", Score: 0.7},
			{Title: "售后服务政策-维修", Content: "保修维修服务", Score: 0.6},
		}}
		out := NewService(f).SearchKnowledgeBase(context.Background(), "保修政策是什么")
		assert.True(t, strings.HasPrefix(out, resultsIntroLine))
		assert.Contains(t, out, "1. 售后服务政策-保修")
		assert.Contains(t, out, "3. 常见问题与解答")
		assert.NotContains(t, out, "4. ")
	})

	t.Run("focus filter drops off-topic hits", func(t *testing.T) {
		f := &fakeRetriever{results: []model.RetrievalCandidate{
			{Title: "售后服务政策-退换货", Content: "退换货政策 七天无理由", Score: 0.9},
			{Title: "售后服务政策-保修", Content: "保修政策 整机保修1年", Score: 0.8},
		}}
		out := NewService(f).SearchKnowledgeBase(context.Background(), "保修政策是什么")
		assert.Contains(t, out, "售后服务政策-保修")
		assert.NotContains(t, out, "退换货")
	})

	t.Run("long content truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("修", 600)
		f := &fakeRetriever{results: []model.RetrievalCandidate{
			{Title: "售后服务政策-维修", Content: long, Score: 0.9},
		}}
		out := NewService(f).SearchKnowledgeBase(context.Background(), "维修服务")
		assert.Contains(t, out, strings.Repeat("修", maxContentLen)+"...")
		assert.NotContains(t, out, strings.Repeat("修", maxContentLen+1))
	})
}
