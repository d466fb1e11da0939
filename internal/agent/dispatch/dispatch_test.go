package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custcare-agent/server/internal/agent/knowledge"
	"github.com/custcare-agent/server/internal/agent/model"
	"github.com/custcare-agent/server/internal/agent/nlu"
	"github.com/custcare-agent/server/internal/agent/tools"
)

type fixedRetriever struct {
	results []model.RetrievalCandidate
	calls   int
}

func (f *fixedRetriever) Search(context.Context, string, model.SearchOptions) ([]model.RetrievalCandidate, error) {
	f.calls++
	return f.results, nil
}

func newDispatcher(retriever model.Retriever) *Dispatcher {
	return NewDispatcher(tools.NewProductCatalog(), knowledge.NewService(retriever))
}

func TestDispatchProductInfo(t *testing.T) {
	d := newDispatcher(&fixedRetriever{})

	t.Run("resolved product answered from catalog", func(t *testing.T) {
		ans, ok := d.Dispatch(context.Background(), "介绍一下iPhone 15 Pro", nlu.Analysis{
			Intent:   model.IntentProductInfo,
			Entities: model.Entities{ProductName: "iPhone 15 Pro"},
		})
		require.True(t, ok)
		assert.Contains(t, ans.Text, "产品名称: iPhone 15 Pro")
		assert.Contains(t, ans.Text, "A17 Pro")
	})

	t.Run("missing product name asks for a fuller one", func(t *testing.T) {
		ans, ok := d.Dispatch(context.Background(), "这个产品有什么特性", nlu.Analysis{
			Intent: model.IntentProductInfo,
		})
		require.True(t, ok)
		assert.Equal(t, needFullProductNameMessage, ans.Text)
	})
}

func TestDispatchKnowledge(t *testing.T) {
	r := &fixedRetriever{results: []model.RetrievalCandidate{
		{Title: "售后服务政策-保修", Content: "保修政策 iPhone整机保修1年", Score: 0.9},
	}}
	d := newDispatcher(r)

	ans, ok := d.Dispatch(context.Background(), "保修政策是什么", nlu.Analysis{Intent: model.IntentKnowledge})
	require.True(t, ok)
	assert.Equal(t, 1, r.calls)
	assert.Contains(t, ans.Text, "售后服务政策-保修")
}

func TestDispatchPassesThrough(t *testing.T) {
	r := &fixedRetriever{}
	d := newDispatcher(r)

	for _, intent := range []model.Intent{model.IntentNone, model.IntentOrderStatus} {
		ans, ok := d.Dispatch(context.Background(), "查询订单ORD001的状态", nlu.Analysis{
			Intent:   intent,
			Entities: model.Entities{OrderID: "ORD001"},
		})
		assert.False(t, ok)
		assert.Empty(t, ans.Text)
	}
	assert.Equal(t, 0, r.calls)
}
