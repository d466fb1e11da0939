package guard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custcare-agent/server/internal/agent/knowledge"
	"github.com/custcare-agent/server/internal/agent/model"
	"github.com/custcare-agent/server/internal/agent/nlu"
	"github.com/custcare-agent/server/internal/agent/tools"
)

type fixedRetriever struct {
	results []model.RetrievalCandidate
}

func (f *fixedRetriever) Search(context.Context, string, model.SearchOptions) ([]model.RetrievalCandidate, error) {
	return f.results, nil
}

func newGuard(retriever model.Retriever) *Guard {
	return NewGuard(tools.NewOrderStore(), knowledge.NewService(retriever))
}

func TestLooksPendingOrderReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{name: "empty reply", reply: "", want: true},
		{name: "whitespace only", reply: "   \n", want: true},
		{name: "please wait", reply: "请稍等，我帮您看一下。", want: true},
		{name: "querying now", reply: "正在为您查询订单，请稍候。", want: true},
		{name: "pending but with result", reply: "正在为您查询...\n订单ID: ORD001\n状态: 已发货", want: false},
		{name: "conclusive not found", reply: "未找到订单ID为 ORD009 的订单，请检查订单号是否正确。", want: false},
		{name: "ordinary answer", reply: "您的订单已发货，预计明天送达。", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, looksPendingOrderReply(tt.reply))
		})
	}
}

func TestLooksPendingKnowledgeReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{name: "empty reply", reply: "", want: true},
		{name: "announced tool call", reply: "我需要调用工具来回答这个问题。", want: true},
		{name: "named the tool", reply: "让我用search_knowledge_base查一下。", want: true},
		{name: "pending phrase", reply: "正在查询，请稍后。", want: true},
		{name: "conclusive kb answer", reply: "根据知识库中的信息，为您找到以下相关内容：...", want: false},
		{name: "handoff counts as conclusive", reply: "建议您联系人工客服处理。", want: false},
		{name: "ordinary answer", reply: "保修期为一年，从购买日起计算。", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, looksPendingKnowledgeReply(tt.reply))
		})
	}
}

func TestReviewOrderFallback(t *testing.T) {
	g := newGuard(&fixedRetriever{})
	a := nlu.Analysis{Intent: model.IntentOrderStatus, Entities: model.Entities{OrderID: "ORD001"}}

	t.Run("pending reply fully replaced", func(t *testing.T) {
		out := g.Review(context.Background(), "查询订单ORD001的状态", "正在为您查询", a)
		assert.Contains(t, out, orderFallbackPrefix)
		assert.Contains(t, out, "订单ID: ORD001")
		assert.Contains(t, out, "iPhone 15 Pro")
		assert.NotContains(t, out, "正在为您查询")
	})

	t.Run("unknown order still replaced with not-found", func(t *testing.T) {
		bad := nlu.Analysis{Intent: model.IntentOrderStatus, Entities: model.Entities{OrderID: "ORD999"}}
		out := g.Review(context.Background(), "查询订单ORD999的状态", "", bad)
		assert.Contains(t, out, orderFallbackPrefix)
		assert.Contains(t, out, "未找到订单ID为 ORD999")
	})

	t.Run("conclusive reply untouched", func(t *testing.T) {
		reply := "订单ID: ORD001\n状态: 已发货"
		assert.Equal(t, reply, g.Review(context.Background(), "查询订单ORD001的状态", reply, a))
	})

	t.Run("no order id means no fallback", func(t *testing.T) {
		noID := nlu.Analysis{Intent: model.IntentOrderStatus}
		reply := "正在为您查询"
		assert.Equal(t, reply, g.Review(context.Background(), "帮我查订单", reply, noID))
	})
}

func TestReviewKnowledgeFallback(t *testing.T) {
	g := newGuard(&fixedRetriever{results: []model.RetrievalCandidate{
		{Title: "售后服务政策-保修", Content: "保修政策 iPhone整机保修1年", Score: 0.9},
	}})
	a := nlu.Analysis{Intent: model.IntentKnowledge}

	t.Run("announced tool call replaced with retrieval", func(t *testing.T) {
		out := g.Review(context.Background(), "保修政策是什么", "我将调用工具查询知识库。", a)
		assert.Contains(t, out, knowledgeFallbackPrefix)
		assert.Contains(t, out, "售后服务政策-保修")
	})

	t.Run("real answer untouched", func(t *testing.T) {
		reply := "保修期为一年，从购买日起计算。"
		assert.Equal(t, reply, g.Review(context.Background(), "保修政策是什么", reply, a))
	})
}

func TestReviewOtherIntentsUntouched(t *testing.T) {
	g := newGuard(&fixedRetriever{})
	reply := "正在为您查询"
	out := g.Review(context.Background(), "随便聊聊", reply, nlu.Analysis{Intent: model.IntentNone})
	assert.Equal(t, reply, out)
}
