// Package guard inspects generated replies after the fact and replaces the
// clearly non-committal ones with a tool-computed answer. The checks are
// deliberately brittle string tables, not language understanding: false
// negatives are accepted, the goal is only to catch obvious "please wait"
// replies that would otherwise leave the user without an answer.
package guard

import (
	"context"
	"strings"

	"github.com/custcare-agent/server/internal/agent/knowledge"
	"github.com/custcare-agent/server/internal/agent/model"
	"github.com/custcare-agent/server/internal/agent/nlu"
	"github.com/custcare-agent/server/internal/agent/tools"
	logx "github.com/custcare-agent/server/pkg/logger"
)

const (
	orderFallbackPrefix     = "已为您直接查询订单，结果如下：\n"
	knowledgeFallbackPrefix = "已为您直接检索知识库，结果如下：\n"
)

// pendingPhrases mean "please wait" / "I'll check now" — a reply built around
// one of these without a conclusive marker answered nothing.
var pendingPhrases = []string{
	"请稍等",
	"稍等片刻",
	"请您稍候",
	"正在为您查询",
	"正在查询",
	"马上为您",
	"我将为您查询",
	"我来为您查询",
}

// orderConclusiveMarkers indicate the reply already carries a concrete order
// result (or an explicit not-found).
var orderConclusiveMarkers = []string{
	"订单ID",
	"状态:",
	"状态：",
	"未找到订单",
}

// knowledgeToolHints are traces of an announced-but-unfinished tool call.
var knowledgeToolHints = []string{
	"search_knowledge_base",
	"检索知识库",
	"调用工具",
	"查询知识库",
}

// knowledgeConclusiveMarkers indicate the reply already carries knowledge-base
// content or a proper handoff.
var knowledgeConclusiveMarkers = []string{
	"根据知识库",
	"找到以下",
	"个工作日",
	"人工客服",
	"客服",
}

// Guard post-checks generated replies against the message's intent and
// entities, overriding inconclusive ones with deterministic answers.
type Guard struct {
	orders *tools.OrderStore
	kb     *knowledge.Service
}

func NewGuard(orders *tools.OrderStore, kb *knowledge.Service) *Guard {
	return &Guard{orders: orders, kb: kb}
}

// Review returns the reply to surface: either the generated reply unchanged
// or a full replacement. The order-status check runs first; each fallback
// replaces the reply entirely, never merges into it.
func (g *Guard) Review(ctx context.Context, userText, reply string, a nlu.Analysis) string {
	if a.Intent == model.IntentOrderStatus && a.Entities.OrderID != "" && looksPendingOrderReply(reply) {
		logx.Info().Str("order_id", a.Entities.OrderID).Msg("order-status fallback fired")
		return orderFallbackPrefix + g.orders.QueryStatus(a.Entities.OrderID)
	}

	if a.Intent == model.IntentKnowledge && looksPendingKnowledgeReply(reply) {
		logx.Info().Msg("knowledge fallback fired")
		return knowledgeFallbackPrefix + g.kb.SearchKnowledgeBase(ctx, userText)
	}

	return reply
}

func looksPendingOrderReply(reply string) bool {
	if strings.TrimSpace(reply) == "" {
		return true
	}
	return containsAny(reply, pendingPhrases) && !containsAny(reply, orderConclusiveMarkers)
}

func looksPendingKnowledgeReply(reply string) bool {
	if strings.TrimSpace(reply) == "" {
		return true
	}
	hinted := containsAny(reply, knowledgeToolHints) || containsAny(reply, pendingPhrases)
	return hinted && !containsAny(reply, knowledgeConclusiveMarkers)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
