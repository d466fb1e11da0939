package nlu

import (
	"strings"

	"github.com/custcare-agent/server/internal/agent/model"
)

// Keyword tables for intent classification. Order and content are load-bearing:
// the Knowledge rule deliberately excludes business-transactional wording and
// order ids so policy questions never shadow order handling.
var (
	featureKeywords = []string{"特性", "特点", "参数", "配置", "介绍", "信息", "有什么"}

	orderKeyword        = "订单"
	orderStatusKeywords = []string{"状态", "查询", "查一下"}
	policyKeywords      = []string{"售后", "政策", "规则", "保修", "退换", "退货", "换货", "人工"}
	businessKeywords    = []string{"订单", "物流", "退款", "产品"}
)

// Analysis is the combined classification result for one message.
type Analysis struct {
	Intent   model.Intent
	Entities model.Entities
}

// Analyze extracts entities and classifies the message in one pass.
func Analyze(text string) Analysis {
	ents := model.Entities{}
	if id, ok := ExtractOrderID(text); ok {
		ents.OrderID = id
	}
	if name, ok := ExtractProductName(text); ok {
		ents.ProductName = name
	}
	return Analysis{
		Intent:   classify(text, ents),
		Entities: ents,
	}
}

// classify evaluates the intent rules in fixed priority order. Only the first
// matching rule is reported.
func classify(text string, ents model.Entities) model.Intent {
	if isProductInfo(text, ents) {
		return model.IntentProductInfo
	}
	if isOrderStatus(text) {
		return model.IntentOrderStatus
	}
	if isKnowledge(text, ents) {
		return model.IntentKnowledge
	}
	return model.IntentNone
}

func isProductInfo(text string, ents model.Entities) bool {
	return containsAny(text, featureKeywords) && ents.ProductName != ""
}

// isOrderStatus flags order-status wording. This intent never triggers direct
// dispatch; only the fallback guard consumes it.
func isOrderStatus(text string) bool {
	return strings.Contains(text, orderKeyword) && containsAny(text, orderStatusKeywords)
}

// isKnowledge requires a policy-like keyword, no business-like keyword and no
// order id. The exclusion keeps transactional questions out of the static
// knowledge base.
func isKnowledge(text string, ents model.Entities) bool {
	if !containsAny(text, policyKeywords) {
		return false
	}
	if containsAny(text, businessKeywords) {
		return false
	}
	return ents.OrderID == ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
