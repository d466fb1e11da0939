// Package dispatch short-circuits generation for intents that are fully
// rule-resolvable: product inquiries answered from the catalog and policy
// questions answered straight from the knowledge base.
package dispatch

import (
	"context"

	"github.com/custcare-agent/server/internal/agent/knowledge"
	"github.com/custcare-agent/server/internal/agent/model"
	"github.com/custcare-agent/server/internal/agent/nlu"
	"github.com/custcare-agent/server/internal/agent/tools"
	logx "github.com/custcare-agent/server/pkg/logger"
)

const needFullProductNameMessage = "请提供更完整的产品名称，例如：iPhone 15 Pro、MacBook Air M2 或 AirPods Pro。"

// Dispatcher answers high-confidence intents with deterministic tools,
// bypassing the generative agent entirely.
type Dispatcher struct {
	products *tools.ProductCatalog
	kb       *knowledge.Service
}

func NewDispatcher(products *tools.ProductCatalog, kb *knowledge.Service) *Dispatcher {
	return &Dispatcher{products: products, kb: kb}
}

// Dispatch returns a direct answer and true when the intent is resolvable
// without generation; (zero, false) hands the message to the normal pipeline.
func (d *Dispatcher) Dispatch(ctx context.Context, text string, a nlu.Analysis) (model.Answer, bool) {
	switch a.Intent {
	case model.IntentProductInfo:
		if a.Entities.ProductName == "" {
			return model.Answer{Text: needFullProductNameMessage}, true
		}
		logx.Info().Str("intent", a.Intent.String()).Str("product", a.Entities.ProductName).Msg("direct dispatch")
		return model.Answer{Text: d.products.QueryInfo(a.Entities.ProductName)}, true

	case model.IntentKnowledge:
		logx.Info().Str("intent", a.Intent.String()).Msg("direct dispatch")
		return model.Answer{Text: d.kb.SearchKnowledgeBase(ctx, text)}, true
	}

	return model.Answer{}, false
}
