package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/custcare-agent/server/internal/agent/knowledge"
	"github.com/custcare-agent/server/internal/agent/model"
	logx "github.com/custcare-agent/server/pkg/logger"
)

// Tool names as exposed to the generative agent.
const (
	ToolQueryOrderStatus    = "query_order_status"
	ToolProcessRefund       = "process_refund"
	ToolQueryProductInfo    = "query_product_info"
	ToolQueryShippingStatus = "query_shipping_status"
	ToolSearchKnowledgeBase = "search_knowledge_base"
	ToolAddKnowledge        = "add_knowledge"
	ToolRetrieveKnowledge   = "retrieve_knowledge"
)

// retrieveKnowledgeLimit caps raw retrieval; the agent gets the top hits with
// scores instead of the post-processed answer text.
const retrieveKnowledgeLimit = 3

// KnowledgeBase is the writable store surface the maintenance tools need.
type KnowledgeBase interface {
	AddDocument(ctx context.Context, title, content string) error
	model.Retriever
}

type orderStatusInput struct {
	OrderID string `json:"order_id"`
}

type refundInput struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

type productInfoInput struct {
	ProductName string `json:"product_name"`
}

type shippingStatusInput struct {
	OrderID string `json:"order_id"`
}

type knowledgeSearchInput struct {
	Question string `json:"question"`
}

type addKnowledgeInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type retrieveKnowledgeInput struct {
	Query string `json:"query"`
}

type textOutput struct {
	Result string `json:"result"`
}

func newQueryOrderStatusTool(orders *OrderStore) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolQueryOrderStatus,
			Desc: "查询订单状态和详情",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {
					Type:     "string",
					Desc:     "订单ID，格式如ORD001",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *orderStatusInput) (*textOutput, error) {
			if in.OrderID == "" {
				return nil, fmt.Errorf("order_id is required")
			}
			return &textOutput{Result: orders.QueryStatus(in.OrderID)}, nil
		},
	)
}

func newProcessRefundTool(orders *OrderStore) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolProcessRefund,
			Desc: "处理退款请求",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {
					Type:     "string",
					Desc:     "订单ID",
					Required: true,
				},
				"reason": {
					Type:     "string",
					Desc:     "退款原因",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *refundInput) (*textOutput, error) {
			if in.OrderID == "" {
				return nil, fmt.Errorf("order_id is required")
			}
			return &textOutput{Result: orders.ProcessRefund(in.OrderID, in.Reason)}, nil
		},
	)
}

func newQueryProductInfoTool(products *ProductCatalog) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolQueryProductInfo,
			Desc: "查询产品详细信息",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_name": {
					Type:     "string",
					Desc:     "产品名称，例如 iPhone 15 Pro",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *productInfoInput) (*textOutput, error) {
			if in.ProductName == "" {
				return nil, fmt.Errorf("product_name is required")
			}
			return &textOutput{Result: products.QueryInfo(in.ProductName)}, nil
		},
	)
}

func newQueryShippingStatusTool(orders *OrderStore) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolQueryShippingStatus,
			Desc: "查询订单物流状态",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {
					Type:     "string",
					Desc:     "订单ID",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *shippingStatusInput) (*textOutput, error) {
			if in.OrderID == "" {
				return nil, fmt.Errorf("order_id is required")
			}
			return &textOutput{Result: orders.QueryShipping(in.OrderID)}, nil
		},
	)
}

func newSearchKnowledgeBaseTool(kb *knowledge.Service) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchKnowledgeBase,
			Desc: "在知识库中搜索与问题相关的信息",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"question": {
					Type:     "string",
					Desc:     "用户提出的问题",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *knowledgeSearchInput) (*textOutput, error) {
			if in.Question == "" {
				return nil, fmt.Errorf("question is required")
			}
			return &textOutput{Result: kb.SearchKnowledgeBase(ctx, in.Question)}, nil
		},
	)
}

func newAddKnowledgeTool(store KnowledgeBase) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolAddKnowledge,
			Desc: "向知识库中添加新的客服知识",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"title": {
					Type:     "string",
					Desc:     "知识标题",
					Required: true,
				},
				"content": {
					Type:     "string",
					Desc:     "知识内容",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *addKnowledgeInput) (*textOutput, error) {
			if in.Title == "" || in.Content == "" {
				return nil, fmt.Errorf("title and content are required")
			}
			// Store failures come back as result text so the model can relay
			// them, matching the read-side tools.
			if err := store.AddDocument(ctx, in.Title, in.Content); err != nil {
				logx.Error().Err(err).Str("tool", ToolAddKnowledge).Str("title", in.Title).Msg("add knowledge failed")
				return &textOutput{Result: fmt.Sprintf("添加知识失败: %v", err)}, nil
			}
			logx.Info().Str("tool", ToolAddKnowledge).Str("title", in.Title).Msg("knowledge added")
			return &textOutput{Result: fmt.Sprintf("成功添加知识到向量数据库\n标题: %s\n内容: %s", in.Title, in.Content)}, nil
		},
	)
}

func newRetrieveKnowledgeTool(store KnowledgeBase) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolRetrieveKnowledge,
			Desc: "从知识库中检索相关客服知识",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "查询内容",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *retrieveKnowledgeInput) (*textOutput, error) {
			if in.Query == "" {
				return nil, fmt.Errorf("query is required")
			}
			results, err := store.Search(ctx, in.Query, model.SearchOptions{Limit: retrieveKnowledgeLimit})
			if err != nil {
				logx.Error().Err(err).Str("tool", ToolRetrieveKnowledge).Str("query", in.Query).Msg("retrieve knowledge failed")
				return &textOutput{Result: fmt.Sprintf("检索知识失败: %v", err)}, nil
			}
			if len(results) == 0 {
				return &textOutput{Result: "未找到相关知识"}, nil
			}

			var b strings.Builder
			b.WriteString("检索到以下相关知识:\n\n")
			for i, c := range results {
				fmt.Fprintf(&b, "[%d] 相似度: %.2f\n", i+1, c.Score)
				b.WriteString(c.Title + "\n" + c.Content + "\n\n")
			}
			return &textOutput{Result: b.String()}, nil
		},
	)
}

// QueryTools assembles the business toolkit bound to the generative agent.
func QueryTools(orders *OrderStore, products *ProductCatalog, kb *knowledge.Service, store KnowledgeBase) []tool.BaseTool {
	return []tool.BaseTool{
		newQueryOrderStatusTool(orders),
		newProcessRefundTool(orders),
		newQueryProductInfoTool(products),
		newQueryShippingStatusTool(orders),
		newSearchKnowledgeBaseTool(kb),
		newAddKnowledgeTool(store),
		newRetrieveKnowledgeTool(store),
	}
}

// ToolInfos collects the ToolInfo descriptors used to bind the toolkit to the
// chat model.
func ToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
