package llm

import (
	"context"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/custcare-agent/server/internal/agent/model"
	"github.com/custcare-agent/server/internal/agent/session"
	errx "github.com/custcare-agent/server/internal/core/error"
	logx "github.com/custcare-agent/server/pkg/logger"
)

const systemPromptTemplate = `你是一个专业的智能客服助手，为用户ID为 %s 的客户提供服务。请遵循以下指导原则：

1. 专业礼貌：始终保持专业的态度和礼貌的语调与客户交流。
2. 准确回答：基于所提供的工具和信息准确回答客户问题。
3. 主动服务：主动询问客户的需求，提供解决方案。
4. 处理流程：
   - 若客户咨询订单状态，请使用query_order_status工具
   - 若客户需要办理退款，请使用process_refund工具
   - 若客户询问产品信息，请使用query_product_info工具
   - 若客户查询物流信息，请使用query_shipping_status工具
   - 若客户询问常见问题，请使用search_knowledge_base工具
5. 限制说明：只能处理与订单、产品、物流、退款、常见问题相关的咨询，其他问题请引导客户联系人工客服。

请记住，客户满意度是我们的首要目标，请尽最大努力帮助每一位客户解决问题。`

// FactoryConfig carries everything shared between session handles: the chat
// model (tools already bound), the invokable toolkit, the history repository
// and the per-call bounds.
type FactoryConfig struct {
	ChatModel    einomodel.BaseChatModel
	Tools        map[string]tool.InvokableTool
	Repo         model.ConversationRepository
	Timeout      time.Duration
	MaxToolCalls int
}

// NewFactory returns a session factory producing per-user agents. Each handle
// gets its own system prompt; memory lives in the repository keyed by user id.
func NewFactory(cfg FactoryConfig) session.Factory {
	return func(userID string) model.Generator {
		return &Agent{
			userID:       userID,
			systemPrompt: fmt.Sprintf(systemPromptTemplate, userID),
			chatModel:    cfg.ChatModel,
			tools:        cfg.Tools,
			repo:         cfg.Repo,
			timeout:      cfg.Timeout,
			maxToolCalls: cfg.MaxToolCalls,
		}
	}
}

// InvokableTools maps BaseTools by name for call-time dispatch.
func InvokableTools(ctx context.Context, ts []tool.BaseTool) (map[string]tool.InvokableTool, error) {
	m := make(map[string]tool.InvokableTool, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		inv, ok := t.(tool.InvokableTool)
		if !ok {
			return nil, fmt.Errorf("tool %s is not invokable", info.Name)
		}
		m[info.Name] = inv
	}
	return m, nil
}

// Agent is one user's conversational handle.
type Agent struct {
	userID       string
	systemPrompt string
	chatModel    einomodel.BaseChatModel
	tools        map[string]tool.InvokableTool
	repo         model.ConversationRepository
	timeout      time.Duration
	maxToolCalls int
}

// Generate runs one bounded generation call: persist the user message, build
// the prompt from history, loop through tool calls up to the configured
// limit, persist and return the final assistant reply. A failed tool
// execution surfaces as an error without retry.
func (a *Agent) Generate(ctx context.Context, userText string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	if err := a.repo.AddMessage(ctx, a.userID, schema.UserMessage(userText)); err != nil {
		return "", err
	}
	history, err := a.repo.LoadHistory(ctx, a.userID)
	if err != nil {
		return "", err
	}

	messages := make([]*schema.Message, 0, len(history.Messages)+1)
	messages = append(messages, schema.SystemMessage(a.systemPrompt))
	messages = append(messages, history.Messages...)

	toolCalls := 0
	for {
		resp, err := a.chatModel.Generate(ctx, messages)
		if err != nil {
			logx.Error().Err(err).Str("user_id", a.userID).Msg("generation failed")
			return "", errx.WrapCollaborator(err)
		}

		if len(resp.ToolCalls) == 0 {
			if err := a.repo.AddMessage(ctx, a.userID, schema.AssistantMessage(resp.Content, nil)); err != nil {
				logx.Warn().Err(err).Str("user_id", a.userID).Msg("failed to persist assistant reply")
			}
			return resp.Content, nil
		}

		if toolCalls+len(resp.ToolCalls) > a.maxToolCalls {
			logx.Warn().Str("user_id", a.userID).Int("max", a.maxToolCalls).Msg("tool call limit reached")
			return "", errx.WrapCollaborator(fmt.Errorf("tool call limit %d exceeded", a.maxToolCalls))
		}

		messages = append(messages, resp)
		for _, tc := range resp.ToolCalls {
			toolCalls++
			out, err := a.executeToolCall(ctx, tc)
			if err != nil {
				// Single attempt per tool call, no retry.
				return "", err
			}
			messages = append(messages, schema.ToolMessage(out, tc.ID))
		}
	}
}

func (a *Agent) executeToolCall(ctx context.Context, tc schema.ToolCall) (string, error) {
	name := tc.Function.Name
	inv, ok := a.tools[name]
	if !ok {
		// Hallucinated or malformed tool call: hand the model a compact,
		// structured note instead of failing the whole generation.
		logx.Warn().Str("user_id", a.userID).Str("tool", name).Msg("unknown tool call; returning fallback result")
		return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), nil
	}

	logx.Debug().Str("user_id", a.userID).Str("tool", name).Str("arguments", tc.Function.Arguments).Msg("tool call")
	out, err := inv.InvokableRun(ctx, tc.Function.Arguments)
	if err != nil {
		logx.Error().Err(err).Str("user_id", a.userID).Str("tool", name).Msg("tool execution failed")
		return "", errx.WrapCollaborator(fmt.Errorf("tool %s: %w", name, err))
	}
	return out, nil
}

var _ model.Generator = (*Agent)(nil)
