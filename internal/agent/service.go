// Package agent exposes the core operation surface: ProcessMessage routes
// each user message through the rule layer first and only falls through to
// the generative agent when no deterministic answer applies; generated
// replies are post-checked by the fallback guard before being surfaced.
package agent

import (
	"context"
	"strings"

	"github.com/custcare-agent/server/internal/agent/dispatch"
	"github.com/custcare-agent/server/internal/agent/guard"
	"github.com/custcare-agent/server/internal/agent/model"
	"github.com/custcare-agent/server/internal/agent/nlu"
	"github.com/custcare-agent/server/internal/agent/session"
	errx "github.com/custcare-agent/server/internal/core/error"
	logx "github.com/custcare-agent/server/pkg/logger"
)

const (
	emptyUserIDMessage  = "用户ID不能为空"
	emptyMessageMessage = "消息内容不能为空"

	// generationFailedMessage absorbs any generation failure; collaborator
	// errors never escape ProcessMessage.
	generationFailedMessage = "抱歉，系统暂时繁忙，请稍后再试或联系人工客服。"
)

// Service wires the routing layer together. All fields are required.
type Service struct {
	sessions   *session.Registry
	dispatcher *dispatch.Dispatcher
	guard      *guard.Guard
	history    model.ConversationRepository
}

func NewService(sessions *session.Registry, dispatcher *dispatch.Dispatcher, g *guard.Guard, history model.ConversationRepository) *Service {
	return &Service{
		sessions:   sessions,
		dispatcher: dispatcher,
		guard:      g,
		history:    history,
	}
}

// ProcessMessage handles one user utterance end to end. Blank userID or text
// is an invalid-input error with no collaborator call; every other outcome
// is a textual Answer.
func (s *Service) ProcessMessage(ctx context.Context, userID, text string) (model.Answer, error) {
	if strings.TrimSpace(userID) == "" {
		return model.Answer{}, errx.InvalidInput(emptyUserIDMessage)
	}
	if strings.TrimSpace(text) == "" {
		return model.Answer{}, errx.InvalidInput(emptyMessageMessage)
	}

	analysis := nlu.Analyze(text)
	logx.Debug().
		Str("user_id", userID).
		Str("intent", analysis.Intent.String()).
		Str("order_id", analysis.Entities.OrderID).
		Str("product", analysis.Entities.ProductName).
		Msg("message analyzed")

	// High-confidence intents bypass generation entirely.
	if answer, ok := s.dispatcher.Dispatch(ctx, text, analysis); ok {
		return answer, nil
	}

	gen := s.sessions.GetOrCreate(userID)
	reply, err := gen.Generate(ctx, text)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Str("intent", analysis.Intent.String()).Msg("generation failed")
		return model.Answer{Text: generationFailedMessage}, nil
	}

	// The guard only inspects successful textual replies.
	reply = s.guard.Review(ctx, text, reply, analysis)
	return model.Answer{Text: reply}, nil
}

// ClearSession drops the user's handle and the stored conversation history,
// so a later GetOrCreate starts from a blank memory. Idempotent.
func (s *Service) ClearSession(ctx context.Context, userID string) error {
	s.sessions.Clear(userID)

	if n, err := s.history.GetMessageCount(ctx, userID); err == nil && n > 0 {
		logx.Info().Str("user_id", userID).Int("messages", n).Msg("dropping conversation history")
	}
	if err := s.history.ClearHistory(ctx, userID); err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to clear conversation history")
		return err
	}
	return nil
}

// SessionCount reports the number of live sessions.
func (s *Service) SessionCount() int {
	return s.sessions.Count()
}
