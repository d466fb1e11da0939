package knowledge

import (
	"context"
	"strconv"
	"strings"

	"github.com/custcare-agent/server/internal/agent/model"
	logx "github.com/custcare-agent/server/pkg/logger"
)

const (
	// Retrieval fetches more than it shows so dedup and focus filtering have
	// material to work with; the threshold is looser than plain lookups to
	// tolerate paraphrase.
	searchLimit    = 10
	scoreThreshold = 0.3

	maxShownResults = 3
	maxContentLen   = 500
)

const (
	notFoundMessage       = "抱歉，知识库中没有找到与您的问题相关的信息。请尝试重新表述问题或联系人工客服。"
	retrievalErrorMessage = "抱歉，检索知识库时发生错误，请稍后再试。"
	resultsIntroLine      = "根据知识库中的信息，为您找到以下相关内容：\n\n"
)

// focusRule narrows results to one topical keyword when the question clearly
// asks about it. Rules are checked in order; the first trigger hit wins.
type focusRule struct {
	triggers []string
	keyword  string
}

var focusRules = []focusRule{
	{triggers: []string{"保修"}, keyword: "保修"},
	{triggers: []string{"退货", "换货", "退换"}, keyword: "退换"},
	{triggers: []string{"维修"}, keyword: "维修"},
}

// Service turns raw retrieval hits into a human-readable answer. Retriever
// failures are absorbed into a fixed user-safe message, never propagated.
type Service struct {
	retriever model.Retriever
}

func NewService(retriever model.Retriever) *Service {
	return &Service{retriever: retriever}
}

// SearchKnowledgeBase runs the full pipeline for a user question: retrieve,
// deduplicate, focus-filter, format.
func (s *Service) SearchKnowledgeBase(ctx context.Context, question string) string {
	results, err := s.retriever.Search(ctx, question, model.SearchOptions{
		Limit:          searchLimit,
		ScoreThreshold: scoreThreshold,
	})
	if err != nil {
		logx.Error().Err(err).Str("question", question).Msg("knowledge base search failed")
		return retrievalErrorMessage
	}
	if len(results) == 0 {
		return notFoundMessage
	}

	unique := Deduplicate(results)
	if len(unique) == 0 {
		return notFoundMessage
	}

	return formatResults(filterByFocus(question, unique))
}

// Deduplicate drops candidates whose title+content pair was already seen,
// keeping the first occurrence and preserving rank order.
func Deduplicate(results []model.RetrievalCandidate) []model.RetrievalCandidate {
	seen := make(map[string]struct{}, len(results))
	unique := make([]model.RetrievalCandidate, 0, len(results))
	for _, c := range results {
		key := c.Title + "\n" + c.Content
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

// filterByFocus keeps only candidates matching the question's detected focus
// keyword. Filtering to empty falls back to the unfiltered list so
// over-filtering never produces zero results.
func filterByFocus(question string, results []model.RetrievalCandidate) []model.RetrievalCandidate {
	if strings.TrimSpace(question) == "" || len(results) == 0 {
		return results
	}

	var focus string
	for _, rule := range focusRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(question, trigger) {
				focus = rule.keyword
				break
			}
		}
		if focus != "" {
			break
		}
	}
	if focus == "" {
		return results
	}

	focused := make([]model.RetrievalCandidate, 0, len(results))
	for _, c := range results {
		if strings.Contains(c.Title+"\n"+c.Content, focus) {
			focused = append(focused, c)
		}
	}
	if len(focused) == 0 {
		return results
	}
	return focused
}

func formatResults(results []model.RetrievalCandidate) string {
	if len(results) == 0 {
		return notFoundMessage
	}

	var b strings.Builder
	b.WriteString(resultsIntroLine)
	for i, c := range results {
		if i >= maxShownResults {
			break
		}
		title := c.Title
		if title == "" {
			title = "文档"
		}
		content := c.Content
		if len([]rune(content)) > maxContentLen {
			content = string([]rune(content)[:maxContentLen]) + "..."
		}
		b.WriteString(strconv.Itoa(i+1) + ". " + title + "\n")
		b.WriteString(content)
		b.WriteString("\n\n")
	}
	return b.String()
}
