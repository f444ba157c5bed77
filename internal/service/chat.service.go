package service

import (
	"context"
	"encoding/json"
	"fmt"
	"investorly/internal/domain"
	"investorly/internal/logger"
	"investorly/internal/repository"
	"strings"

	"github.com/google/uuid"
)

const systemPrompt = `You are an investment education assistant for a portfolio simulation dashboard. Users simulate hypothetical portfolios across equity ETFs (such as VOO), cryptocurrencies (such as BTC) and fixed-income products (high-yield savings, CDs).
Provide clear, concise explanations suitable for beginners. Focus on concepts like ETFs, cryptocurrency, risk, returns, volatility and diversification.
Never present anything as personalized financial advice. Keep responses under 3-4 sentences.`

const contextPreamble = "The user's current simulated portfolio, as JSON. Refer to it when it is relevant:\n"

// ChatRequest is one turn of the assistant conversation. Messages is the
// whole visible conversation, oldest first, ending with the user's
// latest message.
type ChatRequest struct {
	Messages  []domain.ChatMessage
	Context   *domain.ChatContext
	SessionID *uuid.UUID
	UserID    *string
}

type ChatResponse struct {
	Response string `json:"response"`
	// Fallback is set when the canned answer was used instead of the model
	Fallback  bool       `json:"fallback"`
	SessionID *uuid.UUID `json:"sessionId,omitempty"`
}

type ChatService interface {
	Respond(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type chatServiceHandler struct {
	LlmRepository         repository.LlmRepository
	ChatMessageRepository repository.ChatMessageRepository
}

// NewChatService accepts a nil llm repository, in which case every
// answer comes from the keyword fallback. A nil message repository
// disables conversation storage.
func NewChatService(llmRepository repository.LlmRepository, chatMessageRepository repository.ChatMessageRepository) ChatService {
	return chatServiceHandler{
		LlmRepository:         llmRepository,
		ChatMessageRepository: chatMessageRepository,
	}
}

func (h chatServiceHandler) Respond(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if len(req.Messages) == 0 {
		return nil, domain.ValidationError{Field: "messages", Reason: "at least one message is required"}
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != domain.ChatRoleUser || strings.TrimSpace(last.Content) == "" {
		return nil, domain.ValidationError{Field: "messages", Reason: "last message must be a non-empty user message"}
	}

	prompt, err := BuildSystemPrompt(req.Context)
	if err != nil {
		return nil, err
	}

	lg := logger.FromContext(ctx)
	out := &ChatResponse{SessionID: req.SessionID}
	if h.LlmRepository == nil {
		out.Response = FallbackResponse(last.Content)
		out.Fallback = true
	} else {
		response, err := h.LlmRepository.Complete(ctx, prompt, req.Messages)
		if err != nil || response == "" {
			lg.Warnf("llm provider %s failed, using fallback: %v", h.LlmRepository.Provider(), err)
			out.Response = FallbackResponse(last.Content)
			out.Fallback = true
		} else {
			out.Response = response
		}
	}

	if req.SessionID != nil && h.ChatMessageRepository != nil {
		for _, msg := range []domain.StoredChatMessage{
			{SessionID: *req.SessionID, UserID: req.UserID, Role: domain.ChatRoleUser, Content: last.Content},
			{SessionID: *req.SessionID, UserID: req.UserID, Role: domain.ChatRoleAssistant, Content: out.Response},
		} {
			if _, err := h.ChatMessageRepository.Add(msg); err != nil {
				// the answer is still useful without history
				lg.Errorf("failed to store chat message: %v", err)
			}
		}
	}

	return out, nil
}

// BuildSystemPrompt appends the portfolio snapshot, if any, to the base
// instructions.
func BuildSystemPrompt(chatContext *domain.ChatContext) (string, error) {
	if chatContext == nil {
		return systemPrompt, nil
	}
	b, err := json.Marshal(chatContext)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat context: %w", err)
	}
	return systemPrompt + "\n\n" + contextPreamble + string(b), nil
}

type fallbackRule struct {
	keywords []string
	answer   string
}

var fallbackRules = []fallbackRule{
	{
		keywords: []string{"etf", "fund", "voo", "s&p"},
		answer:   "VOO is a great low-cost ETF that tracks the S&P 500! It offers excellent diversification across 500 large-cap companies with a very low expense ratio of 0.03%.",
	},
	{
		keywords: []string{"risk", "safe", "conservative"},
		answer:   "VOO is considered lower risk due to its broad diversification, while Bitcoin is highly volatile and carries significant risk. Your allocation between VOO and BTC should match your risk tolerance!",
	},
	{
		keywords: []string{"return", "profit", "gain"},
		answer:   "Returns depend on your allocation and market performance. Use the dashboard to simulate different VOO/BTC allocations and see how they perform over time!",
	},
	{
		keywords: []string{"crypto", "bitcoin", "btc"},
		answer:   "Bitcoin (BTC) is a highly volatile but potentially rewarding digital asset. It's uncorrelated with stocks like VOO, which can provide diversification benefits. Consider your risk tolerance!",
	},
}

const defaultFallback = "That's a great question! I'd suggest exploring our investment terms or trying different VOO/BTC allocations in the dashboard to see how they perform over time."

// FallbackResponse is the canned answer used when no model is reachable.
// The first matching rule wins.
func FallbackResponse(userInput string) string {
	lower := strings.ToLower(userInput)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.answer
			}
		}
	}
	return defaultFallback
}

// NewChatContext snapshots a simulation for the assistant.
func NewChatContext(in SimulatePortfolioInput, result *domain.PortfolioResult, summary DashboardSummary, errs []string, riskLevel *int) domain.ChatContext {
	out := domain.ChatContext{
		InvestmentAmount: in.InvestmentAmount,
		InvestmentDate:   in.InvestmentDate.Format("2006-01-02"),
		RiskLevel:        riskLevel,
		Allocations:      in.Allocations.Positive(),
		CashPct:          summary.CashPct.InexactFloat64(),
		CurrentValue:     summary.TotalCurrent.InexactFloat64(),
		TotalReturnPct:   summary.TotalGainLossPct.InexactFloat64(),
		AfterTaxValue:    summary.AfterTaxValue.InexactFloat64(),
		Errors:           errs,
	}
	if result != nil {
		for _, b := range result.SortedBreakdown() {
			out.Assets = append(out.Assets, domain.ChatContextAsset{
				Ticker:      b.Ticker,
				Name:        b.Info.Name,
				Category:    b.Info.Category.DisplayName(),
				Initial:     b.Initial,
				Current:     b.Current,
				GainLossPct: b.GainLossPct,
				Volatility:  b.Volatility,
			})
		}
	}
	return out
}
