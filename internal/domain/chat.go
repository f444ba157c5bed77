package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatContext is the snapshot of a simulated portfolio handed to the
// assistant. It is a passive payload; the assistant never calls back
// into the simulation.
type ChatContext struct {
	InvestmentAmount float64            `json:"investmentAmount"`
	InvestmentDate   string             `json:"investmentDate,omitempty"`
	RiskLevel        *int               `json:"riskLevel,omitempty"`
	Allocations      AllocationSet      `json:"allocations,omitempty"`
	CashPct          float64            `json:"cashPct"`
	CurrentValue     float64            `json:"currentValue"`
	TotalReturnPct   float64            `json:"totalReturnPct"`
	AfterTaxValue    float64            `json:"afterTaxValue"`
	Assets           []ChatContextAsset `json:"assets,omitempty"`
	Errors           []string           `json:"errors,omitempty"`
}

type ChatContextAsset struct {
	Ticker      string  `json:"ticker"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Initial     float64 `json:"initial"`
	Current     float64 `json:"current"`
	GainLossPct float64 `json:"gainLossPct"`
	Volatility  float64 `json:"volatility"`
}

// StoredChatMessage is a persisted conversation turn.
type StoredChatMessage struct {
	ChatMessageID uuid.UUID `json:"chatMessageId"`
	SessionID     uuid.UUID `json:"sessionId"`
	UserID        *string   `json:"userId,omitempty"`
	Role          ChatRole  `json:"role"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}
