package api

import (
	"fmt"
	"investorly/internal/domain"
	"investorly/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type llmRequest struct {
	Messages  []domain.ChatMessage `json:"messages"`
	Context   *domain.ChatContext  `json:"context"`
	SessionID *string              `json:"sessionId"`
}

const maxChatMessageLength = 4000

func (m ApiHandler) llm(c *gin.Context) {
	var requestBody llmRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
		return
	}

	for _, msg := range requestBody.Messages {
		if len(msg.Content) > maxChatMessageLength {
			returnErrorJsonCode(fmt.Errorf("message too long - must be < %d characters", maxChatMessageLength), c, 400)
			return
		}
	}

	req := service.ChatRequest{
		Messages: requestBody.Messages,
		Context:  requestBody.Context,
		UserID:   getUserID(c),
	}
	if requestBody.SessionID != nil {
		sessionID, err := uuid.Parse(*requestBody.SessionID)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid sessionId: %w", err), c, 400)
			return
		}
		req.SessionID = &sessionID
	}

	out, err := m.ChatService.Respond(c, req)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, out)
}
