package domain

import (
	"time"

	"github.com/google/uuid"
)

type ApiRequest struct {
	RequestID    uuid.UUID
	UserID       *string
	IPAddress    *string
	Method       string
	Route        string
	RequestBody  *string
	StartTs      time.Time
	DurationMs   *int64
	StatusCode   *int32
	ResponseBody *string
}
