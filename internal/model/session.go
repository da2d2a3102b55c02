package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	SessionID  uuid.UUID
	TelegramID int64
	CreatedAt  time.Time
}
