package key_value

import (
	"fmt"

	"github.com/google/uuid"
)

func getTelegramSessionKey(telegramID int64) string {
	return fmt.Sprintf("session_telegram_%d", telegramID)
}

func getSessionKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session_%v", sessionID.String())
}

func getStoreKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("store_%v", sessionID.String())
}

func getChatIDKey(chatID uuid.UUID) string {
	return fmt.Sprintf("chat_%v", chatID.String())
}

func getChatMessagesKey(chatID uuid.UUID) string {
	return fmt.Sprintf("chat_messages_%v", chatID.String())
}
