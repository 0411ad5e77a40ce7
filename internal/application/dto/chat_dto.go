package dto

import "time"

// SendMessageRequest cuerpo de POST /api/chat/mensajes.
// Timestamp lo fija el navegador (milisegundos Unix).
type SendMessageRequest struct {
	RecipientID string `json:"recipientId" form:"recipientId"`
	Text        string `json:"text" form:"text"`
	Timestamp   int64  `json:"timestamp" form:"timestamp"`
}

// ChatMessageResponse mensaje de una sala.
type ChatMessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderType string    `json:"senderType"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatMessagesResponse historial completo de una sala.
type ChatMessagesResponse struct {
	Success  bool                  `json:"success"`
	RoomID   string                `json:"roomId"`
	Messages []ChatMessageResponse `json:"messages"`
}

// SendMessageResponse confirmación del envío.
type SendMessageResponse struct {
	Success bool                `json:"success"`
	RoomID  string              `json:"roomId"`
	Message ChatMessageResponse `json:"message"`
}

// ChatContact interlocutor en la lista de chats con su contador de no leídos.
type ChatContact struct {
	UserID      string
	Nombre      string
	FotoURL     string
	RoomID      string
	LastMessage string
	Unread      int
}
