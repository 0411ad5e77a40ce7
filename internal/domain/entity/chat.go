package entity

import "time"

// ChatRoom conversación entre un cliente y su asesor; el ID es determinista (ver domain/chat).
type ChatRoom struct {
	ID            string
	ClienteID     string
	AsesorID      string
	LastMessage   string
	LastMessageAt *time.Time
	LastSenderID  string
	UnreadCliente int
	UnreadAsesor  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ChatMessage mensaje de una sala. Timestamp lo aporta el cliente que envía.
type ChatMessage struct {
	ID         string
	RoomID     string
	SenderID   string
	SenderType string // cliente, asesor
	Text       string
	Timestamp  time.Time
}
