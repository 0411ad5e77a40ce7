package entity

import "time"

// Notification aviso para un usuario; se agrega y nunca se borra, solo cambia Read.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	Link      string
	Read      bool
	Timestamp time.Time
}
