package entity

import "time"

// CalendarEvent evento de calendario de un único dueño (asesor o cliente).
type CalendarEvent struct {
	ID          string
	OwnerID     string
	OwnerType   string
	Title       string
	Start       time.Time
	End         *time.Time
	Description string
	AllDay      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
