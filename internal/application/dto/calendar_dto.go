package dto

import "time"

// CalendarEventRequest cuerpo de creación/edición de eventos.
// Date acepta "2006-01-02", "2006-01-02T15:04" o RFC3339. Al editar, un campo puntero
// ausente no cambia y End o Description vacíos se borran.
type CalendarEventRequest struct {
	Title       string  `json:"title" form:"title"`
	Date        string  `json:"date" form:"date"`
	End         *string `json:"end" form:"end"`
	Description *string `json:"description" form:"description"`
	AllDay      *bool   `json:"allDay" form:"allDay"`
}

// CalendarEventResponse evento en el formato que consume el calendario del navegador.
type CalendarEventResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	Description string     `json:"description,omitempty"`
	AllDay      bool       `json:"allDay"`
}

// CalendarResult respuesta {success, message, eventId?}.
type CalendarResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	EventID string `json:"eventId,omitempty"`
}
