package dto

import "time"

// NotificationResponse notificación expuesta al navegador.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationSummary widget de notificaciones: no leídas + últimas 5.
type NotificationSummary struct {
	Success             bool                   `json:"success"`
	UnreadCount         int                    `json:"unreadCount"`
	LatestNotifications []NotificationResponse `json:"latestNotifications"`
}

// MarkReadRequest cuerpo de POST /asesor/notificaciones/marcar-leida.
type MarkReadRequest struct {
	NotificationID string `json:"notificationId" form:"notificationId"`
}
