package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta JSON estándar {success, message}.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RedirectResponse respuesta con destino de navegación para el navegador.
type RedirectResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
