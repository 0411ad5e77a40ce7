package dto

import "github.com/jhoicas/asesoria-financiera/internal/domain/entity"

// VerificationRequest formulario de verificación con sus tres secciones.
type VerificationRequest struct {
	KYC           entity.KYCDatos
	Titulo        entity.TituloDatos
	Certificacion entity.CertificacionDatos
}

// VerificationResult resultado del envío de verificación.
type VerificationResult struct {
	Changed bool
	Message string
}

// ReviewRequest revisión de una sección por el administrador.
type ReviewRequest struct {
	Section string `form:"section" json:"section"`
	Approve bool   `form:"approve" json:"approve"`
	Motivo  string `form:"motivo" json:"motivo"`
}

// AssignRequest cuerpo de POST /cliente/asignar-asesor.
type AssignRequest struct {
	AsesorID string `json:"asesorId" form:"asesorId"`
}
