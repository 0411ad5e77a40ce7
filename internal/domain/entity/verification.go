package entity

import "time"

// Estados de cada sección de verificación: no-enviado → pendiente → verificado.
const (
	StatusNoEnviado  = "no-enviado"
	StatusPendiente  = "pendiente"
	StatusVerificado = "verificado"
)

// Secciones de verificación del asesor.
const (
	SectionKYC           = "kyc"
	SectionTitulo        = "titulo"
	SectionCertificacion = "certificacion"
)

// KYCDatos campos del documento de identidad enviados por el asesor.
type KYCDatos struct {
	TipoDocumento   string `json:"tipoDocumento" form:"tipoDocumento" label:"Tipo de documento" validate:"required,oneof=cedula pasaporte cedula_extranjeria"`
	NumeroDocumento string `json:"numeroDocumento" form:"numeroDocumento" label:"Número de documento" validate:"required,min=5,max=20"`
	PaisEmision     string `json:"paisEmision" form:"paisEmision" label:"País de emisión" validate:"required"`
	FechaExpiracion string `json:"fechaExpiracion" form:"fechaExpiracion" label:"Fecha de expiración" validate:"required,datetime=2006-01-02"`
	FotoFrontalURL  string `json:"fotoFrontalURL" form:"fotoFrontalURL" label:"Foto frontal del documento" validate:"required,httpurl"`
	FotoReversoURL  string `json:"fotoReversoURL" form:"fotoReversoURL" label:"Foto del reverso" validate:"omitempty,httpurl"`
	SelfieURL       string `json:"selfieURL" form:"selfieURL" label:"Selfie con documento" validate:"required,httpurl"`
}

// KYCVerification sección KYC almacenada.
type KYCVerification struct {
	KYCDatos
	Status        string     `json:"status"`
	FechaEnvio    *time.Time `json:"fechaEnvio,omitempty"`
	MotivoRechazo string     `json:"motivoRechazo,omitempty"`
}

// TituloDatos título profesional.
type TituloDatos struct {
	Institucion   string `json:"institucion" form:"institucion" label:"Institución" validate:"required,max=200"`
	NombreTitulo  string `json:"nombreTitulo" form:"nombreTitulo" label:"Nombre del título" validate:"required,max=200"`
	AnioObtencion string `json:"anioObtencion" form:"anioObtencion" label:"Año de obtención" validate:"required,numeric,len=4"`
	DocumentoURL  string `json:"documentoURL" form:"tituloDocumentoURL" label:"Documento del título" validate:"required,httpurl"`
}

// TituloVerification sección título almacenada.
type TituloVerification struct {
	TituloDatos
	Status        string     `json:"status"`
	FechaEnvio    *time.Time `json:"fechaEnvio,omitempty"`
	MotivoRechazo string     `json:"motivoRechazo,omitempty"`
}

// CertificacionDatos certificación profesional (CFA, CFP, etc.).
type CertificacionDatos struct {
	EntidadEmisora      string `json:"entidadEmisora" form:"entidadEmisora" label:"Entidad emisora" validate:"required,max=200"`
	NombreCertificacion string `json:"nombreCertificacion" form:"nombreCertificacion" label:"Nombre de la certificación" validate:"required,max=200"`
	NumeroCertificacion string `json:"numeroCertificacion" form:"numeroCertificacion" label:"Número de certificación" validate:"required,max=100"`
	DocumentoURL        string `json:"documentoURL" form:"certDocumentoURL" label:"Documento de la certificación" validate:"required,httpurl"`
}

// CertificacionVerification sección certificación almacenada.
type CertificacionVerification struct {
	CertificacionDatos
	Status        string     `json:"status"`
	FechaEnvio    *time.Time `json:"fechaEnvio,omitempty"`
	MotivoRechazo string     `json:"motivoRechazo,omitempty"`
}

// ValidSection indica si s es una sección conocida.
func ValidSection(s string) bool {
	return s == SectionKYC || s == SectionTitulo || s == SectionCertificacion
}
