// Package advisory reúne los casos de uso de la relación cliente-asesor:
// verificación del asesor y asignación de clientes.
package advisory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
	"github.com/jhoicas/asesoria-financiera/internal/domain/verification"
	"github.com/jhoicas/asesoria-financiera/pkg/validation"
)

// LinkVerification destino de las notificaciones de verificación.
const LinkVerification = "/asesor/verificacion"

// Mensajes de verificación.
const (
	MsgKYCSubmitted        = "Tu información KYC fue enviada y está pendiente de revisión"
	MsgCredentialSubmitted = "Tus credenciales profesionales fueron enviadas y están pendientes de revisión"
	MsgNoChanges           = "No se detectaron cambios en la información de verificación"
)

// Campos de archivo del formulario de verificación.
const (
	DocFotoFrontal     = "fotoFrontal"
	DocFotoReverso     = "fotoReverso"
	DocSelfie          = "selfie"
	DocTituloDocumento = "tituloDocumento"
	DocCertDocumento   = "certDocumento"
)

// DocumentFields campos de archivo en el orden del formulario.
var DocumentFields = []string{DocFotoFrontal, DocFotoReverso, DocSelfie, DocTituloDocumento, DocCertDocumento}

// uploadPlaceholder ocupa la URL de un archivo aún no subido mientras se valida el formulario.
const uploadPlaceholder = "https://upload.invalid/pendiente"

// Document archivo adjunto a un campo del formulario; su URL reemplaza la escrita a mano.
type Document struct {
	Field string
	Image ports.ImageUpload
}

// DocumentUploader sube fotos de documentos y devuelve la URL pública.
type DocumentUploader interface {
	UploadDocument(ctx context.Context, img ports.ImageUpload) (string, error)
}

// VerificationUseCase envío y revisión de las secciones de verificación del asesor.
type VerificationUseCase struct {
	tx            ports.TxRunner
	asesores      repository.AsesorRepository
	notifications *usecase.NotificationUseCase
	documents     DocumentUploader
	pdf           ports.DossierPDFGenerator
	validator     *validation.Validator
	now           func() time.Time
}

// NewVerificationUseCase construye el caso de uso.
func NewVerificationUseCase(
	tx ports.TxRunner,
	asesores repository.AsesorRepository,
	notifications *usecase.NotificationUseCase,
	documents DocumentUploader,
	pdf ports.DossierPDFGenerator,
	validator *validation.Validator,
) *VerificationUseCase {
	return &VerificationUseCase{
		tx:            tx,
		asesores:      asesores,
		notifications: notifications,
		documents:     documents,
		pdf:           pdf,
		validator:     validator,
		now:           time.Now,
	}
}

// Get asesor con sus secciones; ErrNotFound si no existe.
func (uc *VerificationUseCase) Get(ctx context.Context, asesorID string) (*entity.Asesor, error) {
	a, err := uc.asesores.GetByID(ctx, asesorID)
	if err != nil {
		return nil, fmt.Errorf("verificación: obtener asesor: %w", err)
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	normalize(a)
	return a, nil
}

// lockForUpdate relee el asesor dentro de la transacción con la fila bloqueada.
func lockForUpdate(ctx context.Context, repos ports.TxRepos, asesorID string) (*entity.Asesor, error) {
	a, err := repos.Asesores.GetByIDForUpdate(ctx, asesorID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	normalize(a)
	return a, nil
}

func normalize(a *entity.Asesor) {
	a.Verification.Status = verification.Normalize(a.Verification.Status)
	a.Titulo.Status = verification.Normalize(a.Titulo.Status)
	a.Certificacion.Status = verification.Normalize(a.Certificacion.Status)
}

// Submit procesa el formulario de verificación. Las secciones verificadas se ignoran, igual
// que sus archivos; el resto se valida y, si difiere de lo guardado, pasa a pendiente. Los
// archivos se suben solo si el formulario es válido. Con al menos un cambio se guarda todo en
// una transacción junto con una única notificación, comparando contra la fila bloqueada.
func (uc *VerificationUseCase) Submit(ctx context.Context, asesorID string, in dto.VerificationRequest, docs ...Document) (*dto.VerificationResult, error) {
	a, err := uc.Get(ctx, asesorID)
	if err != nil {
		return nil, err
	}
	in = trimRequest(in)
	docs = unlockedDocuments(a, docs)

	check := in
	for _, d := range docs {
		_, target := documentTarget(&check, d.Field)
		*target = uploadPlaceholder
	}
	msgs := uc.validate(a, check)
	for _, d := range docs {
		var verr *domain.ValidationError
		if err := usecase.ValidateImage(d.Image); errors.As(err, &verr) {
			msgs = append(msgs, verr.Messages...)
		}
	}
	if len(msgs) > 0 {
		return nil, domain.NewValidationError(mergeInput(a, in), msgs...)
	}

	for _, d := range docs {
		url, err := uc.documents.UploadDocument(ctx, d.Image)
		if err != nil {
			return nil, fmt.Errorf("verificación: subir %s: %w", d.Field, err)
		}
		_, target := documentTarget(&in, d.Field)
		*target = url
	}

	now := uc.now()
	result := &dto.VerificationResult{Changed: false, Message: MsgNoChanges}
	err = uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		cur, err := lockForUpdate(ctx, repos, asesorID)
		if err != nil {
			return err
		}
		message, changed := applySubmission(cur, in, now)
		if !changed {
			return nil
		}
		if err := repos.Asesores.UpdateVerification(ctx, cur); err != nil {
			return err
		}
		if err := repos.Notifications.Create(ctx, usecase.NewNotification(cur.ID, message, LinkVerification, now)); err != nil {
			return err
		}
		result = &dto.VerificationResult{Changed: true, Message: message}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("verificación: guardar: %w", err)
	}
	return result, nil
}

// validate mensajes de validación de las secciones no bloqueadas.
func (uc *VerificationUseCase) validate(a *entity.Asesor, in dto.VerificationRequest) []string {
	var msgs []string
	if !verification.Locked(a.Verification.Status) {
		msgs = append(msgs, uc.validator.Struct(in.KYC)...)
	}
	if !verification.Locked(a.Titulo.Status) {
		msgs = append(msgs, uc.validator.Struct(in.Titulo)...)
	}
	// La certificación es opcional mientras no se haya enviado nunca.
	certBlank := in.Certificacion == (entity.CertificacionDatos{})
	if !verification.Locked(a.Certificacion.Status) && !(certBlank && a.Certificacion.Status == entity.StatusNoEnviado) {
		msgs = append(msgs, uc.validator.Struct(in.Certificacion)...)
	}
	return msgs
}

// applySubmission aplica el envío sobre a y devuelve el mensaje de la notificación.
// El mensaje de KYC tiene prioridad sobre el de credenciales.
func applySubmission(a *entity.Asesor, in dto.VerificationRequest, now time.Time) (string, bool) {
	kyc := verification.Submit(a.Verification.Status, a.Verification.FechaEnvio, a.Verification.KYCDatos, in.KYC, now)
	titulo := verification.Submit(a.Titulo.Status, a.Titulo.FechaEnvio, a.Titulo.TituloDatos, in.Titulo, now)
	cert := verification.Outcome[entity.CertificacionDatos]{
		Data: a.Certificacion.CertificacionDatos, Status: a.Certificacion.Status, FechaEnvio: a.Certificacion.FechaEnvio,
	}
	if in.Certificacion != (entity.CertificacionDatos{}) {
		cert = verification.Submit(a.Certificacion.Status, a.Certificacion.FechaEnvio, a.Certificacion.CertificacionDatos, in.Certificacion, now)
	}
	if !kyc.Changed && !titulo.Changed && !cert.Changed {
		return "", false
	}

	if kyc.Changed {
		a.Verification = entity.KYCVerification{KYCDatos: kyc.Data, Status: kyc.Status, FechaEnvio: kyc.FechaEnvio}
	}
	if titulo.Changed {
		a.Titulo = entity.TituloVerification{TituloDatos: titulo.Data, Status: titulo.Status, FechaEnvio: titulo.FechaEnvio}
	}
	if cert.Changed {
		a.Certificacion = entity.CertificacionVerification{CertificacionDatos: cert.Data, Status: cert.Status, FechaEnvio: cert.FechaEnvio}
	}
	if kyc.Changed {
		return MsgKYCSubmitted, true
	}
	return MsgCredentialSubmitted, true
}

// documentTarget sección y campo URL que alimenta el archivo field.
func documentTarget(in *dto.VerificationRequest, field string) (string, *string) {
	switch field {
	case DocFotoFrontal:
		return entity.SectionKYC, &in.KYC.FotoFrontalURL
	case DocFotoReverso:
		return entity.SectionKYC, &in.KYC.FotoReversoURL
	case DocSelfie:
		return entity.SectionKYC, &in.KYC.SelfieURL
	case DocTituloDocumento:
		return entity.SectionTitulo, &in.Titulo.DocumentoURL
	case DocCertDocumento:
		return entity.SectionCertificacion, &in.Certificacion.DocumentoURL
	}
	return "", nil
}

// unlockedDocuments descarta archivos de campos desconocidos o de secciones verificadas.
func unlockedDocuments(a *entity.Asesor, docs []Document) []Document {
	status := map[string]string{
		entity.SectionKYC:           a.Verification.Status,
		entity.SectionTitulo:        a.Titulo.Status,
		entity.SectionCertificacion: a.Certificacion.Status,
	}
	var out []Document
	var scratch dto.VerificationRequest
	for _, d := range docs {
		section, target := documentTarget(&scratch, d.Field)
		if target == nil || verification.Locked(status[section]) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// mergeInput datos para volver a pintar el formulario: lo enviado sobre lo guardado,
// salvo las secciones bloqueadas, que muestran siempre lo guardado.
func mergeInput(a *entity.Asesor, in dto.VerificationRequest) dto.VerificationRequest {
	out := in
	if verification.Locked(a.Verification.Status) {
		out.KYC = a.Verification.KYCDatos
	}
	if verification.Locked(a.Titulo.Status) {
		out.Titulo = a.Titulo.TituloDatos
	}
	if verification.Locked(a.Certificacion.Status) {
		out.Certificacion = a.Certificacion.CertificacionDatos
	}
	return out
}

func trimRequest(in dto.VerificationRequest) dto.VerificationRequest {
	k := &in.KYC
	for _, p := range []*string{&k.TipoDocumento, &k.NumeroDocumento, &k.PaisEmision, &k.FechaExpiracion, &k.FotoFrontalURL, &k.FotoReversoURL, &k.SelfieURL} {
		*p = strings.TrimSpace(*p)
	}
	t := &in.Titulo
	for _, p := range []*string{&t.Institucion, &t.NombreTitulo, &t.AnioObtencion, &t.DocumentoURL} {
		*p = strings.TrimSpace(*p)
	}
	c := &in.Certificacion
	for _, p := range []*string{&c.EntidadEmisora, &c.NombreCertificacion, &c.NumeroCertificacion, &c.DocumentoURL} {
		*p = strings.TrimSpace(*p)
	}
	return in
}
