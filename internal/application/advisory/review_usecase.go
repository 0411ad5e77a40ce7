package advisory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/verification"
)

var sectionNames = map[string]string{
	entity.SectionKYC:           "KYC",
	entity.SectionTitulo:        "título profesional",
	entity.SectionCertificacion: "certificación",
}

// ListPending asesores con al menos una sección pendiente de revisión.
func (uc *VerificationUseCase) ListPending(ctx context.Context) ([]*entity.Asesor, error) {
	list, err := uc.asesores.ListPendingVerification(ctx)
	if err != nil {
		return nil, fmt.Errorf("verificación: listar pendientes: %w", err)
	}
	return list, nil
}

// Review aprueba o rechaza una sección pendiente. Rechazar la devuelve a no-enviado con el
// motivo. La sección se relee con la fila bloqueada para no pisar un envío simultáneo del
// asesor. El asesor recibe una notificación (sin afectar el resultado si falla).
func (uc *VerificationUseCase) Review(ctx context.Context, asesorID string, in dto.ReviewRequest) error {
	if !entity.ValidSection(in.Section) {
		return domain.ErrInvalidInput
	}
	motivo := strings.TrimSpace(in.Motivo)
	if !in.Approve && motivo == "" {
		return domain.NewValidationError(in, "Indica el motivo del rechazo")
	}

	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		a, err := lockForUpdate(ctx, repos, asesorID)
		if err != nil {
			return err
		}
		var status, rechazo *string
		switch in.Section {
		case entity.SectionKYC:
			status, rechazo = &a.Verification.Status, &a.Verification.MotivoRechazo
		case entity.SectionTitulo:
			status, rechazo = &a.Titulo.Status, &a.Titulo.MotivoRechazo
		case entity.SectionCertificacion:
			status, rechazo = &a.Certificacion.Status, &a.Certificacion.MotivoRechazo
		}
		if !verification.Reviewable(*status) {
			return domain.ErrConflict
		}
		*status = verification.Review(in.Approve)
		*rechazo = ""
		if !in.Approve {
			*rechazo = motivo
		}
		return repos.Asesores.UpdateVerification(ctx, a)
	})
	if err != nil {
		return fmt.Errorf("verificación: guardar revisión: %w", err)
	}

	msg := fmt.Sprintf("La sección %s de tu verificación fue aprobada", sectionNames[in.Section])
	if !in.Approve {
		msg = fmt.Sprintf("La sección %s de tu verificación fue rechazada: %s", sectionNames[in.Section], motivo)
	}
	uc.notifications.Add(ctx, asesorID, msg, LinkVerification)
	return nil
}

// SetActive activa o desactiva al asesor.
func (uc *VerificationUseCase) SetActive(ctx context.Context, asesorID string, active bool) error {
	if _, err := uc.Get(ctx, asesorID); err != nil {
		return err
	}
	if err := uc.asesores.SetActive(ctx, asesorID, active); err != nil {
		return fmt.Errorf("verificación: activar asesor: %w", err)
	}
	return nil
}

// Dossier expediente PDF de verificación del asesor y su nombre de archivo.
func (uc *VerificationUseCase) Dossier(ctx context.Context, asesorID string) ([]byte, string, error) {
	a, err := uc.Get(ctx, asesorID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.pdf.GenerateDossier(ctx, a)
	if err != nil {
		return nil, "", fmt.Errorf("verificación: generar expediente: %w", err)
	}
	return pdf, fmt.Sprintf("expediente_%s.pdf", a.ID), nil
}
