package ports

import (
	"context"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

// DossierPDFGenerator genera el expediente de verificación de un asesor en PDF.
type DossierPDFGenerator interface {
	GenerateDossier(ctx context.Context, asesor *entity.Asesor) ([]byte, error)
}
