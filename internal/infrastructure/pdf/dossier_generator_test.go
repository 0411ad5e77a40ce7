package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

func TestGenerateDossier_ProducePDF(t *testing.T) {
	enviado := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	a := &entity.Asesor{
		ID: "a1", Email: "ana@test.com", Nombre: "Ana", Apellido: "Pérez",
		Especialidad: "Inversiones", ExperienciaAnios: 8, TarifaHora: decimal.NewFromInt(120000), Activo: true,
		Verification: entity.KYCVerification{
			KYCDatos: entity.KYCDatos{TipoDocumento: "cedula", NumeroDocumento: "12345678"},
			Status:   entity.StatusVerificado, FechaEnvio: &enviado,
		},
		Titulo:            entity.TituloVerification{Status: entity.StatusPendiente},
		Certificacion:     entity.CertificacionVerification{Status: entity.StatusNoEnviado, MotivoRechazo: "Documento ilegible"},
		ClientesAsignados: []string{"c1"},
	}

	out, err := NewMarotoDossierGenerator().GenerateDossier(context.Background(), a)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateDossier_AsesorNil(t *testing.T) {
	_, err := NewMarotoDossierGenerator().GenerateDossier(context.Background(), nil)
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "950", formatMoney("950"))
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "VERIFICADO", statusLabel(entity.StatusVerificado))
	assert.Equal(t, "PENDIENTE DE REVISIÓN", statusLabel(entity.StatusPendiente))
	assert.Equal(t, "NO ENVIADO", statusLabel(""))
}
