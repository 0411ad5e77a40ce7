package verification_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/verification"
)

var now = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func TestSubmit_SeccionVerificadaNoCambia(t *testing.T) {
	stored := entity.TituloDatos{Institucion: "U. Nacional", NombreTitulo: "Economista", AnioObtencion: "2010", DocumentoURL: "https://x/t.pdf"}
	enviado := entity.TituloDatos{Institucion: "Otra", NombreTitulo: "Otro", AnioObtencion: "2020", DocumentoURL: "https://x/o.pdf"}
	antes := now.Add(-48 * time.Hour)

	out := verification.Submit(entity.StatusVerificado, &antes, stored, enviado, now)

	assert.False(t, out.Changed)
	assert.Equal(t, stored, out.Data)
	assert.Equal(t, entity.StatusVerificado, out.Status)
	assert.Equal(t, &antes, out.FechaEnvio)
}

func TestSubmit_DatosDistintosPasanAPendiente(t *testing.T) {
	stored := entity.KYCDatos{NumeroDocumento: "111"}
	enviado := entity.KYCDatos{NumeroDocumento: "222"}

	out := verification.Submit("", nil, stored, enviado, now)

	assert.True(t, out.Changed)
	assert.Equal(t, enviado, out.Data)
	assert.Equal(t, entity.StatusPendiente, out.Status)
	assert.Equal(t, now, *out.FechaEnvio)
}

func TestSubmit_DatosIgualesNoCambian(t *testing.T) {
	datos := entity.CertificacionDatos{EntidadEmisora: "CFA Institute"}

	out := verification.Submit(entity.StatusPendiente, nil, datos, datos, now)

	assert.False(t, out.Changed)
	assert.Equal(t, entity.StatusPendiente, out.Status)
}

func TestNormalizeYReview(t *testing.T) {
	assert.Equal(t, entity.StatusNoEnviado, verification.Normalize(""))
	assert.Equal(t, entity.StatusPendiente, verification.Normalize(entity.StatusPendiente))
	assert.True(t, verification.Reviewable(entity.StatusPendiente))
	assert.False(t, verification.Reviewable(entity.StatusVerificado))
	assert.Equal(t, entity.StatusVerificado, verification.Review(true))
	assert.Equal(t, entity.StatusNoEnviado, verification.Review(false))
}

func TestSubmit_RechazadaSeReenviaConLosMismosDatos(t *testing.T) {
	datos := entity.TituloDatos{Institucion: "U. Andes", NombreTitulo: "Finanzas", AnioObtencion: "2015", DocumentoURL: "https://x/t.pdf"}

	out := verification.Submit(entity.StatusNoEnviado, nil, datos, datos, now)

	assert.True(t, out.Changed)
	assert.Equal(t, entity.StatusPendiente, out.Status)
}

func TestSubmit_SeccionVaciaSinEnviarNoCambia(t *testing.T) {
	out := verification.Submit("", nil, entity.CertificacionDatos{}, entity.CertificacionDatos{}, now)

	assert.False(t, out.Changed)
	assert.Equal(t, entity.StatusNoEnviado, out.Status)
}
