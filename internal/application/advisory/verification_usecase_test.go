package advisory_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asesoria-financiera/internal/application/advisory"
	"github.com/jhoicas/asesoria-financiera/internal/application/apptest"
	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
	"github.com/jhoicas/asesoria-financiera/pkg/logger"
	"github.com/jhoicas/asesoria-financiera/pkg/validation"
)

func kycValido() entity.KYCDatos {
	return entity.KYCDatos{
		TipoDocumento:   "cedula",
		NumeroDocumento: "1020304050",
		PaisEmision:     "Colombia",
		FechaExpiracion: "2030-01-31",
		FotoFrontalURL:  "https://img.test/frontal.png",
		SelfieURL:       "https://img.test/selfie.png",
	}
}

func tituloValido() entity.TituloDatos {
	return entity.TituloDatos{
		Institucion:   "Universidad Nacional",
		NombreTitulo:  "Economista",
		AnioObtencion: "2012",
		DocumentoURL:  "https://img.test/titulo.png",
	}
}

func newVerificationUC(store *apptest.Store) *advisory.VerificationUseCase {
	return newVerificationUCWith(store, store, store.Asesores(), apptest.NewImages())
}

func newVerificationUCWith(store *apptest.Store, tx ports.TxRunner, asesores repository.AsesorRepository, images *apptest.Images) *advisory.VerificationUseCase {
	v := validation.New()
	notif := usecase.NewNotificationUseCase(store.Notifications(), store.Users(), logger.Nop())
	profiles := usecase.NewProfileUseCase(store.Clientes(), store.Asesores(), images, v)
	return advisory.NewVerificationUseCase(tx, asesores, notif, profiles, apptest.PDF{}, v)
}

// asesoresConIntercalado ejecuta intercalar una vez, justo después de la primera lectura.
type asesoresConIntercalado struct {
	repository.AsesorRepository
	intercalar func()
}

func (r *asesoresConIntercalado) GetByID(ctx context.Context, id string) (*entity.Asesor, error) {
	a, err := r.AsesorRepository.GetByID(ctx, id)
	if f := r.intercalar; f != nil {
		r.intercalar = nil
		f()
	}
	return a, err
}

// txConIntercalado ejecuta intercalar una vez antes de abrir la transacción.
type txConIntercalado struct {
	store      *apptest.Store
	intercalar func()
}

func (t *txConIntercalado) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	if f := t.intercalar; f != nil {
		t.intercalar = nil
		f()
	}
	return t.store.Run(ctx, fn)
}

func imagen(nombre string) ports.ImageUpload {
	body := "\x89PNG " + nombre
	return ports.ImageUpload{Filename: nombre, ContentType: "image/png", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestSubmit_PrimerEnvioUnaSolaNotificacionKYC(t *testing.T) {
	store := apptest.NewStore()
	store.SeedAsesor(entity.Asesor{ID: "a1"})
	uc := newVerificationUC(store)

	out, err := uc.Submit(context.Background(), "a1", dto.VerificationRequest{KYC: kycValido(), Titulo: tituloValido()})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, advisory.MsgKYCSubmitted, out.Message)

	a, _ := store.Asesor("a1")
	assert.Equal(t, entity.StatusPendiente, a.Verification.Status)
	assert.Equal(t, entity.StatusPendiente, a.Titulo.Status)
	assert.NotNil(t, a.Verification.FechaEnvio)
	assert.Equal(t, entity.StatusNoEnviado, a.Certificacion.Status, "certificación vacía no se envía")

	notifs := store.NotificationsOf("a1")
	require.Len(t, notifs, 1)
	assert.Equal(t, advisory.MsgKYCSubmitted, notifs[0].Message)
	assert.Equal(t, advisory.LinkVerification, notifs[0].Link)
}

func TestSubmit_SoloCredencialesUsaMensajeDeCredenciales(t *testing.T) {
	store := apptest.NewStore()
	antes := time.Now().Add(-time.Hour)
	store.SeedAsesor(entity.Asesor{
		ID:           "a1",
		Verification: entity.KYCVerification{KYCDatos: kycValido(), Status: entity.StatusVerificado, FechaEnvio: &antes},
	})
	uc := newVerificationUC(store)

	out, err := uc.Submit(context.Background(), "a1", dto.VerificationRequest{Titulo: tituloValido()})
	require.NoError(t, err)
	assert.Equal(t, advisory.MsgCredentialSubmitted, out.Message)
	require.Len(t, store.NotificationsOf("a1"), 1)
}

func TestSubmit_SeccionVerificadaNuncaCambia(t *testing.T) {
	store := apptest.NewStore()
	antes := time.Now().Add(-time.Hour)
	guardado := kycValido()
	store.SeedAsesor(entity.Asesor{
		ID:           "a1",
		Verification: entity.KYCVerification{KYCDatos: guardado, Status: entity.StatusVerificado, FechaEnvio: &antes},
		Titulo:       entity.TituloVerification{TituloDatos: tituloValido(), Status: entity.StatusVerificado, FechaEnvio: &antes},
	})
	uc := newVerificationUC(store)

	intento := entity.KYCDatos{TipoDocumento: "x", FotoFrontalURL: "no-es-url"}
	out, err := uc.Submit(context.Background(), "a1", dto.VerificationRequest{KYC: intento, Titulo: entity.TituloDatos{}})
	require.NoError(t, err, "las secciones verificadas no se validan")
	assert.False(t, out.Changed)
	assert.Equal(t, advisory.MsgNoChanges, out.Message)

	a, _ := store.Asesor("a1")
	assert.Equal(t, guardado, a.Verification.KYCDatos)
	assert.Equal(t, entity.StatusVerificado, a.Verification.Status)
	assert.Empty(t, store.NotificationsOf("a1"))
}

func TestSubmit_SinCambiosNoEscribe(t *testing.T) {
	store := apptest.NewStore()
	antes := time.Now().Add(-time.Hour)
	store.SeedAsesor(entity.Asesor{
		ID:           "a1",
		Verification: entity.KYCVerification{KYCDatos: kycValido(), Status: entity.StatusPendiente, FechaEnvio: &antes},
		Titulo:       entity.TituloVerification{TituloDatos: tituloValido(), Status: entity.StatusPendiente, FechaEnvio: &antes},
	})
	uc := newVerificationUC(store)

	out, err := uc.Submit(context.Background(), "a1", dto.VerificationRequest{KYC: kycValido(), Titulo: tituloValido()})
	require.NoError(t, err)
	assert.False(t, out.Changed)
	a, _ := store.Asesor("a1")
	assert.Equal(t, &antes, a.Verification.FechaEnvio)
	assert.Empty(t, store.NotificationsOf("a1"))
}

func TestSubmit_ValidacionConservaEntradaYNoEscribe(t *testing.T) {
	store := apptest.NewStore()
	store.SeedAsesor(entity.Asesor{ID: "a1"})
	uc := newVerificationUC(store)
	kyc := kycValido()
	kyc.SelfieURL = "ftp://img.test/selfie.png"

	_, err := uc.Submit(context.Background(), "a1", dto.VerificationRequest{KYC: kyc, Titulo: tituloValido()})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Selfie con documento debe ser una URL http(s) válida"}, verr.Messages)
	assert.Equal(t, kyc, verr.Input.(dto.VerificationRequest).KYC)

	a, _ := store.Asesor("a1")
	assert.Equal(t, "", a.Verification.Status)
	assert.Empty(t, store.NotificationsOf("a1"))
}

func TestSubmit_FallaNotificacionRevierteTodo(t *testing.T) {
	store := apptest.NewStore()
	store.SeedAsesor(entity.Asesor{ID: "a1"})
	store.FailOn("Notifications.Create", errors.New("db caída"))
	uc := newVerificationUC(store)

	_, err := uc.Submit(context.Background(), "a1", dto.VerificationRequest{KYC: kycValido(), Titulo: tituloValido()})
	require.Error(t, err)
	a, _ := store.Asesor("a1")
	assert.Equal(t, "", a.Verification.Status)
}

func TestReview_AprobarYRechazar(t *testing.T) {
	store := apptest.NewStore()
	store.SeedAsesor(entity.Asesor{ID: "a1"})
	uc := newVerificationUC(store)
	ctx := context.Background()
	_, err := uc.Submit(ctx, "a1", dto.VerificationRequest{KYC: kycValido(), Titulo: tituloValido()})
	require.NoError(t, err)

	require.NoError(t, uc.Review(ctx, "a1", dto.ReviewRequest{Section: entity.SectionKYC, Approve: true}))
	err = uc.Review(ctx, "a1", dto.ReviewRequest{Section: entity.SectionTitulo, Approve: false})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "rechazo sin motivo")
	require.NoError(t, uc.Review(ctx, "a1", dto.ReviewRequest{Section: entity.SectionTitulo, Motivo: "Documento ilegible"}))

	a, _ := store.Asesor("a1")
	assert.Equal(t, entity.StatusVerificado, a.Verification.Status)
	assert.Equal(t, entity.StatusNoEnviado, a.Titulo.Status)
	assert.Equal(t, "Documento ilegible", a.Titulo.MotivoRechazo)
	assert.Len(t, store.NotificationsOf("a1"), 3)

	err = uc.Review(ctx, "a1", dto.ReviewRequest{Section: entity.SectionKYC, Approve: true})
	assert.True(t, errors.Is(err, domain.ErrConflict), "solo se revisan secciones pendientes")
	err = uc.Review(ctx, "a1", dto.ReviewRequest{Section: "otra", Approve: true})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSetActiveYDossier(t *testing.T) {
	store := apptest.NewStore()
	store.SeedAsesor(entity.Asesor{ID: "a1", Activo: true})
	uc := newVerificationUC(store)
	ctx := context.Background()

	require.NoError(t, uc.SetActive(ctx, "a1", false))
	a, _ := store.Asesor("a1")
	assert.False(t, a.Activo)

	pdf, name, err := uc.Dossier(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "expediente_a1.pdf", name)
	assert.NotEmpty(t, pdf)

	_, _, err = uc.Dossier(ctx, "zz")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSubmit_AprobacionIntercaladaNoSeRevierte(t *testing.T) {
	store := apptest.NewStore()
	antes := time.Now().Add(-time.Hour)
	store.SeedAsesor(entity.Asesor{
		ID:           "a1",
		Verification: entity.KYCVerification{KYCDatos: kycValido(), Status: entity.StatusPendiente, FechaEnvio: &antes},
	})
	admin := newVerificationUC(store)
	ctx := context.Background()
	asesores := &asesoresConIntercalado{AsesorRepository: store.Asesores()}
	asesores.intercalar = func() {
		require.NoError(t, admin.Review(ctx, "a1", dto.ReviewRequest{Section: entity.SectionKYC, Approve: true}))
	}
	uc := newVerificationUCWith(store, store, asesores, apptest.NewImages())

	out, err := uc.Submit(ctx, "a1", dto.VerificationRequest{KYC: kycValido(), Titulo: tituloValido()})
	require.NoError(t, err)
	assert.Equal(t, advisory.MsgCredentialSubmitted, out.Message)

	a, _ := store.Asesor("a1")
	assert.Equal(t, entity.StatusVerificado, a.Verification.Status, "la aprobación del administrador se conserva")
	assert.Equal(t, entity.StatusPendiente, a.Titulo.Status)
	assert.Equal(t, tituloValido(), a.Titulo.TituloDatos)
}

func TestReview_EnvioIntercaladoNoSePierde(t *testing.T) {
	store := apptest.NewStore()
	antes := time.Now().Add(-time.Hour)
	store.SeedAsesor(entity.Asesor{
		ID:           "a1",
		Verification: entity.KYCVerification{KYCDatos: kycValido(), Status: entity.StatusPendiente, FechaEnvio: &antes},
	})
	asesor := newVerificationUC(store)
	ctx := context.Background()
	tx := &txConIntercalado{store: store}
	tx.intercalar = func() {
		_, err := asesor.Submit(ctx, "a1", dto.VerificationRequest{KYC: kycValido(), Titulo: tituloValido()})
		require.NoError(t, err)
	}
	admin := newVerificationUCWith(store, tx, store.Asesores(), apptest.NewImages())

	require.NoError(t, admin.Review(ctx, "a1", dto.ReviewRequest{Section: entity.SectionKYC, Approve: true}))

	a, _ := store.Asesor("a1")
	assert.Equal(t, entity.StatusVerificado, a.Verification.Status)
	assert.Equal(t, entity.StatusPendiente, a.Titulo.Status, "el título enviado mientras tanto se conserva")
	assert.Equal(t, tituloValido(), a.Titulo.TituloDatos)
}

func TestSubmit_ArchivosSoloTrasValidarYSinSeccionesVerificadas(t *testing.T) {
	store := apptest.NewStore()
	antes := time.Now().Add(-time.Hour)
	store.SeedAsesor(entity.Asesor{
		ID:           "a1",
		Verification: entity.KYCVerification{KYCDatos: kycValido(), Status: entity.StatusVerificado, FechaEnvio: &antes},
	})
	images := apptest.NewImages()
	uc := newVerificationUCWith(store, store, store.Asesores(), images)
	ctx := context.Background()
	titulo := tituloValido()
	titulo.DocumentoURL = ""
	titulo.Institucion = ""

	_, err := uc.Submit(ctx, "a1", dto.VerificationRequest{Titulo: titulo},
		advisory.Document{Field: advisory.DocTituloDocumento, Image: imagen("titulo.png")})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Institución es obligatorio"}, verr.Messages)
	assert.Empty(t, images.Uploads, "nada se sube si el formulario es inválido")

	titulo.Institucion = "Universidad Nacional"
	out, err := uc.Submit(ctx, "a1", dto.VerificationRequest{Titulo: titulo},
		advisory.Document{Field: advisory.DocFotoFrontal, Image: imagen("frente.png")},
		advisory.Document{Field: advisory.DocTituloDocumento, Image: imagen("titulo.png")})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Len(t, images.Uploads, 1, "la sección KYC verificada no sube archivos")
	a, _ := store.Asesor("a1")
	assert.Equal(t, "https://img.test/titulo.png", a.Titulo.DocumentoURL)
	assert.Equal(t, kycValido(), a.Verification.KYCDatos)
}
