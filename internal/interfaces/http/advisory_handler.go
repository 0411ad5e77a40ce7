package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/application/advisory"
	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/session"
)

// AdvisoryHandler asignación de asesores y verificación profesional.
type AdvisoryHandler struct {
	assignment   *advisory.AssignmentUseCase
	verification *advisory.VerificationUseCase
	profiles     *usecase.ProfileUseCase
}

// NewAdvisoryHandler construye el handler.
func NewAdvisoryHandler(assignment *advisory.AssignmentUseCase, verification *advisory.VerificationUseCase, profiles *usecase.ProfileUseCase) *AdvisoryHandler {
	return &AdvisoryHandler{assignment: assignment, verification: verification, profiles: profiles}
}

// BrowsePage GET /cliente/asesores
func (h *AdvisoryHandler) BrowsePage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	list, err := h.assignment.ListAssignable(ctx)
	if err != nil {
		return err
	}
	cliente, err := h.profiles.GetCliente(ctx, GetUserID(c))
	if err != nil {
		return err
	}
	actual := ""
	if cliente.TieneAsesor() {
		if a, err := h.profiles.GetAsesor(ctx, *cliente.AsesorAsignado); err == nil {
			actual = a.NombreCompleto()
		}
	}
	return render(c, "asesores", fiber.Map{"Asesores": list, "AsesorActual": actual})
}

// Assign godoc
// @Summary Asignar asesor al cliente en sesión
// @Description El asesor debe tener KYC y título verificados y estar activo
// @Tags asesores
// @Accept json
// @Produce json
// @Param body body dto.AssignRequest true "Asesor"
// @Success 200 {object} dto.RedirectResponse
// @Failure 400 {object} dto.RedirectResponse
// @Router /cliente/asignar-asesor [post]
func (h *AdvisoryHandler) Assign(c *fiber.Ctx) error {
	var in dto.AssignRequest
	if err := c.BodyParser(&in); err != nil {
		in.AsesorID = ""
	}
	out, err := h.assignment.Assign(c.UserContext(), GetUserID(c), in.AsesorID)
	if errors.Is(err, domain.ErrAdvisorNotAssignable) || errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.RedirectResponse{
			Success:    false,
			Message:    advisory.MsgNotAssignable,
			RedirectTo: advisory.RedirectBrowse,
		})
	}
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(out)
}

// ClientsPage GET /asesor/clientes
func (h *AdvisoryHandler) ClientsPage(c *fiber.Ctx) error {
	list, err := h.assignment.ListAssignedClients(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return render(c, "asesor_clientes", fiber.Map{"Clientes": list})
}

// VerificationPage GET /asesor/verificacion
func (h *AdvisoryHandler) VerificationPage(c *fiber.Ctx) error {
	a, err := h.verification.Get(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return render(c, "verificacion", fiber.Map{"Asesor": a, "Form": storedForm(a)})
}

// SubmitVerification POST /asesor/verificacion. Cada sección se lee por separado; los
// archivos adjuntos reemplazan la URL escrita a mano y se suben solo si el formulario es válido.
func (h *AdvisoryHandler) SubmitVerification(c *fiber.Ctx) error {
	var in dto.VerificationRequest
	if err := parseVerificationForm(c, &in); err != nil {
		flash(c, session.FlashError, MsgInvalidForm)
		return c.Redirect(advisory.LinkVerification, fiber.StatusFound)
	}
	docs, closers, err := formDocuments(c)
	defer func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}()
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	res, err := h.verification.Submit(ctx, GetUserID(c), in, docs...)
	if err != nil {
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			return flashError(c, err, advisory.LinkVerification)
		}
		a, gerr := h.verification.Get(ctx, GetUserID(c))
		if gerr != nil {
			return gerr
		}
		form, _ := verr.Input.(dto.VerificationRequest)
		flash(c, session.FlashError, verr.Messages...)
		c.Status(fiber.StatusBadRequest)
		return render(c, "verificacion", fiber.Map{"Asesor": a, "Form": form})
	}
	kind := session.FlashSuccess
	if !res.Changed {
		kind = session.FlashInfo
	}
	flash(c, kind, res.Message)
	return c.Redirect(advisory.LinkVerification, fiber.StatusFound)
}

// formDocuments abre los archivos adjuntos del formulario de verificación.
func formDocuments(c *fiber.Ctx) ([]advisory.Document, []io.Closer, error) {
	var docs []advisory.Document
	var closers []io.Closer
	for _, field := range advisory.DocumentFields {
		img, closer, err := formImage(c, field)
		if err != nil {
			return nil, closers, err
		}
		if img == nil {
			continue
		}
		closers = append(closers, closer)
		docs = append(docs, advisory.Document{Field: field, Image: *img})
	}
	return docs, closers, nil
}

func parseVerificationForm(c *fiber.Ctx, in *dto.VerificationRequest) error {
	if err := c.BodyParser(&in.KYC); err != nil {
		return err
	}
	if err := c.BodyParser(&in.Titulo); err != nil {
		return err
	}
	return c.BodyParser(&in.Certificacion)
}

func storedForm(a *entity.Asesor) dto.VerificationRequest {
	return dto.VerificationRequest{
		KYC:           a.Verification.KYCDatos,
		Titulo:        a.Titulo.TituloDatos,
		Certificacion: a.Certificacion.CertificacionDatos,
	}
}

