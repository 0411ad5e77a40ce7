package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asesoria-financiera/internal/application/dto"
	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
	"github.com/jhoicas/asesoria-financiera/pkg/validation"
)

// MaxImageSize tamaño máximo de una foto subida (5 MB).
const MaxImageSize = 5 << 20

// ProfileUseCase perfiles de cliente y asesor, y subida de fotos.
type ProfileUseCase struct {
	clientes  repository.ClienteRepository
	asesores  repository.AsesorRepository
	images    ports.ImageHost
	validator *validation.Validator
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(
	clientes repository.ClienteRepository,
	asesores repository.AsesorRepository,
	images ports.ImageHost,
	validator *validation.Validator,
) *ProfileUseCase {
	return &ProfileUseCase{clientes: clientes, asesores: asesores, images: images, validator: validator}
}

// GetCliente perfil del cliente; ErrNotFound si no existe.
func (uc *ProfileUseCase) GetCliente(ctx context.Context, id string) (*entity.Cliente, error) {
	c, err := uc.clientes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("perfil: obtener cliente: %w", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// UpdateCliente valida y guarda los datos personales y financieros.
func (uc *ProfileUseCase) UpdateCliente(ctx context.Context, id string, in dto.ClienteProfileRequest) (*entity.Cliente, error) {
	if msgs := uc.validator.Struct(in); len(msgs) > 0 {
		return nil, domain.NewValidationError(in, msgs...)
	}
	c, err := uc.GetCliente(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Nombre = strings.TrimSpace(in.Nombre)
	c.Apellido = strings.TrimSpace(in.Apellido)
	c.Telefono = strings.TrimSpace(in.Telefono)
	c.Direccion = strings.TrimSpace(in.Direccion)
	c.Ciudad = strings.TrimSpace(in.Ciudad)
	c.Pais = strings.TrimSpace(in.Pais)
	c.Ocupacion = strings.TrimSpace(in.Ocupacion)
	c.PerfilRiesgo = in.PerfilRiesgo
	c.Objetivos = cleanList(in.Objetivos)
	c.FechaNacimiento = nil
	if in.FechaNacimiento != "" {
		t, _ := time.Parse("2006-01-02", in.FechaNacimiento)
		c.FechaNacimiento = &t
	}
	c.IngresosMensuales = parseAmount(in.IngresosMensuales)
	c.GastosMensuales = parseAmount(in.GastosMensuales)
	c.Patrimonio = parseAmount(in.Patrimonio)
	c.UpdatedAt = time.Now()

	if err := uc.clientes.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("perfil: guardar cliente: %w", err)
	}
	return c, nil
}

// GetAsesor perfil del asesor; ErrNotFound si no existe.
func (uc *ProfileUseCase) GetAsesor(ctx context.Context, id string) (*entity.Asesor, error) {
	a, err := uc.asesores.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("perfil: obtener asesor: %w", err)
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// UpdateAsesor valida y guarda los datos personales y profesionales.
func (uc *ProfileUseCase) UpdateAsesor(ctx context.Context, id string, in dto.AsesorProfileRequest) (*entity.Asesor, error) {
	if msgs := uc.validator.Struct(in); len(msgs) > 0 {
		return nil, domain.NewValidationError(in, msgs...)
	}
	a, err := uc.GetAsesor(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Nombre = strings.TrimSpace(in.Nombre)
	a.Apellido = strings.TrimSpace(in.Apellido)
	a.Telefono = strings.TrimSpace(in.Telefono)
	a.Especialidad = strings.TrimSpace(in.Especialidad)
	a.ExperienciaAnios = in.ExperienciaAnios
	a.Descripcion = strings.TrimSpace(in.Descripcion)
	a.TarifaHora = parseAmount(in.TarifaHora)
	a.UpdatedAt = time.Now()

	if err := uc.asesores.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("perfil: guardar asesor: %w", err)
	}
	return a, nil
}

// UploadPhoto sube la foto de perfil y guarda su URL en el perfil del tipo de usuario dado.
func (uc *ProfileUseCase) UploadPhoto(ctx context.Context, userID, userType string, img ports.ImageUpload) (string, error) {
	url, err := uc.UploadDocument(ctx, img)
	if err != nil {
		return "", err
	}
	switch userType {
	case entity.UserTypeCliente:
		err = uc.clientes.UpdatePhoto(ctx, userID, url)
	case entity.UserTypeAsesor:
		err = uc.asesores.UpdatePhoto(ctx, userID, url)
	default:
		return "", domain.ErrForbidden
	}
	if err != nil {
		return "", fmt.Errorf("perfil: guardar foto: %w", err)
	}
	return url, nil
}

// UploadDocument sube una imagen (foto de documento) y devuelve su URL sin asociarla a un perfil.
func (uc *ProfileUseCase) UploadDocument(ctx context.Context, img ports.ImageUpload) (string, error) {
	if err := ValidateImage(img); err != nil {
		return "", err
	}
	return uc.images.Upload(ctx, img)
}

// ValidateImage exige un archivo image/* no vacío de hasta MaxImageSize.
func ValidateImage(img ports.ImageUpload) error {
	switch {
	case img.Body == nil || img.Size == 0:
		return domain.NewValidationError(nil, "Selecciona una imagen")
	case !strings.HasPrefix(img.ContentType, "image/"):
		return domain.NewValidationError(nil, "El archivo debe ser una imagen")
	case img.Size > MaxImageSize:
		return domain.NewValidationError(nil, "La imagen no puede superar 5 MB")
	}
	return nil
}

// parseAmount convierte un monto validado; vacío equivale a cero.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
