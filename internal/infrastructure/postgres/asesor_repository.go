package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
)

var _ repository.AsesorRepository = (*AsesorRepo)(nil)

// AsesorRepo implementación de AsesorRepository sobre PostgreSQL.
// Cada sección de verificación se guarda como JSONB; los clientes asignados viven en clientes_asignados.
type AsesorRepo struct {
	q Querier
}

// NewAsesorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAsesorRepository(q Querier) *AsesorRepo {
	return &AsesorRepo{q: q}
}

const asesorSelect = `
	SELECT a.id, u.email, a.nombre, a.apellido, a.telefono, a.especialidad, a.experiencia_anios,
	       a.descripcion, a.tarifa_hora, a.foto_perfil_url, a.activo,
	       a.verification, a.verificacion_titulo, a.verificacion_certificacion,
	       COALESCE((SELECT array_agg(ca.cliente_id ORDER BY ca.assigned_at)
	                 FROM clientes_asignados ca WHERE ca.asesor_id = a.id), '{}') AS clientes,
	       a.created_at, a.updated_at
	FROM asesores a
	JOIN users u ON u.id = a.id`

func scanAsesor(row pgx.Row) (*entity.Asesor, error) {
	var a entity.Asesor
	var kyc, titulo, cert []byte
	err := row.Scan(
		&a.ID, &a.Email, &a.Nombre, &a.Apellido, &a.Telefono, &a.Especialidad, &a.ExperienciaAnios,
		&a.Descripcion, &a.TarifaHora, &a.FotoPerfilURL, &a.Activo,
		&kyc, &titulo, &cert,
		&a.ClientesAsignados,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(kyc, &a.Verification); err != nil {
		return nil, fmt.Errorf("decode verification: %w", err)
	}
	if err := json.Unmarshal(titulo, &a.Titulo); err != nil {
		return nil, fmt.Errorf("decode titulo: %w", err)
	}
	if err := json.Unmarshal(cert, &a.Certificacion); err != nil {
		return nil, fmt.Errorf("decode certificacion: %w", err)
	}
	return &a, nil
}

func (r *AsesorRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Asesor, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list asesores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Asesor
	for rows.Next() {
		a, err := scanAsesor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asesor: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Create persiste el perfil inicial del asesor con sus tres secciones.
func (r *AsesorRepo) Create(ctx context.Context, a *entity.Asesor) error {
	kyc, titulo, cert, err := encodeSections(a)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO asesores (id, nombre, apellido, activo, verification, verificacion_titulo,
		                      verificacion_certificacion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, query, a.ID, a.Nombre, a.Apellido, a.Activo, kyc, titulo, cert, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert asesor: %w", err)
	}
	return nil
}

// GetByID obtiene el asesor con secciones y clientes asignados.
func (r *AsesorRepo) GetByID(ctx context.Context, id string) (*entity.Asesor, error) {
	return r.get(ctx, asesorSelect+` WHERE a.id = $1`, id)
}

// GetByIDForUpdate bloquea la fila del asesor; usar con el Querier de una transacción.
func (r *AsesorRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Asesor, error) {
	return r.get(ctx, asesorSelect+` WHERE a.id = $1 FOR UPDATE OF a`, id)
}

func (r *AsesorRepo) get(ctx context.Context, query, id string) (*entity.Asesor, error) {
	a, err := scanAsesor(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get asesor: %w", err)
	}
	return a, nil
}

// Update persiste los datos personales y profesionales.
func (r *AsesorRepo) Update(ctx context.Context, a *entity.Asesor) error {
	query := `
		UPDATE asesores SET
			nombre = $2, apellido = $3, telefono = $4, especialidad = $5, experiencia_anios = $6,
			descripcion = $7, tarifa_hora = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.Nombre, a.Apellido, a.Telefono, a.Especialidad, a.ExperienciaAnios,
		a.Descripcion, a.TarifaHora, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update asesor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePhoto guarda la URL de la foto de perfil.
func (r *AsesorRepo) UpdatePhoto(ctx context.Context, id, url string) error {
	tag, err := r.q.Exec(ctx, `UPDATE asesores SET foto_perfil_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("update foto asesor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateVerification reescribe las tres secciones en una sola sentencia.
func (r *AsesorRepo) UpdateVerification(ctx context.Context, a *entity.Asesor) error {
	kyc, titulo, cert, err := encodeSections(a)
	if err != nil {
		return err
	}
	query := `
		UPDATE asesores SET
			verification = $2, verificacion_titulo = $3, verificacion_certificacion = $4, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, a.ID, kyc, titulo, cert)
	if err != nil {
		return fmt.Errorf("update verificación: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive activa o desactiva al asesor.
func (r *AsesorRepo) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE asesores SET activo = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("set activo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListAssignable asesores activos con KYC y título verificados.
func (r *AsesorRepo) ListAssignable(ctx context.Context) ([]*entity.Asesor, error) {
	return r.list(ctx, asesorSelect+`
		WHERE a.activo
		  AND a.verification->>'status' = $1
		  AND a.verificacion_titulo->>'status' = $1
		ORDER BY a.nombre, a.apellido`, entity.StatusVerificado)
}

// ListPendingVerification asesores con alguna sección pendiente, el envío más antiguo primero.
func (r *AsesorRepo) ListPendingVerification(ctx context.Context) ([]*entity.Asesor, error) {
	return r.list(ctx, asesorSelect+`
		WHERE a.verification->>'status' = $1
		   OR a.verificacion_titulo->>'status' = $1
		   OR a.verificacion_certificacion->>'status' = $1
		ORDER BY a.updated_at`, entity.StatusPendiente)
}

// AddCliente agrega el cliente al conjunto del asesor; repetir no duplica.
func (r *AsesorRepo) AddCliente(ctx context.Context, asesorID, clienteID string, at time.Time) error {
	query := `
		INSERT INTO clientes_asignados (asesor_id, cliente_id, assigned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (asesor_id, cliente_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, asesorID, clienteID, at); err != nil {
		return fmt.Errorf("add cliente asignado: %w", err)
	}
	return nil
}

// RemoveCliente quita el cliente del conjunto del asesor.
func (r *AsesorRepo) RemoveCliente(ctx context.Context, asesorID, clienteID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM clientes_asignados WHERE asesor_id = $1 AND cliente_id = $2`, asesorID, clienteID)
	if err != nil {
		return fmt.Errorf("remove cliente asignado: %w", err)
	}
	return nil
}

func encodeSections(a *entity.Asesor) (kyc, titulo, cert []byte, err error) {
	if kyc, err = json.Marshal(a.Verification); err != nil {
		return nil, nil, nil, fmt.Errorf("encode verification: %w", err)
	}
	if titulo, err = json.Marshal(a.Titulo); err != nil {
		return nil, nil, nil, fmt.Errorf("encode titulo: %w", err)
	}
	if cert, err = json.Marshal(a.Certificacion); err != nil {
		return nil, nil, nil, fmt.Errorf("encode certificacion: %w", err)
	}
	return kyc, titulo, cert, nil
}
