package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
)

var _ repository.ClienteRepository = (*ClienteRepo)(nil)

// ClienteRepo implementación de ClienteRepository sobre PostgreSQL.
type ClienteRepo struct {
	q Querier
}

// NewClienteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClienteRepository(q Querier) *ClienteRepo {
	return &ClienteRepo{q: q}
}

const clienteSelect = `
	SELECT c.id, u.email, c.nombre, c.apellido, c.telefono, c.fecha_nacimiento, c.direccion,
	       c.ciudad, c.pais, c.ocupacion, c.ingresos_mensuales, c.gastos_mensuales, c.patrimonio,
	       c.perfil_riesgo, c.objetivos, c.foto_perfil_url, c.asesor_asignado,
	       c.fecha_asignacion_asesor, c.created_at, c.updated_at
	FROM clientes c
	JOIN users u ON u.id = c.id`

func scanCliente(row pgx.Row) (*entity.Cliente, error) {
	var c entity.Cliente
	err := row.Scan(
		&c.ID, &c.Email, &c.Nombre, &c.Apellido, &c.Telefono, &c.FechaNacimiento, &c.Direccion,
		&c.Ciudad, &c.Pais, &c.Ocupacion, &c.IngresosMensuales, &c.GastosMensuales, &c.Patrimonio,
		&c.PerfilRiesgo, &c.Objetivos, &c.FotoPerfilURL, &c.AsesorAsignado,
		&c.FechaAsignacionAsesor, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste el perfil inicial del cliente.
func (r *ClienteRepo) Create(ctx context.Context, c *entity.Cliente) error {
	query := `
		INSERT INTO clientes (id, nombre, apellido, objetivos, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Nombre, c.Apellido, nonNil(c.Objetivos), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert cliente: %w", err)
	}
	return nil
}

// GetByID obtiene el cliente con su email.
func (r *ClienteRepo) GetByID(ctx context.Context, id string) (*entity.Cliente, error) {
	c, err := scanCliente(r.q.QueryRow(ctx, clienteSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	return c, nil
}

// Update persiste los datos personales y financieros.
func (r *ClienteRepo) Update(ctx context.Context, c *entity.Cliente) error {
	query := `
		UPDATE clientes SET
			nombre = $2, apellido = $3, telefono = $4, fecha_nacimiento = $5, direccion = $6,
			ciudad = $7, pais = $8, ocupacion = $9, ingresos_mensuales = $10, gastos_mensuales = $11,
			patrimonio = $12, perfil_riesgo = $13, objetivos = $14, updated_at = $15
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Nombre, c.Apellido, c.Telefono, c.FechaNacimiento, c.Direccion,
		c.Ciudad, c.Pais, c.Ocupacion, c.IngresosMensuales, c.GastosMensuales,
		c.Patrimonio, c.PerfilRiesgo, nonNil(c.Objetivos), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePhoto guarda la URL de la foto de perfil.
func (r *ClienteRepo) UpdatePhoto(ctx context.Context, id, url string) error {
	tag, err := r.q.Exec(ctx, `UPDATE clientes SET foto_perfil_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("update foto cliente: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AssignAsesor fija el asesor asignado y la fecha de asignación.
func (r *ClienteRepo) AssignAsesor(ctx context.Context, clienteID, asesorID string, at time.Time) error {
	query := `
		UPDATE clientes SET asesor_asignado = $2, fecha_asignacion_asesor = $3, updated_at = $3
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, clienteID, asesorID, at)
	if err != nil {
		return fmt.Errorf("assign asesor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByAsesor clientes cuyo asesor asignado es asesorID.
func (r *ClienteRepo) ListByAsesor(ctx context.Context, asesorID string) ([]*entity.Cliente, error) {
	rows, err := r.q.Query(ctx, clienteSelect+` WHERE c.asesor_asignado = $1 ORDER BY c.nombre, c.apellido`, asesorID)
	if err != nil {
		return nil, fmt.Errorf("list clientes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cliente
	for rows.Next() {
		c, err := scanCliente(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cliente: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
