// Package pdf genera el expediente de verificación de un asesor con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + email            │  Fecha + estado cuenta  │
//	│  PERFIL: especialidad / experiencia / tarifa                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KYC | TÍTULO | CERTIFICACIÓN: estado + campos + enlaces     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID del asesor + leyenda                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

var _ ports.DossierPDFGenerator = (*MarotoDossierGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorOK      = &props.Color{Red: 20, Green: 120, Blue: 60}
	colorPending = &props.Color{Red: 180, Green: 110, Blue: 0}
)

// MarotoDossierGenerator implementa DossierPDFGenerator usando Maroto v2.
type MarotoDossierGenerator struct {
	now func() time.Time
}

// NewMarotoDossierGenerator construye el generador.
func NewMarotoDossierGenerator() *MarotoDossierGenerator {
	return &MarotoDossierGenerator{now: time.Now}
}

// field etiqueta y valor de una sección.
type field struct {
	label string
	value string
}

// GenerateDossier genera el PDF y devuelve sus bytes.
func (g *MarotoDossierGenerator) GenerateDossier(_ context.Context, a *entity.Asesor) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("pdf: asesor nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Expediente de verificación", true).
		WithAuthor(a.NombreCompleto(), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(a, g.now()))
	m.AddRows(profileRow(a))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRows("VERIFICACIÓN DE IDENTIDAD (KYC)", a.Verification.Status, a.Verification.MotivoRechazo,
		a.Verification.FechaEnvio, []field{
			{"Tipo de documento", a.Verification.TipoDocumento},
			{"Número", a.Verification.NumeroDocumento},
			{"País de emisión", a.Verification.PaisEmision},
			{"Expira", a.Verification.FechaExpiracion},
			{"Foto frontal", a.Verification.FotoFrontalURL},
			{"Foto reverso", a.Verification.FotoReversoURL},
			{"Selfie", a.Verification.SelfieURL},
		})...)
	m.AddRows(sectionRows("TÍTULO PROFESIONAL", a.Titulo.Status, a.Titulo.MotivoRechazo,
		a.Titulo.FechaEnvio, []field{
			{"Institución", a.Titulo.Institucion},
			{"Título", a.Titulo.NombreTitulo},
			{"Año", a.Titulo.AnioObtencion},
			{"Documento", a.Titulo.DocumentoURL},
		})...)
	m.AddRows(sectionRows("CERTIFICACIÓN", a.Certificacion.Status, a.Certificacion.MotivoRechazo,
		a.Certificacion.FechaEnvio, []field{
			{"Entidad emisora", a.Certificacion.EntidadEmisora},
			{"Certificación", a.Certificacion.NombreCertificacion},
			{"Número", a.Certificacion.NumeroCertificacion},
			{"Documento", a.Certificacion.DocumentoURL},
		})...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(a))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(a *entity.Asesor, now time.Time) core.Row {
	estado := "Cuenta activa"
	if !a.Activo {
		estado = "Cuenta desactivada"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(a.NombreCompleto(), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(a.Email, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("EXPEDIENTE DE VERIFICACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Generado: "+now.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
			text.New(estado, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 12,
			}),
		),
	)
}

func profileRow(a *entity.Asesor) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PERFIL", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Especialidad: %s   |   Experiencia: %d años   |   Tarifa: $%s/h   |   Clientes: %d",
				nonEmpty(a.Especialidad, "—"),
				a.ExperienciaAnios,
				formatMoney(a.TarifaHora.StringFixed(0)),
				len(a.ClientesAsignados),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// sectionRows: título con estado, fecha de envío, motivo de rechazo y una fila por campo.
func sectionRows(title, status, motivo string, enviado *time.Time, fields []field) []core.Row {
	statusColor := colorGray
	switch status {
	case entity.StatusVerificado:
		statusColor = colorOK
	case entity.StatusPendiente:
		statusColor = colorPending
	}
	rows := []core.Row{
		row.New(8).Add(
			col.New(8).Add(text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
			})),
			col.New(4).Add(text.New(statusLabel(status), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: statusColor, Top: 2,
			})),
		),
	}
	if enviado != nil {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Enviado: "+enviado.Format("02/01/2006 15:04"), props.Text{Size: 7, Color: colorGray, Left: 2}),
		)))
	}
	if motivo != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Motivo del último rechazo: "+motivo, props.Text{Size: 7, Color: colorPending, Left: 2}),
		)))
	}
	for _, f := range fields {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(f.label+":", props.Text{Style: fontstyle.Bold, Size: 7.5, Left: 2})),
			col.New(9).Add(text.New(nonEmpty(f.value, "—"), props.Text{Size: 7.5})),
		))
	}
	return append(rows, row.New(3))
}

func footerRow(a *entity.Asesor) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr("asesor:"+a.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("ID del asesor: "+a.ID, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Documento interno para revisión administrativa. "+
				"Las imágenes enlazadas se conservan en el alojamiento externo.",
				props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray}),
		),
	)
}

func statusLabel(status string) string {
	switch status {
	case entity.StatusVerificado:
		return "VERIFICADO"
	case entity.StatusPendiente:
		return "PENDIENTE DE REVISIÓN"
	default:
		return "NO ENVIADO"
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
