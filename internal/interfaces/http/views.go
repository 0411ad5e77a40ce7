package http

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

var _ fiber.Views = (*Views)(nil)

// Views motor de vistas de fiber sobre html/template. Cada página se compila junto con
// layout.html; Render ejecuta el layout, que incluye los bloques "title" y "content".
type Views struct {
	fsys      fs.FS
	dir       string
	mu        sync.RWMutex
	templates map[string]*template.Template
}

// NewViews construye el motor sobre fsys; dir es la carpeta de las plantillas dentro de fsys.
func NewViews(fsys fs.FS, dir string) *Views {
	return &Views{fsys: fsys, dir: dir}
}

// Load compila todas las páginas. Fiber lo llama al crear la app.
func (v *Views) Load() error {
	pages, err := fs.Glob(v.fsys, path.Join(v.dir, "*.html"))
	if err != nil {
		return fmt.Errorf("views: listar plantillas: %w", err)
	}
	layout := path.Join(v.dir, "layout.html")
	out := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		if page == layout {
			continue
		}
		t, err := template.New("layout.html").Funcs(viewFuncs()).ParseFS(v.fsys, layout, page)
		if err != nil {
			return fmt.Errorf("views: compilar %s: %w", page, err)
		}
		out[strings.TrimSuffix(path.Base(page), ".html")] = t
	}
	v.mu.Lock()
	v.templates = out
	v.mu.Unlock()
	return nil
}

// Render pinta la página name; con layout "" se omite el layout y solo se pinta "content".
func (v *Views) Render(w io.Writer, name string, binding interface{}, layout ...string) error {
	v.mu.RLock()
	t, ok := v.templates[name]
	v.mu.RUnlock()
	if !ok {
		return fmt.Errorf("views: plantilla %q no existe", name)
	}
	entry := "layout.html"
	if len(layout) > 0 && layout[0] == "" {
		entry = "content"
	}
	return t.ExecuteTemplate(w, entry, binding)
}

func viewFuncs() template.FuncMap {
	return template.FuncMap{
		// date formatea una fecha opcional como yyyy-mm-dd para inputs type=date.
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02")
		},
		// sections estado de cada sección de verificación del asesor.
		"sections": func(a *entity.Asesor) map[string]string {
			return map[string]string{
				entity.SectionKYC:           a.Verification.Status,
				entity.SectionTitulo:        a.Titulo.Status,
				entity.SectionCertificacion: a.Certificacion.Status,
			}
		},
	}
}
