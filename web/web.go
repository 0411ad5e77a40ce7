// Package web plantillas HTML de las páginas, embebidas en el binario.
package web

import "embed"

// Templates layout.html más una plantilla por página; cada página define "title" y "content".
//
//go:embed templates/*.html
var Templates embed.FS
