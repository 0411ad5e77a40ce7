package ports

import (
	"context"
	"io"
)

// ImageUpload archivo a subir al alojamiento de imágenes.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageHost puerto de salida hacia el alojamiento de imágenes; devuelve la URL pública.
type ImageHost interface {
	Upload(ctx context.Context, img ImageUpload) (string, error)
}
