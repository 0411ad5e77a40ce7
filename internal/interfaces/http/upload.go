package http

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
)

// formImage abre el archivo del campo dado. Devuelve nil si el campo no viene o está vacío.
// El llamador cierra el io.Closer.
func formImage(c *fiber.Ctx, field string) (*ports.ImageUpload, io.Closer, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if fh == nil || fh.Size == 0 {
		return nil, nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	return toImageUpload(fh, f), f, nil
}

func toImageUpload(fh *multipart.FileHeader, body io.Reader) *ports.ImageUpload {
	return &ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        body,
	}
}
