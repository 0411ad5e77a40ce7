// Package imagehost adaptadores del puerto ImageHost: API REST de alojamiento
// (formato Imgur) y bucket S3-compatible con MinIO.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
)

var _ ports.ImageHost = (*RESTUploader)(nil)

// RESTUploader sube la imagen como multipart (campo "image") con cabecera Client-ID.
type RESTUploader struct {
	clientID   string
	uploadURL  string
	httpClient *http.Client
}

// NewRESTUploader construye el adaptador.
func NewRESTUploader(clientID, uploadURL string) *RESTUploader {
	return &RESTUploader{
		clientID:  clientID,
		uploadURL: uploadURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		Link  string `json:"link"`
		Error any    `json:"error"`
	} `json:"data"`
}

// Upload envía la imagen y devuelve data.link.
func (u *RESTUploader) Upload(ctx context.Context, img ports.ImageUpload) (string, error) {
	if u.clientID == "" {
		return "", fmt.Errorf("imagehost: client id no configurado: %w", domain.ErrUpstream)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", img.Filename)
	if err != nil {
		return "", fmt.Errorf("imagehost: crear multipart: %w", err)
	}
	if _, err := io.Copy(part, img.Body); err != nil {
		return "", fmt.Errorf("imagehost: leer imagen: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("imagehost: cerrar multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("imagehost: crear request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.clientID)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("imagehost: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("imagehost: leer respuesta: %w", domain.ErrUpstream)
	}
	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("imagehost: HTTP %d, respuesta inválida: %w", resp.StatusCode, domain.ErrUpstream)
	}
	if resp.StatusCode != http.StatusOK || !out.Success || out.Data.Link == "" {
		return "", fmt.Errorf("imagehost: HTTP %d: %v: %w", resp.StatusCode, out.Data.Error, domain.ErrUpstream)
	}
	return out.Data.Link, nil
}
