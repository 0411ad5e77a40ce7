// Package session almacenes de sesión de navegador: firmada en la cookie (JWT HS256)
// o en Redis con la cookie como identificador opaco.
package session

import (
	"context"
	"time"
)

// Tipos de mensaje flash que pintan las vistas.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Data contenido de la sesión.
type Data struct {
	UserID    string              `json:"userId,omitempty"`
	UserEmail string              `json:"userEmail,omitempty"`
	UserType  string              `json:"userType,omitempty"`
	Flash     map[string][]string `json:"flash,omitempty"`
}

// Authenticated indica si hay un usuario en la sesión.
func (d *Data) Authenticated() bool {
	return d != nil && d.UserID != ""
}

// Empty sin usuario ni mensajes pendientes; no hace falta persistirla.
func (d *Data) Empty() bool {
	return d == nil || (d.UserID == "" && len(d.Flash) == 0)
}

// AddFlash agrega mensajes de un tipo; se muestran una sola vez.
func (d *Data) AddFlash(kind string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	if d.Flash == nil {
		d.Flash = map[string][]string{}
	}
	d.Flash[kind] = append(d.Flash[kind], msgs...)
}

// TakeFlash devuelve los mensajes pendientes y los borra.
func (d *Data) TakeFlash() map[string][]string {
	out := d.Flash
	d.Flash = nil
	if out == nil {
		out = map[string][]string{}
	}
	return out
}

// Store persistencia de sesiones.
// Load devuelve (nil, nil) cuando el token no existe, expiró o no es válido.
// Save devuelve el token que debe viajar en la cookie; con token vacío crea uno nuevo.
type Store interface {
	Load(ctx context.Context, token string) (*Data, error)
	Save(ctx context.Context, token string, data *Data, ttl time.Duration) (string, error)
	Destroy(ctx context.Context, token string) error
}
