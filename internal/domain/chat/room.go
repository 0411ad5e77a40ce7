// Package chat contiene las reglas puras de las salas de chat.
package chat

import (
	"strings"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

const roomPrefix = "chat_"

// RoomID devuelve el identificador canónico de la sala de dos participantes:
// "chat_" + menor + "_" + mayor (orden lexicográfico). RoomID(a, b) == RoomID(b, a).
func RoomID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return roomPrefix + a + "_" + b
}

// IsParticipant indica si userID es el cliente o el asesor de la sala.
func IsParticipant(room *entity.ChatRoom, userID string) bool {
	return room != nil && userID != "" && (room.ClienteID == userID || room.AsesorID == userID)
}

// ValidRoomID comprueba el formato "chat_<id>_<id>" sin validar los ids.
func ValidRoomID(id string) bool {
	return strings.HasPrefix(id, roomPrefix) && strings.Count(id[len(roomPrefix):], "_") >= 1
}

// Preview recorta el texto para la caché del último mensaje.
func Preview(text string, max int) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max]) + "…"
}
