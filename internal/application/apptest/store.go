// Package apptest ofrece implementaciones en memoria de los puertos de la capa de
// aplicación para las pruebas de casos de uso y handlers.
package apptest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/asesoria-financiera/internal/application/ports"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/domain/repository"
)

// Store base de datos en memoria. Run restaura el estado previo si fn falla.
type Store struct {
	mu    sync.Mutex
	st    state
	fails map[string]error
}

type state struct {
	users         map[string]entity.User
	clientes      map[string]entity.Cliente
	asesores      map[string]entity.Asesor
	notifications []entity.Notification
	rooms         map[string]entity.ChatRoom
	messages      []entity.ChatMessage
	events        map[string]entity.CalendarEvent
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		st: state{
			users:    map[string]entity.User{},
			clientes: map[string]entity.Cliente{},
			asesores: map[string]entity.Asesor{},
			rooms:    map[string]entity.ChatRoom{},
			events:   map[string]entity.CalendarEvent{},
		},
		fails: map[string]error{},
	}
}

// FailOn hace que la operación op ("Notifications.Create", "Asesores.AddCliente", ...) devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[op] = err
}

func (s *Store) fail(op string) error {
	return s.fails[op]
}

func (st state) clone() state {
	out := state{
		users:         make(map[string]entity.User, len(st.users)),
		clientes:      make(map[string]entity.Cliente, len(st.clientes)),
		asesores:      make(map[string]entity.Asesor, len(st.asesores)),
		notifications: append([]entity.Notification(nil), st.notifications...),
		rooms:         make(map[string]entity.ChatRoom, len(st.rooms)),
		messages:      append([]entity.ChatMessage(nil), st.messages...),
		events:        make(map[string]entity.CalendarEvent, len(st.events)),
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.clientes {
		v.Objetivos = append([]string(nil), v.Objetivos...)
		out.clientes[k] = v
	}
	for k, v := range st.asesores {
		v.ClientesAsignados = append([]string(nil), v.ClientesAsignados...)
		out.asesores[k] = v
	}
	for k, v := range st.rooms {
		out.rooms[k] = v
	}
	for k, v := range st.events {
		out.events[k] = v
	}
	return out
}

// Repos devuelve los repositorios sobre este Store.
func (s *Store) Repos() ports.TxRepos {
	return ports.TxRepos{
		Users:         s.Users(),
		Clientes:      s.Clientes(),
		Asesores:      s.Asesores(),
		Notifications: s.Notifications(),
		Chats:         s.Chats(),
	}
}

func (s *Store) Users() repository.UserRepository                 { return userRepo{s} }
func (s *Store) Clientes() repository.ClienteRepository           { return clienteRepo{s} }
func (s *Store) Asesores() repository.AsesorRepository            { return asesorRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }
func (s *Store) Chats() repository.ChatRepository                 { return chatRepo{s} }
func (s *Store) Calendar() repository.CalendarRepository          { return calendarRepo{s} }

// Run implementa ports.TxRunner con rollback por copia del estado.
func (s *Store) Run(ctx context.Context, fn func(repos ports.TxRepos) error) error {
	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()
	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

var _ ports.TxRunner = (*Store)(nil)

// ── Helpers de siembra y lectura para las pruebas ────────────────────────────

// SeedCliente crea el usuario y su perfil de cliente.
func (s *Store) SeedCliente(c entity.Cliente) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[c.ID] = entity.User{ID: c.ID, Email: c.Email, UserType: entity.UserTypeCliente, CreatedAt: time.Now()}
	s.st.clientes[c.ID] = c
}

// SeedAsesor crea el usuario y su perfil de asesor.
func (s *Store) SeedAsesor(a entity.Asesor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[a.ID] = entity.User{ID: a.ID, Email: a.Email, UserType: entity.UserTypeAsesor, CreatedAt: time.Now()}
	s.st.asesores[a.ID] = a
}

// SeedUser crea solo el usuario.
func (s *Store) SeedUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.ID] = u
}

// SeedNotification agrega una notificación tal cual.
func (s *Store) SeedNotification(n entity.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.notifications = append(s.st.notifications, n)
}

// SeedEvent agrega un evento tal cual.
func (s *Store) SeedEvent(ev entity.CalendarEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.events[ev.ID] = ev
}

// Cliente copia del cliente guardado.
func (s *Store) Cliente(id string) (entity.Cliente, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.st.clone().clientes[id]
	return c, ok
}

// Asesor copia del asesor guardado.
func (s *Store) Asesor(id string) (entity.Asesor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.st.clone().asesores[id]
	return a, ok
}

// User copia del usuario guardado.
func (s *Store) User(id string) (entity.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[id]
	return u, ok
}

// NotificationsOf notificaciones del usuario en orden de inserción.
func (s *Store) NotificationsOf(userID string) []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Notification
	for _, n := range s.st.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// Room copia de la sala guardada.
func (s *Store) Room(id string) (entity.ChatRoom, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.st.rooms[id]
	return r, ok
}

// Event copia del evento guardado.
func (s *Store) Event(id string) (entity.CalendarEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.st.events[id]
	return ev, ok
}

// ── Users ─────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Users.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.st.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.st.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	r.s.st.users[id] = u
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := &r.s.st
	delete(st.users, id)
	delete(st.clientes, id)
	delete(st.asesores, id)
	for k, c := range st.clientes {
		if c.AsesorAsignado != nil && *c.AsesorAsignado == id {
			c.AsesorAsignado = nil
			c.FechaAsignacionAsesor = nil
			st.clientes[k] = c
		}
	}
	for k, a := range st.asesores {
		a.ClientesAsignados = without(a.ClientesAsignados, id)
		st.asesores[k] = a
	}
	kept := st.notifications[:0]
	for _, n := range st.notifications {
		if n.UserID != id {
			kept = append(kept, n)
		}
	}
	st.notifications = kept
	for k, ev := range st.events {
		if ev.OwnerID == id {
			delete(st.events, k)
		}
	}
	for k, room := range st.rooms {
		if room.ClienteID == id || room.AsesorID == id {
			delete(st.rooms, k)
			msgs := st.messages[:0]
			for _, m := range st.messages {
				if m.RoomID != k {
					msgs = append(msgs, m)
				}
			}
			st.messages = msgs
		}
	}
	return nil
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ── Clientes ──────────────────────────────────────────────────────────────────

type clienteRepo struct{ s *Store }

func (r clienteRepo) Create(_ context.Context, c *entity.Cliente) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Clientes.Create"); err != nil {
		return err
	}
	r.s.st.clientes[c.ID] = *c
	return nil
}

func (r clienteRepo) GetByID(_ context.Context, id string) (*entity.Cliente, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.clientes[id]
	if !ok {
		return nil, nil
	}
	c.Objetivos = append([]string(nil), c.Objetivos...)
	if u, ok := r.s.st.users[id]; ok {
		c.Email = u.Email
	}
	return &c, nil
}

func (r clienteRepo) Update(_ context.Context, c *entity.Cliente) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.st.clientes[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	upd := *c
	upd.AsesorAsignado = old.AsesorAsignado
	upd.FechaAsignacionAsesor = old.FechaAsignacionAsesor
	upd.FotoPerfilURL = old.FotoPerfilURL
	upd.Objetivos = append([]string(nil), c.Objetivos...)
	r.s.st.clientes[c.ID] = upd
	return nil
}

func (r clienteRepo) UpdatePhoto(_ context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.clientes[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.FotoPerfilURL = url
	r.s.st.clientes[id] = c
	return nil
}

func (r clienteRepo) AssignAsesor(_ context.Context, clienteID, asesorID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Clientes.AssignAsesor"); err != nil {
		return err
	}
	c, ok := r.s.st.clientes[clienteID]
	if !ok {
		return domain.ErrNotFound
	}
	id := asesorID
	c.AsesorAsignado = &id
	c.FechaAsignacionAsesor = &at
	r.s.st.clientes[clienteID] = c
	return nil
}

func (r clienteRepo) ListByAsesor(_ context.Context, asesorID string) ([]*entity.Cliente, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Cliente
	for _, c := range r.s.st.clientes {
		if c.AsesorAsignado != nil && *c.AsesorAsignado == asesorID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Asesores ──────────────────────────────────────────────────────────────────

type asesorRepo struct{ s *Store }

func (r asesorRepo) Create(_ context.Context, a *entity.Asesor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Asesores.Create"); err != nil {
		return err
	}
	r.s.st.asesores[a.ID] = *a
	return nil
}

func (r asesorRepo) GetByID(_ context.Context, id string) (*entity.Asesor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.st.asesores[id]
	if !ok {
		return nil, nil
	}
	a.ClientesAsignados = append([]string(nil), a.ClientesAsignados...)
	if u, ok := r.s.st.users[id]; ok {
		a.Email = u.Email
	}
	return &a, nil
}

// GetByIDForUpdate en memoria no hay bloqueo de filas; lee el estado actual.
func (r asesorRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Asesor, error) {
	return r.GetByID(ctx, id)
}

func (r asesorRepo) Update(_ context.Context, a *entity.Asesor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.st.asesores[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	old.Nombre, old.Apellido, old.Telefono = a.Nombre, a.Apellido, a.Telefono
	old.Especialidad, old.ExperienciaAnios = a.Especialidad, a.ExperienciaAnios
	old.Descripcion, old.TarifaHora = a.Descripcion, a.TarifaHora
	r.s.st.asesores[a.ID] = old
	return nil
}

func (r asesorRepo) UpdatePhoto(_ context.Context, id, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.st.asesores[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.FotoPerfilURL = url
	r.s.st.asesores[id] = a
	return nil
}

func (r asesorRepo) UpdateVerification(_ context.Context, a *entity.Asesor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Asesores.UpdateVerification"); err != nil {
		return err
	}
	old, ok := r.s.st.asesores[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	old.Verification, old.Titulo, old.Certificacion = a.Verification, a.Titulo, a.Certificacion
	r.s.st.asesores[a.ID] = old
	return nil
}

func (r asesorRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.st.asesores[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Activo = active
	r.s.st.asesores[id] = a
	return nil
}

func (r asesorRepo) list(keep func(entity.Asesor) bool) []*entity.Asesor {
	var out []*entity.Asesor
	for _, a := range r.s.st.asesores {
		if keep(a) {
			a := a
			a.ClientesAsignados = append([]string(nil), a.ClientesAsignados...)
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r asesorRepo) ListAssignable(_ context.Context) ([]*entity.Asesor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(a entity.Asesor) bool { return a.Asignable() }), nil
}

func (r asesorRepo) ListPendingVerification(_ context.Context) ([]*entity.Asesor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.list(func(a entity.Asesor) bool {
		return a.Verification.Status == entity.StatusPendiente ||
			a.Titulo.Status == entity.StatusPendiente ||
			a.Certificacion.Status == entity.StatusPendiente
	}), nil
}

func (r asesorRepo) AddCliente(_ context.Context, asesorID, clienteID string, _ time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Asesores.AddCliente"); err != nil {
		return err
	}
	a, ok := r.s.st.asesores[asesorID]
	if !ok {
		return domain.ErrNotFound
	}
	if !a.TieneCliente(clienteID) {
		a.ClientesAsignados = append(append([]string(nil), a.ClientesAsignados...), clienteID)
	}
	r.s.st.asesores[asesorID] = a
	return nil
}

func (r asesorRepo) RemoveCliente(_ context.Context, asesorID, clienteID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.st.asesores[asesorID]
	if !ok {
		return nil
	}
	a.ClientesAsignados = without(append([]string(nil), a.ClientesAsignados...), clienteID)
	r.s.st.asesores[asesorID] = a
	return nil
}

// ── Notifications ─────────────────────────────────────────────────────────────

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Notifications.Create"); err != nil {
		return err
	}
	r.s.st.notifications = append(r.s.st.notifications, *n)
	return nil
}

func (r notificationRepo) ListByUser(_ context.Context, userID string) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Notification
	for _, n := range r.s.st.notifications {
		if n.UserID == userID {
			n := n
			out = append(out, &n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r notificationRepo) MarkRead(_ context.Context, userID, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, n := range r.s.st.notifications {
		if n.UserID == userID && n.ID == id {
			r.s.st.notifications[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

// ── Chats ─────────────────────────────────────────────────────────────────────

type chatRepo struct{ s *Store }

func (r chatRepo) GetRoom(_ context.Context, id string) (*entity.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.st.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (r chatRepo) EnsureRoom(_ context.Context, room *entity.ChatRoom) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.rooms[room.ID]; !ok {
		r.s.st.rooms[room.ID] = *room
	}
	return nil
}

func (r chatRepo) AppendMessage(_ context.Context, msg *entity.ChatMessage, recipientType string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("Chats.AppendMessage"); err != nil {
		return err
	}
	room, ok := r.s.st.rooms[msg.RoomID]
	if !ok {
		return domain.ErrNotFound
	}
	r.s.st.messages = append(r.s.st.messages, *msg)
	ts := msg.Timestamp
	room.LastMessage = msg.Text
	room.LastMessageAt = &ts
	room.LastSenderID = msg.SenderID
	if recipientType == entity.UserTypeCliente {
		room.UnreadCliente++
	} else {
		room.UnreadAsesor++
	}
	r.s.st.rooms[msg.RoomID] = room
	return nil
}

func (r chatRepo) ListMessages(_ context.Context, roomID string) ([]*entity.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ChatMessage
	for _, m := range r.s.st.messages {
		if m.RoomID == roomID {
			m := m
			out = append(out, &m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r chatRepo) ResetUnread(_ context.Context, roomID, readerType string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.st.rooms[roomID]
	if !ok {
		return nil
	}
	if readerType == entity.UserTypeCliente {
		room.UnreadCliente = 0
	} else {
		room.UnreadAsesor = 0
	}
	r.s.st.rooms[roomID] = room
	return nil
}

func (r chatRepo) ListRoomsByAsesor(_ context.Context, asesorID string) ([]*entity.ChatRoom, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ChatRoom
	for _, room := range r.s.st.rooms {
		if room.AsesorID == asesorID {
			room := room
			out = append(out, &room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Calendar ──────────────────────────────────────────────────────────────────

type calendarRepo struct{ s *Store }

func (r calendarRepo) Create(_ context.Context, ev *entity.CalendarEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.events[ev.ID] = *ev
	return nil
}

func (r calendarRepo) GetByID(_ context.Context, id string) (*entity.CalendarEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ev, ok := r.s.st.events[id]
	if !ok {
		return nil, nil
	}
	return &ev, nil
}

func (r calendarRepo) Update(_ context.Context, ev *entity.CalendarEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.events[ev.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.events[ev.ID] = *ev
	return nil
}

func (r calendarRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.st.events, id)
	return nil
}

func (r calendarRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.CalendarEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CalendarEvent
	for _, ev := range r.s.st.events {
		if ev.OwnerID == ownerID {
			ev := ev
			out = append(out, &ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}
