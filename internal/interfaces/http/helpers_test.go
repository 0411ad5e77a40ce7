package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asesoria-financiera/internal/application/advisory"
	"github.com/jhoicas/asesoria-financiera/internal/application/apptest"
	"github.com/jhoicas/asesoria-financiera/internal/application/auth"
	"github.com/jhoicas/asesoria-financiera/internal/application/usecase"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/session"
	apphttp "github.com/jhoicas/asesoria-financiera/internal/interfaces/http"
	"github.com/jhoicas/asesoria-financiera/pkg/logger"
	"github.com/jhoicas/asesoria-financiera/pkg/validation"
	"github.com/jhoicas/asesoria-financiera/web"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCookie     = "sid"
	testAdminEmail = "admin@test.com"
)

// memSessions almacén de sesiones en memoria.
type memSessions struct {
	mu   sync.Mutex
	data map[string]session.Data
}

func newMemSessions() *memSessions { return &memSessions{data: map[string]session.Data{}} }

func (m *memSessions) Load(_ context.Context, token string) (*session.Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[token]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *memSessions) Save(_ context.Context, token string, d *session.Data, _ time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if token == "" {
		token = uuid.NewString()
	}
	m.data[token] = *d
	return token, nil
}

func (m *memSessions) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, token)
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// testEnv aplicación completa sobre el store en memoria.
type testEnv struct {
	app      *fiber.App
	store    *apptest.Store
	identity *apptest.Identity
	images   *apptest.Images
	sessions session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, newMemSessions(), fakePinger{})
}

func newTestEnvWith(t *testing.T, sessions session.Store, db apphttp.Pinger) *testEnv {
	t.Helper()
	store := apptest.NewStore()
	identity := apptest.NewIdentity()
	images := apptest.NewImages()
	log := logger.Nop()
	v := validation.New()

	notifUC := usecase.NewNotificationUseCase(store.Notifications(), store.Users(), log)
	profileUC := usecase.NewProfileUseCase(store.Clientes(), store.Asesores(), images, v)

	views := apphttp.NewViews(web.Templates, "templates")
	require.NoError(t, views.Load())
	app := fiber.New(fiber.Config{
		Views:        views,
		ErrorHandler: apphttp.ErrorHandler(log),
	})
	apphttp.Router(app, apphttp.RouterDeps{
		AccountUC:      auth.NewAccountUseCase(store, store.Users(), identity, v),
		PasswordUC:     auth.NewPasswordUseCase(identity),
		ProfileUC:      profileUC,
		NotificationUC: notifUC,
		ChatUC:         usecase.NewChatUseCase(store, store.Chats(), store.Clientes()),
		CalendarUC:     usecase.NewCalendarUseCase(store.Calendar()),
		AssignmentUC:   advisory.NewAssignmentUseCase(store, store.Clientes(), store.Asesores()),
		VerificationUC: advisory.NewVerificationUseCase(store, store.Asesores(), notifUC, profileUC, apptest.PDF{}, v),
		Session: apphttp.SessionConfig{
			Store:      sessions,
			CookieName: testCookie,
			TTL:        time.Hour,
			Admins:     apphttp.NewAdminEmails([]string{testAdminEmail}),
		},
		DB:  db,
		Log: log,
	})
	return &testEnv{app: app, store: store, identity: identity, images: images, sessions: sessions}
}

// login crea una sesión autenticada y devuelve el token de la cookie.
func (e *testEnv) login(t *testing.T, id, email, userType string) string {
	t.Helper()
	tok, err := e.sessions.Save(context.Background(), "", &session.Data{UserID: id, UserEmail: email, UserType: userType}, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, req *http.Request, token string) *http.Response {
	t.Helper()
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	return nil
}

var errDown = errors.New("db caída")
