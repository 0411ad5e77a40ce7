package http_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
	"github.com/jhoicas/asesoria-financiera/internal/infrastructure/session"
)

func newCookieEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, session.NewCookieStore("test-secret", "test"), fakePinger{})
}

func TestLogin_CreaSesionYRedirige(t *testing.T) {
	env := newCookieEnv(t)
	env.identity.Add("c1", "carla@test.com", "secreto1")
	env.store.SeedCliente(entity.Cliente{ID: "c1", Email: "carla@test.com", Nombre: "Carla"})

	resp := env.do(t, formRequest("/login", url.Values{"email": {"Carla@Test.com"}, "password": {"secreto1"}}), "")

	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cliente/perfil", resp.Header.Get(fiber.HeaderLocation))
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/cliente/perfil", nil), cookie.Value)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Carla")
}

func TestLogin_CredencialesInvalidasMuestraFlash(t *testing.T) {
	env := newCookieEnv(t)
	env.identity.Add("c1", "carla@test.com", "secreto1")
	env.store.SeedCliente(entity.Cliente{ID: "c1", Email: "carla@test.com"})

	resp := env.do(t, formRequest("/login", url.Values{"email": {"carla@test.com"}, "password": {"otra"}}), "")

	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie, "el flash viaja en la sesión")

	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/login", nil), cookie.Value)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Email o contraseña incorrectos")
}

func TestLogout_BorraLaCookie(t *testing.T) {
	env := newCookieEnv(t)
	env.store.SeedCliente(entity.Cliente{ID: "c1", Email: "c1@test.com"})
	tok := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, httptest.NewRequest(http.MethodPost, "/logout", nil), tok)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
}

func TestHome_RedirigeSegunTipo(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil), "")
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	tok := env.login(t, "a1", "a1@test.com", entity.UserTypeAsesor)
	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/", nil), tok)
	assert.Equal(t, "/asesor/perfil", resp.Header.Get(fiber.HeaderLocation))
}

func TestRegister_Cliente(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, formRequest("/registro", url.Values{
		"email":           {"nuevo@test.com"},
		"password":        {"secreto1"},
		"confirmPassword": {"secreto1"},
		"userType":        {entity.UserTypeCliente},
		"nombre":          {"Nuevo"},
	}), "")

	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cliente/perfil", resp.Header.Get(fiber.HeaderLocation))
	assert.NotNil(t, sessionCookie(resp))
	assert.Equal(t, 1, env.identity.SignUpCalls)
}

func TestRegister_ErroresVuelvenAlFormulario(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, formRequest("/registro", url.Values{
		"email":           {"nuevo@test.com"},
		"password":        {"secreto1"},
		"confirmPassword": {"distinta"},
		"userType":        {entity.UserTypeCliente},
		"nombre":          {"Nuevo"},
	}), "")

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "nuevo@test.com")
	assert.NotContains(t, body, "secreto1")
	assert.Zero(t, env.identity.SignUpCalls)
}

func TestChangePassword_MuyCortaNoLlamaAlProveedor(t *testing.T) {
	env := newTestEnv(t)
	env.identity.Add("c1", "c1@test.com", "secreto1")
	tok := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, formRequest("/cambiar-password", url.Values{
		"currentPassword": {"secreto1"},
		"newPassword":     {"abc"},
		"confirmPassword": {"abc"},
	}), tok)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/cambiar-password", resp.Header.Get(fiber.HeaderLocation))
	assert.Zero(t, env.identity.Calls())
}

func TestChangePassword_Correcto(t *testing.T) {
	env := newTestEnv(t)
	env.identity.Add("c1", "c1@test.com", "secreto1")
	tok := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, formRequest("/cambiar-password", url.Values{
		"currentPassword": {"secreto1"},
		"newPassword":     {"nueva123"},
		"confirmPassword": {"nueva123"},
	}), tok)

	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "nueva123", env.identity.LastPassword)
}

func TestErrorPage_PerfilInexistente404(t *testing.T) {
	env := newTestEnv(t)
	tok := env.login(t, "c1", "c1@test.com", entity.UserTypeCliente)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/cliente/perfil", nil), tok)

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Recurso no encontrado")
}
