package advisory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asesoria-financiera/internal/application/advisory"
	"github.com/jhoicas/asesoria-financiera/internal/application/apptest"
	"github.com/jhoicas/asesoria-financiera/internal/domain"
	"github.com/jhoicas/asesoria-financiera/internal/domain/entity"
)

func asesorAsignable(id string) entity.Asesor {
	return entity.Asesor{
		ID:           id,
		Nombre:       "Laura",
		Activo:       true,
		Verification: entity.KYCVerification{Status: entity.StatusVerificado},
		Titulo:       entity.TituloVerification{Status: entity.StatusVerificado},
	}
}

func TestAssign_AsesorNoAsignableNoMuta(t *testing.T) {
	casos := map[string]func(a *entity.Asesor){
		"kyc pendiente":    func(a *entity.Asesor) { a.Verification.Status = entity.StatusPendiente },
		"título sin enviar": func(a *entity.Asesor) { a.Titulo.Status = entity.StatusNoEnviado },
		"inactivo":         func(a *entity.Asesor) { a.Activo = false },
	}
	for nombre, romper := range casos {
		t.Run(nombre, func(t *testing.T) {
			store := apptest.NewStore()
			a := asesorAsignable("a1")
			romper(&a)
			store.SeedAsesor(a)
			store.SeedCliente(entity.Cliente{ID: "c1", Nombre: "Carla"})
			uc := advisory.NewAssignmentUseCase(store, store.Clientes(), store.Asesores())

			_, err := uc.Assign(context.Background(), "c1", "a1")
			assert.True(t, errors.Is(err, domain.ErrAdvisorNotAssignable))

			c, _ := store.Cliente("c1")
			assert.False(t, c.TieneAsesor())
			saved, _ := store.Asesor("a1")
			assert.Empty(t, saved.ClientesAsignados)
			assert.Empty(t, store.NotificationsOf("a1"))
		})
	}
}

func TestAssign_AsesorInexistente(t *testing.T) {
	store := apptest.NewStore()
	store.SeedCliente(entity.Cliente{ID: "c1"})
	uc := advisory.NewAssignmentUseCase(store, store.Clientes(), store.Asesores())

	_, err := uc.Assign(context.Background(), "c1", "zz")
	assert.True(t, errors.Is(err, domain.ErrAdvisorNotAssignable))
}

func TestAssign_Correcta(t *testing.T) {
	store := apptest.NewStore()
	store.SeedAsesor(asesorAsignable("a1"))
	store.SeedCliente(entity.Cliente{ID: "c1", Nombre: "Carla", Apellido: "Ruiz"})
	uc := advisory.NewAssignmentUseCase(store, store.Clientes(), store.Asesores())

	out, err := uc.Assign(context.Background(), "c1", "a1")
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, advisory.RedirectChat, out.RedirectTo)

	c, _ := store.Cliente("c1")
	require.True(t, c.TieneAsesor())
	assert.Equal(t, "a1", *c.AsesorAsignado)
	assert.NotNil(t, c.FechaAsignacionAsesor)
	a, _ := store.Asesor("a1")
	assert.Equal(t, []string{"c1"}, a.ClientesAsignados)
	notifs := store.NotificationsOf("a1")
	require.Len(t, notifs, 1)
	assert.Contains(t, notifs[0].Message, "Carla Ruiz")

	_, err = uc.Assign(context.Background(), "c1", "a1")
	require.NoError(t, err)
	a, _ = store.Asesor("a1")
	assert.Equal(t, []string{"c1"}, a.ClientesAsignados, "el conjunto no duplica")
	assert.Len(t, store.NotificationsOf("a1"), 1)
}

func TestAssign_ReasignarSacaDelAsesorAnterior(t *testing.T) {
	store := apptest.NewStore()
	store.SeedAsesor(asesorAsignable("a1"))
	store.SeedAsesor(asesorAsignable("a2"))
	store.SeedCliente(entity.Cliente{ID: "c1"})
	uc := advisory.NewAssignmentUseCase(store, store.Clientes(), store.Asesores())
	ctx := context.Background()

	_, err := uc.Assign(ctx, "c1", "a1")
	require.NoError(t, err)
	_, err = uc.Assign(ctx, "c1", "a2")
	require.NoError(t, err)

	a1, _ := store.Asesor("a1")
	a2, _ := store.Asesor("a2")
	assert.Empty(t, a1.ClientesAsignados)
	assert.Equal(t, []string{"c1"}, a2.ClientesAsignados)
}

func TestAssign_FallaEnTransaccionRevierte(t *testing.T) {
	store := apptest.NewStore()
	store.SeedAsesor(asesorAsignable("a1"))
	store.SeedCliente(entity.Cliente{ID: "c1"})
	store.FailOn("Asesores.AddCliente", errors.New("db caída"))
	uc := advisory.NewAssignmentUseCase(store, store.Clientes(), store.Asesores())

	_, err := uc.Assign(context.Background(), "c1", "a1")
	require.Error(t, err)
	c, _ := store.Cliente("c1")
	assert.False(t, c.TieneAsesor())
}

func TestListAssignable(t *testing.T) {
	store := apptest.NewStore()
	store.SeedAsesor(asesorAsignable("a1"))
	store.SeedAsesor(entity.Asesor{ID: "a2", Activo: true})
	uc := advisory.NewAssignmentUseCase(store, store.Clientes(), store.Asesores())

	list, err := uc.ListAssignable(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a1", list[0].ID)
}
