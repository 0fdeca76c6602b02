package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/application/usecase"
	"github.com/jhoicas/usa-store/internal/domain"
	"github.com/jhoicas/usa-store/internal/infrastructure/sqlite"
	"github.com/jhoicas/usa-store/internal/infrastructure/sqlite/sqlitetest"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newUsers(t *testing.T) (*usecase.UserUseCase, *sqlite.Gateway) {
	t.Helper()
	gw := sqlitetest.New(t)
	uc := usecase.NewUserUseCase(sqlite.NewUserRepository(gw), sqlite.NewTxRunner(gw), bcrypt.MinCost, zerolog.Nop())
	return uc, gw
}

func mustCreate(t *testing.T, uc *usecase.UserUseCase, name, username, role string) int64 {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, uc.CreateUser(ctx, dto.CreateUserRequest{
		Name: name, Username: username, Role: role, Password: "password123",
	}))
	list, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	for _, u := range list {
		if u.Username == username {
			return u.ID
		}
	}
	t.Fatalf("usuario %q no encontrado", username)
	return 0
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var de *domain.Error
	require.True(t, errors.As(err, &de), "se esperaba *domain.Error, llegó %v", err)
	require.Equal(t, domain.CodeValidation, de.Code)
	return de.Fields
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateUser / ListUsers
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateUser_AcumulaErroresDeCampo(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()

	err := uc.CreateUser(ctx, dto.CreateUserRequest{Name: "x", Username: "no válido", Role: "ROOT", Password: "123"})
	assert.Equal(t, []string{"NAME_INVALID", "USERNAME_INVALID", "ROLE_INVALID", "PASSWORD_WEAK"}, validationFields(t, err))

	list, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "una contraseña débil nunca se persiste")
}

func TestCreateUser_UsernameDuplicadoSinDistinguirMayusculas(t *testing.T) {
	uc, _ := newUsers(t)
	mustCreate(t, uc, "Beto Worker", "beto", "WORKER")

	err := uc.CreateUser(context.Background(), dto.CreateUserRequest{
		Name: "Otro Beto", Username: "  BETO ", Role: "WORKER", Password: "password123",
	})
	assert.True(t, errors.Is(err, domain.ErrUsernameTaken))
}

func TestListUsers_OrdenadoPorNombre(t *testing.T) {
	uc, _ := newUsers(t)
	mustCreate(t, uc, "zoe", "zoe", "WORKER")
	mustCreate(t, uc, "Ana", "ana", "ADMIN")
	mustCreate(t, uc, "beto", "beto", "WORKER")

	list, err := uc.ListUsers(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, u := range list {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Ana", "beto", "zoe"}, names)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateUser
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateUser_CasosBasicos(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()
	id := mustCreate(t, uc, "Ana", "ana", "ADMIN")

	_, err := uc.UpdateUser(ctx, dto.UpdateUserRequest{})
	assert.Equal(t, []string{"ID_REQUIRED"}, validationFields(t, err))

	_, err = uc.UpdateUser(ctx, dto.UpdateUserRequest{ID: 999, Name: dto.Some("Nuevo")})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "USER_NOT_FOUND", err.Error())

	res, err := uc.UpdateUser(ctx, dto.UpdateUserRequest{ID: id})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Changed, "sin campos no hay cambios")

	res, err = uc.UpdateUser(ctx, dto.UpdateUserRequest{ID: id, Password: dto.Some("")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Changed, "password vacío equivale a no cambiarla")

	_, err = uc.UpdateUser(ctx, dto.UpdateUserRequest{ID: id, Name: dto.Some("A"), Password: dto.Some("corta")})
	assert.Equal(t, []string{"NAME_INVALID", "PASSWORD_WEAK"}, validationFields(t, err))

	res, err = uc.UpdateUser(ctx, dto.UpdateUserRequest{ID: id, Name: dto.Some("  Ana María ")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Changed)

	list, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana María", list[0].Name)
}

func TestUpdateUser_NoDegradaUltimoAdmin(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()
	ana := mustCreate(t, uc, "Ana", "ana", "ADMIN")

	_, err := uc.UpdateUser(ctx, dto.UpdateUserRequest{ID: ana, Role: dto.Some("WORKER")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLastAdmin))
	assert.Equal(t, "CANNOT_DOWNGRADE_LAST_ADMIN", err.Error())

	mustCreate(t, uc, "Carla", "carla", "ADMIN")
	res, err := uc.UpdateUser(ctx, dto.UpdateUserRequest{ID: ana, Role: dto.Some("WORKER")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Changed)
}

// ──────────────────────────────────────────────────────────────────────────────
// RemoveUser
// ──────────────────────────────────────────────────────────────────────────────

func TestRemoveUser_UltimoAdminEInexistente(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()
	ana := mustCreate(t, uc, "Ana", "ana", "ADMIN")
	beto := mustCreate(t, uc, "Beto", "beto", "WORKER")

	res, err := uc.RemoveUser(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Changed)

	_, err = uc.RemoveUser(ctx, 0)
	assert.Equal(t, []string{"ID_REQUIRED"}, validationFields(t, err))

	_, err = uc.RemoveUser(ctx, ana)
	assert.True(t, errors.Is(err, domain.ErrLastAdmin))
	assert.Equal(t, "CANNOT_DELETE_LAST_ADMIN", err.Error())

	res, err = uc.RemoveUser(ctx, beto)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Changed)

	list, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ADMIN", list[0].Role)
}

func TestRemoveUser_AdminConOtroAdminSeElimina(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()
	ana := mustCreate(t, uc, "Ana", "ana", "ADMIN")
	mustCreate(t, uc, "Carla", "carla", "ADMIN")

	res, err := uc.RemoveUser(ctx, ana)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Changed)

	list, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "carla", list[0].Username)
	assert.Equal(t, "ADMIN", list[0].Role)
}

func TestRemoveUser_ConcurrenteDejaUnAdmin(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()
	ids := []int64{
		mustCreate(t, uc, "Ana", "ana", "ADMIN"),
		mustCreate(t, uc, "Carla", "carla", "ADMIN"),
	}

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = uc.RemoveUser(ctx, id)
		}(i, id)
	}
	wg.Wait()

	var ok, lastAdmin int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrLastAdmin):
			lastAdmin++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, lastAdmin)

	list, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ADMIN", list[0].Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contraseñas largas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateUser_PasswordDeMasDe72BytesSeAcepta(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()

	require.NoError(t, uc.CreateUser(ctx, dto.CreateUserRequest{
		Name: "Beto", Username: "beto", Role: "WORKER", Password: strings.Repeat("a", 80),
	}))
	list, err := uc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	res, err := uc.UpdateUser(ctx, dto.UpdateUserRequest{ID: list[0].ID, Password: dto.Some(strings.Repeat("b", 100))})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Changed)
}
