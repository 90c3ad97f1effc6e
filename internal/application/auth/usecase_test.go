package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-api/internal/application/auth"
	"github.com/jhoicas/wms-api/internal/application/dto"
	"github.com/jhoicas/wms-api/internal/domain"
	"github.com/jhoicas/wms-api/internal/testutil/memstore"
	"github.com/jhoicas/wms-api/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	store := memstore.New()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 10, Issuer: "wms-api"})
}

func TestSeedUserYLogin(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	seeded, err := uc.SeedUser(ctx, dto.SeedUserRequest{Email: "Ana@Example.com", Password: "supersecreta", Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", seeded.Email)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "supersecreta"})
	require.NoError(t, err)
	assert.Equal(t, "manager", res.User.Role)

	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.UserID)
	assert.Equal(t, "manager", claims.Role)

	me, err := uc.Me(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me.Email)
}

func TestSeedUser_ActualizaPorEmail(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	first, err := uc.SeedUser(ctx, dto.SeedUserRequest{Email: "op@example.com", Password: "password-1", Role: "operator"})
	require.NoError(t, err)
	second, err := uc.SeedUser(ctx, dto.SeedUserRequest{Email: "op@example.com", Password: "password-2", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "op@example.com", Password: "password-1"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	res, err := uc.Login(ctx, dto.LoginRequest{Email: "op@example.com", Password: "password-2"})
	require.NoError(t, err)
	assert.Equal(t, "admin", res.User.Role)
}

func TestLogin_Credenciales(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	_, err := uc.SeedUser(ctx, dto.SeedUserRequest{Email: "a@example.com", Password: "password-1", Role: "admin"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "password-1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "no-es-email", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSeedUser_RolInvalido(t *testing.T) {
	uc := newAuth(t)
	_, err := uc.SeedUser(context.Background(), dto.SeedUserRequest{Email: "a@example.com", Password: "password-1", Role: "bodeguero"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "role", ve.Field)
}
