package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/application/dto"
	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/memory"
	"github.com/jhoicas/stockflow-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

func newAuth() (*auth.AuthUseCase, *memory.UserRepo) {
	users := memory.NewUserRepository(memory.NewStore())
	uc := auth.NewAuthUseCase(users, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"}).
		WithHashCost(bcrypt.MinCost)
	return uc, users
}

func TestRegister(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	res, err := uc.Register(ctx, dto.RegisterRequest{Name: " Ana ", Email: "Ana@Example.com", Password: "secreto1"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.Equal(t, "Ana", res.User.Name)
	assert.Equal(t, entity.RoleManager, res.User.Role)
	assert.Equal(t, entity.UserStatusActive, res.User.Status)

	userID, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
	assert.Equal(t, entity.RoleManager, role)

	_, err = uc.Register(ctx, dto.RegisterRequest{Name: "Otra", Email: "ana@example.com", Password: "secreto2"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	uc, _ := newAuth()
	cases := map[string]dto.RegisterRequest{
		"email inválido":   {Name: "A", Email: "no-es-email", Password: "secreto1"},
		"email con nombre": {Name: "A", Email: "Ana <ana@example.com>", Password: "secreto1"},
		"sin nombre":       {Email: "a@example.com", Password: "secreto1"},
		"password corto":   {Name: "A", Email: "a@example.com", Password: "12345"},
		"rol desconocido":  {Name: "A", Email: "a@example.com", Password: "secreto1", Role: "owner"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Register(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLogin(t *testing.T) {
	uc, users := newAuth()
	ctx := context.Background()
	reg, err := uc.Register(ctx, dto.RegisterRequest{Name: "Admin", Email: "admin@example.com", Password: "secreto1", Role: entity.RoleAdmin})
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: " ADMIN@example.com ", Password: "secreto1"})
	require.NoError(t, err)
	_, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "otro-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@example.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := users.GetByID(ctx, reg.User.ID)
	require.NoError(t, err)
	u.Status = entity.UserStatusInactive
	require.NoError(t, users.Update(ctx, u))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "secreto1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMeAndUpdateMe(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	a, err := uc.Register(ctx, dto.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secreto1"})
	require.NoError(t, err)
	_, err = uc.Register(ctx, dto.RegisterRequest{Name: "Beto", Email: "beto@example.com", Password: "secreto1"})
	require.NoError(t, err)

	me, err := uc.Me(ctx, a.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.Name)

	name := "Ana María"
	email := "ANA.M@example.com"
	updated, err := uc.UpdateMe(ctx, a.User.ID, dto.UpdateProfileRequest{Name: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.Name)
	assert.Equal(t, "ana.m@example.com", updated.Email)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana.m@example.com", Password: "secreto1"})
	assert.NoError(t, err)

	taken := "beto@example.com"
	_, err = uc.UpdateMe(ctx, a.User.ID, dto.UpdateProfileRequest{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	blank := "  "
	_, err = uc.UpdateMe(ctx, a.User.ID, dto.UpdateProfileRequest{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Me(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
