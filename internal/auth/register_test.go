package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pawmatch/pawmatch-backend/pkg/config"
	"github.com/pawmatch/pawmatch-backend/pkg/db"
	pkgerrors "github.com/pawmatch/pawmatch-backend/pkg/errors"
	"github.com/pawmatch/pawmatch-backend/pkg/security"
)

func setupRegisterTestDB(t *testing.T) *db.Client {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{
		DSN:    "file::memory:?cache=shared",
		Driver: "sqlite",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	schema := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(2))||'-'||hex(randomblob(6)))),
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  avatar_url TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  system_role TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, client.Exec(context.Background(), schema).Error)
	require.NoError(t, client.Exec(context.Background(), "DELETE FROM users").Error)

	return client
}

func TestRegisterCreatesUser(t *testing.T) {
	client := setupRegisterTestDB(t)

	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             client,
		PasswordConfig: config.PasswordConfig{},
	})
	require.NoError(t, err)

	dto, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Robin Walker",
		Email:    "Robin.Walker@Example.com",
		Password: "super-secret-pw",
	})
	require.NoError(t, err)
	require.Equal(t, "robin.walker@example.com", dto.Email)
	require.Equal(t, "Robin Walker", dto.FullName)
	require.True(t, dto.IsActive)

	var hash string
	require.NoError(t, client.Raw(context.Background(), "SELECT password_hash FROM users WHERE email = ?", dto.Email).Scan(&hash).Error)
	ok, err := security.VerifyPassword("super-secret-pw", hash)
	require.NoError(t, err)
	require.True(t, ok, "stored hash should verify against the original password")
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	client := setupRegisterTestDB(t)

	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             client,
		PasswordConfig: config.PasswordConfig{},
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		FullName: "First User",
		Email:    "dup@example.com",
		Password: "super-secret-pw",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		FullName: "Second User",
		Email:    "DUP@example.com",
		Password: "another-secret",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestRegisterValidatesInput(t *testing.T) {
	client := setupRegisterTestDB(t)

	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             client,
		PasswordConfig: config.PasswordConfig{},
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		FullName: "  ",
		Email:    "blank-name@example.com",
		Password: "super-secret-pw",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
