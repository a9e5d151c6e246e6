package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/patungan/internal/api"
)

func TestAuthService_Register(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Username: "ani",
		Email:    "Ani@Example.com",
		Password: "secret1",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Msg.Token)
	assert.Equal(t, "ani@example.com", resp.Msg.User.Email)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Username: "ani2",
			Email:    "ani@example.com",
			Password: "secret1",
		}))
		assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name string
			req  *api.RegisterRequest
		}{
			{"short password", &api.RegisterRequest{Username: "x", Email: "x@example.com", Password: "123"}},
			{"bad email", &api.RegisterRequest{Username: "x", Email: "x-at-example", Password: "secret1"}},
			{"no username", &api.RegisterRequest{Email: "x@example.com", Password: "secret1"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.auth.Register(ctx, connect.NewRequest(tt.req))
				assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
			})
		}
	})
}

func TestAuthService_LoginAndCurrentUser(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.register(t, "budi")

	login, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "BUDI@example.com",
		Password: "password123",
	}))
	require.NoError(t, err)
	assert.Equal(t, "budi", login.Msg.User.Username)

	me, err := env.auth.CurrentUser(ctx, authed(login.Msg.Token, &api.CurrentUserRequest{}))
	require.NoError(t, err)
	assert.Equal(t, login.Msg.User.ID, me.Msg.User.ID)

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "budi@example.com", Password: "nope123"}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "budi@example.com"}))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})

	t.Run("current user without token", func(t *testing.T) {
		_, err := env.auth.CurrentUser(ctx, connect.NewRequest(&api.CurrentUserRequest{}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("current user with bad token", func(t *testing.T) {
		_, err := env.auth.CurrentUser(ctx, authed("garbage", &api.CurrentUserRequest{}))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})
}
