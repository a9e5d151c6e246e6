package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/patungan/internal/api"
	"github.com/mmynk/patungan/internal/api/apiconnect"
	"github.com/mmynk/patungan/internal/auth"
	"github.com/mmynk/patungan/internal/middleware"
	"github.com/mmynk/patungan/internal/storage/sqlite"
)

type testEnv struct {
	auth     apiconnect.AuthServiceClient
	bills    apiconnect.BillServiceClient
	split    apiconnect.SplitServiceClient
	baseURL  string
	registry *prometheus.Registry
}

// setupTestServer wires every service onto an httptest server backed by a temp SQLite file.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)

	r := chi.NewRouter()
	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, store, logger),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	)
	billPath, billHandler := apiconnect.NewBillServiceHandler(
		NewBillService(store, metrics, logger),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager), metrics.Interceptor()),
	)
	splitPath, splitHandler := apiconnect.NewSplitServiceHandler(NewSplitService(store, metrics, logger))
	r.Handle(authPath+"*", authHandler)
	r.Handle(billPath+"*", billHandler)
	r.Handle(splitPath+"*", splitHandler)
	r.With(middleware.BearerAuth(jwtManager)).Get("/bills/{billID}/receipt.pdf", NewReceiptHandler(store, metrics, logger).ServeHTTP)

	server := httptest.NewServer(r)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		bills:    apiconnect.NewBillServiceClient(http.DefaultClient, server.URL),
		split:    apiconnect.NewSplitServiceClient(http.DefaultClient, server.URL),
		baseURL:  server.URL,
		registry: registry,
	}
}

// register creates an account and returns its bearer token.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
	}))
	require.NoError(t, err)
	return resp.Msg.Token
}

// authed builds a request carrying the bearer token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func f64(v float64) *float64 { return &v }

// amountOf decodes s the way it would arrive on the wire.
func amountOf(t *testing.T, s string) api.Amount {
	t.Helper()
	var a api.Amount
	require.NoError(t, a.UnmarshalJSON([]byte(s)))
	return a
}
