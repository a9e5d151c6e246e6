package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/patungan/internal/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC with
// the caller and, for bill-scoped requests, the bill it touched. Client errors
// log at warn, internal failures at error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			attrs := rpcAttrs(ctx, req)

			resp, err := next(ctx, req)

			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())
			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal:
				slog.Warn("RPC rejected", append(attrs, "code", connectErr.Code(), "error", connectErr.Message())...)
			default:
				slog.Error("RPC failed", append(attrs, "error", err)...)
			}
			return resp, err
		}
	}
}

func rpcAttrs(ctx context.Context, req connect.AnyRequest) []any {
	attrs := []any{"procedure", req.Spec().Procedure}
	if userID := GetUserID(ctx); userID != "" {
		attrs = append(attrs, "user_id", userID)
	}
	if scoped, ok := req.Any().(api.BillScoped); ok {
		if billID := scoped.GetBillID(); billID != "" {
			attrs = append(attrs, "bill_id", billID)
		}
	}
	return attrs
}

// RequestLogger logs every HTTP request with its status and duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", chimw.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
