package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/patungan/internal/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = packageName + "AuthService"

const (
	AuthServiceRegisterProcedure    = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure       = "/" + AuthServiceName + "/Login"
	AuthServiceCurrentUserProcedure = "/" + AuthServiceName + "/CurrentUser"
)

// AuthServiceHandler is implemented by the account service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	CurrentUser(context.Context, *connect.Request[api.CurrentUserRequest]) (*connect.Response[api.CurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	register := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	login := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	currentUser := connect.NewUnaryHandler(AuthServiceCurrentUserProcedure, svc.CurrentUser, opts...)

	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			register.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			login.ServeHTTP(w, r)
		case AuthServiceCurrentUserProcedure:
			currentUser.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// AuthServiceClient is a client for the AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	CurrentUser(context.Context, *connect.Request[api.CurrentUserRequest]) (*connect.Response[api.CurrentUserResponse], error)
}

// NewAuthServiceClient constructs a client for the AuthService service.
// baseURL is the scheme and host of the server, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register:    connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:       connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		currentUser: connect.NewClient[api.CurrentUserRequest, api.CurrentUserResponse](httpClient, baseURL+AuthServiceCurrentUserProcedure, opts...),
	}
}

type authServiceClient struct {
	register    *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login       *connect.Client[api.LoginRequest, api.LoginResponse]
	currentUser *connect.Client[api.CurrentUserRequest, api.CurrentUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) CurrentUser(ctx context.Context, req *connect.Request[api.CurrentUserRequest]) (*connect.Response[api.CurrentUserResponse], error) {
	return c.currentUser.CallUnary(ctx, req)
}
