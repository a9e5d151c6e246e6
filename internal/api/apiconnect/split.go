package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/patungan/internal/api"
)

// SplitServiceName is the fully-qualified name of the public SplitService service.
const SplitServiceName = packageName + "SplitService"

const (
	SplitServiceCalculateSplitProcedure = "/" + SplitServiceName + "/CalculateSplit"
	SplitServiceGetSharedBillProcedure  = "/" + SplitServiceName + "/GetSharedBill"
)

// SplitServiceHandler is implemented by the public split service.
type SplitServiceHandler interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	GetSharedBill(context.Context, *connect.Request[api.GetSharedBillRequest]) (*connect.Response[api.GetSharedBillResponse], error)
}

// NewSplitServiceHandler builds an HTTP handler from the service implementation.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	calculateSplit := connect.NewUnaryHandler(SplitServiceCalculateSplitProcedure, svc.CalculateSplit, opts...)
	getSharedBill := connect.NewUnaryHandler(SplitServiceGetSharedBillProcedure, svc.GetSharedBill, opts...)

	return "/" + SplitServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SplitServiceCalculateSplitProcedure:
			calculateSplit.ServeHTTP(w, r)
		case SplitServiceGetSharedBillProcedure:
			getSharedBill.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SplitServiceClient is a client for the SplitService service.
type SplitServiceClient interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	GetSharedBill(context.Context, *connect.Request[api.GetSharedBillRequest]) (*connect.Response[api.GetSharedBillResponse], error)
}

// NewSplitServiceClient constructs a client for the SplitService service.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &splitServiceClient{
		calculateSplit: connect.NewClient[api.CalculateSplitRequest, api.CalculateSplitResponse](httpClient, baseURL+SplitServiceCalculateSplitProcedure, opts...),
		getSharedBill:  connect.NewClient[api.GetSharedBillRequest, api.GetSharedBillResponse](httpClient, baseURL+SplitServiceGetSharedBillProcedure, opts...),
	}
}

type splitServiceClient struct {
	calculateSplit *connect.Client[api.CalculateSplitRequest, api.CalculateSplitResponse]
	getSharedBill  *connect.Client[api.GetSharedBillRequest, api.GetSharedBillResponse]
}

func (c *splitServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *splitServiceClient) GetSharedBill(ctx context.Context, req *connect.Request[api.GetSharedBillRequest]) (*connect.Response[api.GetSharedBillResponse], error) {
	return c.getSharedBill.CallUnary(ctx, req)
}
