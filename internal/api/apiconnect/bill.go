package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/patungan/internal/api"
)

// BillServiceName is the fully-qualified name of the authenticated BillService service.
const BillServiceName = packageName + "BillService"

const (
	BillServiceCreateBillProcedure        = "/" + BillServiceName + "/CreateBill"
	BillServiceGetBillProcedure           = "/" + BillServiceName + "/GetBill"
	BillServiceListBillsProcedure         = "/" + BillServiceName + "/ListBills"
	BillServiceSaveBillProcedure          = "/" + BillServiceName + "/SaveBill"
	BillServiceDeleteBillProcedure        = "/" + BillServiceName + "/DeleteBill"
	BillServiceResetBillProcedure         = "/" + BillServiceName + "/ResetBill"
	BillServiceAddParticipantsProcedure   = "/" + BillServiceName + "/AddParticipants"
	BillServiceListParticipantsProcedure  = "/" + BillServiceName + "/ListParticipants"
	BillServiceRemoveParticipantProcedure = "/" + BillServiceName + "/RemoveParticipant"
	BillServiceAddItemProcedure           = "/" + BillServiceName + "/AddItem"
	BillServiceListItemsProcedure         = "/" + BillServiceName + "/ListItems"
	BillServiceUpdateItemProcedure        = "/" + BillServiceName + "/UpdateItem"
	BillServiceRemoveItemProcedure        = "/" + BillServiceName + "/RemoveItem"
	BillServiceSetItemSplitsProcedure     = "/" + BillServiceName + "/SetItemSplits"
	BillServiceSetAdjustmentsProcedure    = "/" + BillServiceName + "/SetAdjustments"
	BillServiceGetSummaryProcedure        = "/" + BillServiceName + "/GetSummary"
	BillServiceCreateShareLinkProcedure   = "/" + BillServiceName + "/CreateShareLink"
)

// BillServiceHandler is implemented by the bill service.
type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	SaveBill(context.Context, *connect.Request[api.SaveBillRequest]) (*connect.Response[api.SaveBillResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
	ResetBill(context.Context, *connect.Request[api.ResetBillRequest]) (*connect.Response[api.ResetBillResponse], error)
	AddParticipants(context.Context, *connect.Request[api.AddParticipantsRequest]) (*connect.Response[api.AddParticipantsResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error)
	ListItems(context.Context, *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.RemoveItemResponse], error)
	SetItemSplits(context.Context, *connect.Request[api.SetItemSplitsRequest]) (*connect.Response[api.SetItemSplitsResponse], error)
	SetAdjustments(context.Context, *connect.Request[api.SetAdjustmentsRequest]) (*connect.Response[api.SetAdjustmentsResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
	CreateShareLink(context.Context, *connect.Request[api.CreateShareLinkRequest]) (*connect.Response[api.CreateShareLinkResponse], error)
}

// NewBillServiceHandler builds an HTTP handler from the service implementation.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		BillServiceCreateBillProcedure:        connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...),
		BillServiceGetBillProcedure:           connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...),
		BillServiceListBillsProcedure:         connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...),
		BillServiceSaveBillProcedure:          connect.NewUnaryHandler(BillServiceSaveBillProcedure, svc.SaveBill, opts...),
		BillServiceDeleteBillProcedure:        connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...),
		BillServiceResetBillProcedure:         connect.NewUnaryHandler(BillServiceResetBillProcedure, svc.ResetBill, opts...),
		BillServiceAddParticipantsProcedure:   connect.NewUnaryHandler(BillServiceAddParticipantsProcedure, svc.AddParticipants, opts...),
		BillServiceListParticipantsProcedure:  connect.NewUnaryHandler(BillServiceListParticipantsProcedure, svc.ListParticipants, opts...),
		BillServiceRemoveParticipantProcedure: connect.NewUnaryHandler(BillServiceRemoveParticipantProcedure, svc.RemoveParticipant, opts...),
		BillServiceAddItemProcedure:           connect.NewUnaryHandler(BillServiceAddItemProcedure, svc.AddItem, opts...),
		BillServiceListItemsProcedure:         connect.NewUnaryHandler(BillServiceListItemsProcedure, svc.ListItems, opts...),
		BillServiceUpdateItemProcedure:        connect.NewUnaryHandler(BillServiceUpdateItemProcedure, svc.UpdateItem, opts...),
		BillServiceRemoveItemProcedure:        connect.NewUnaryHandler(BillServiceRemoveItemProcedure, svc.RemoveItem, opts...),
		BillServiceSetItemSplitsProcedure:     connect.NewUnaryHandler(BillServiceSetItemSplitsProcedure, svc.SetItemSplits, opts...),
		BillServiceSetAdjustmentsProcedure:    connect.NewUnaryHandler(BillServiceSetAdjustmentsProcedure, svc.SetAdjustments, opts...),
		BillServiceGetSummaryProcedure:        connect.NewUnaryHandler(BillServiceGetSummaryProcedure, svc.GetSummary, opts...),
		BillServiceCreateShareLinkProcedure:   connect.NewUnaryHandler(BillServiceCreateShareLinkProcedure, svc.CreateShareLink, opts...),
	}

	return "/" + BillServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// BillServiceClient is a client for the BillService service.
type BillServiceClient interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	SaveBill(context.Context, *connect.Request[api.SaveBillRequest]) (*connect.Response[api.SaveBillResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
	ResetBill(context.Context, *connect.Request[api.ResetBillRequest]) (*connect.Response[api.ResetBillResponse], error)
	AddParticipants(context.Context, *connect.Request[api.AddParticipantsRequest]) (*connect.Response[api.AddParticipantsResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	RemoveParticipant(context.Context, *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error)
	ListItems(context.Context, *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error)
	UpdateItem(context.Context, *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.RemoveItemResponse], error)
	SetItemSplits(context.Context, *connect.Request[api.SetItemSplitsRequest]) (*connect.Response[api.SetItemSplitsResponse], error)
	SetAdjustments(context.Context, *connect.Request[api.SetAdjustmentsRequest]) (*connect.Response[api.SetAdjustmentsResponse], error)
	GetSummary(context.Context, *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error)
	CreateShareLink(context.Context, *connect.Request[api.CreateShareLinkRequest]) (*connect.Response[api.CreateShareLinkResponse], error)
}

// NewBillServiceClient constructs a client for the BillService service.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &billServiceClient{
		createBill:        connect.NewClient[api.CreateBillRequest, api.CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:           connect.NewClient[api.GetBillRequest, api.GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		listBills:         connect.NewClient[api.ListBillsRequest, api.ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		saveBill:          connect.NewClient[api.SaveBillRequest, api.SaveBillResponse](httpClient, baseURL+BillServiceSaveBillProcedure, opts...),
		deleteBill:        connect.NewClient[api.DeleteBillRequest, api.DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
		resetBill:         connect.NewClient[api.ResetBillRequest, api.ResetBillResponse](httpClient, baseURL+BillServiceResetBillProcedure, opts...),
		addParticipants:   connect.NewClient[api.AddParticipantsRequest, api.AddParticipantsResponse](httpClient, baseURL+BillServiceAddParticipantsProcedure, opts...),
		listParticipants:  connect.NewClient[api.ListParticipantsRequest, api.ListParticipantsResponse](httpClient, baseURL+BillServiceListParticipantsProcedure, opts...),
		removeParticipant: connect.NewClient[api.RemoveParticipantRequest, api.RemoveParticipantResponse](httpClient, baseURL+BillServiceRemoveParticipantProcedure, opts...),
		addItem:           connect.NewClient[api.AddItemRequest, api.AddItemResponse](httpClient, baseURL+BillServiceAddItemProcedure, opts...),
		listItems:         connect.NewClient[api.ListItemsRequest, api.ListItemsResponse](httpClient, baseURL+BillServiceListItemsProcedure, opts...),
		updateItem:        connect.NewClient[api.UpdateItemRequest, api.UpdateItemResponse](httpClient, baseURL+BillServiceUpdateItemProcedure, opts...),
		removeItem:        connect.NewClient[api.RemoveItemRequest, api.RemoveItemResponse](httpClient, baseURL+BillServiceRemoveItemProcedure, opts...),
		setItemSplits:     connect.NewClient[api.SetItemSplitsRequest, api.SetItemSplitsResponse](httpClient, baseURL+BillServiceSetItemSplitsProcedure, opts...),
		setAdjustments:    connect.NewClient[api.SetAdjustmentsRequest, api.SetAdjustmentsResponse](httpClient, baseURL+BillServiceSetAdjustmentsProcedure, opts...),
		getSummary:        connect.NewClient[api.GetSummaryRequest, api.GetSummaryResponse](httpClient, baseURL+BillServiceGetSummaryProcedure, opts...),
		createShareLink:   connect.NewClient[api.CreateShareLinkRequest, api.CreateShareLinkResponse](httpClient, baseURL+BillServiceCreateShareLinkProcedure, opts...),
	}
}

type billServiceClient struct {
	createBill        *connect.Client[api.CreateBillRequest, api.CreateBillResponse]
	getBill           *connect.Client[api.GetBillRequest, api.GetBillResponse]
	listBills         *connect.Client[api.ListBillsRequest, api.ListBillsResponse]
	saveBill          *connect.Client[api.SaveBillRequest, api.SaveBillResponse]
	deleteBill        *connect.Client[api.DeleteBillRequest, api.DeleteBillResponse]
	resetBill         *connect.Client[api.ResetBillRequest, api.ResetBillResponse]
	addParticipants   *connect.Client[api.AddParticipantsRequest, api.AddParticipantsResponse]
	listParticipants  *connect.Client[api.ListParticipantsRequest, api.ListParticipantsResponse]
	removeParticipant *connect.Client[api.RemoveParticipantRequest, api.RemoveParticipantResponse]
	addItem           *connect.Client[api.AddItemRequest, api.AddItemResponse]
	listItems         *connect.Client[api.ListItemsRequest, api.ListItemsResponse]
	updateItem        *connect.Client[api.UpdateItemRequest, api.UpdateItemResponse]
	removeItem        *connect.Client[api.RemoveItemRequest, api.RemoveItemResponse]
	setItemSplits     *connect.Client[api.SetItemSplitsRequest, api.SetItemSplitsResponse]
	setAdjustments    *connect.Client[api.SetAdjustmentsRequest, api.SetAdjustmentsResponse]
	getSummary        *connect.Client[api.GetSummaryRequest, api.GetSummaryResponse]
	createShareLink   *connect.Client[api.CreateShareLinkRequest, api.CreateShareLinkResponse]
}

func (c *billServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *billServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *billServiceClient) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *billServiceClient) SaveBill(ctx context.Context, req *connect.Request[api.SaveBillRequest]) (*connect.Response[api.SaveBillResponse], error) {
	return c.saveBill.CallUnary(ctx, req)
}

func (c *billServiceClient) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

func (c *billServiceClient) ResetBill(ctx context.Context, req *connect.Request[api.ResetBillRequest]) (*connect.Response[api.ResetBillResponse], error) {
	return c.resetBill.CallUnary(ctx, req)
}

func (c *billServiceClient) AddParticipants(ctx context.Context, req *connect.Request[api.AddParticipantsRequest]) (*connect.Response[api.AddParticipantsResponse], error) {
	return c.addParticipants.CallUnary(ctx, req)
}

func (c *billServiceClient) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *billServiceClient) RemoveParticipant(ctx context.Context, req *connect.Request[api.RemoveParticipantRequest]) (*connect.Response[api.RemoveParticipantResponse], error) {
	return c.removeParticipant.CallUnary(ctx, req)
}

func (c *billServiceClient) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.AddItemResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *billServiceClient) ListItems(ctx context.Context, req *connect.Request[api.ListItemsRequest]) (*connect.Response[api.ListItemsResponse], error) {
	return c.listItems.CallUnary(ctx, req)
}

func (c *billServiceClient) UpdateItem(ctx context.Context, req *connect.Request[api.UpdateItemRequest]) (*connect.Response[api.UpdateItemResponse], error) {
	return c.updateItem.CallUnary(ctx, req)
}

func (c *billServiceClient) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.RemoveItemResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

func (c *billServiceClient) SetItemSplits(ctx context.Context, req *connect.Request[api.SetItemSplitsRequest]) (*connect.Response[api.SetItemSplitsResponse], error) {
	return c.setItemSplits.CallUnary(ctx, req)
}

func (c *billServiceClient) SetAdjustments(ctx context.Context, req *connect.Request[api.SetAdjustmentsRequest]) (*connect.Response[api.SetAdjustmentsResponse], error) {
	return c.setAdjustments.CallUnary(ctx, req)
}

func (c *billServiceClient) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}

func (c *billServiceClient) CreateShareLink(ctx context.Context, req *connect.Request[api.CreateShareLinkRequest]) (*connect.Response[api.CreateShareLinkResponse], error) {
	return c.createShareLink.CallUnary(ctx, req)
}
