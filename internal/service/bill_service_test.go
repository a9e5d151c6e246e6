package service

import (
	"context"
	"io"
	"net/http"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/patungan/internal/api"
)

// testBill is a bill with two participants and two items:
// Pizza 100 split Ani:1 Budi:3, and two Teh at 10 split equally.
type testBill struct {
	id    string
	ani   string
	budi  string
	pizza string
	teh   string
	token string
}

func createTestBill(t *testing.T, env *testEnv, token string) testBill {
	t.Helper()
	ctx := context.Background()

	created, err := env.bills.CreateBill(ctx, authed(token, &api.CreateBillRequest{Title: "Makan Malam"}))
	require.NoError(t, err)
	billID := created.Msg.Bill.ID

	ps, err := env.bills.AddParticipants(ctx, authed(token, &api.AddParticipantsRequest{
		BillID: billID,
		Names:  []string{"Ani", "Budi"},
	}))
	require.NoError(t, err)
	require.Len(t, ps.Msg.Participants, 2)

	pizza, err := env.bills.AddItem(ctx, authed(token, &api.AddItemRequest{
		BillID: billID,
		Name:   "Pizza",
		Price:  api.NewAmount(100),
	}))
	require.NoError(t, err)

	teh, err := env.bills.AddItem(ctx, authed(token, &api.AddItemRequest{
		BillID:   billID,
		Name:     "Teh",
		Price:    api.NewAmount(10),
		Quantity: api.NewAmount(2),
	}))
	require.NoError(t, err)

	b := testBill{
		id:    billID,
		ani:   ps.Msg.Participants[0].ID,
		budi:  ps.Msg.Participants[1].ID,
		pizza: pizza.Msg.Item.ID,
		teh:   teh.Msg.Item.ID,
		token: token,
	}

	_, err = env.bills.SetItemSplits(ctx, authed(token, &api.SetItemSplitsRequest{
		BillID:  billID,
		ItemID:  b.pizza,
		Weights: map[string]api.Amount{b.ani: api.NewAmount(1), b.budi: api.NewAmount(3)},
	}))
	require.NoError(t, err)
	return b
}

func TestBillService_Summary(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token := env.register(t, "ani")
	b := createTestBill(t, env, token)

	resp, err := env.bills.GetSummary(ctx, authed(token, &api.GetSummaryRequest{BillID: b.id}))
	require.NoError(t, err)
	summary := resp.Msg.Summary

	assert.Equal(t, 120.0, summary.Subtotal)
	assert.Equal(t, 120.0, summary.Total)
	assert.InDelta(t, 35.0, summary.Totals[b.ani], 1e-9)
	assert.InDelta(t, 85.0, summary.Totals[b.budi], 1e-9)
	require.Len(t, summary.Participants, 2)
	assert.Equal(t, "Ani", summary.Participants[0].Name)
	assert.Empty(t, summary.Items)

	t.Run("with adjustments", func(t *testing.T) {
		_, err := env.bills.SetAdjustments(ctx, authed(token, &api.SetAdjustmentsRequest{
			BillID: b.id,
			AdjustmentsInput: api.AdjustmentsInput{
				DiscountAmount: api.NewAmount(20),
				TipPercent:     api.NewAmount(10),
				TaxPercent:     api.NewAmount(11),
			},
		}))
		require.NoError(t, err)

		resp, err := env.bills.GetSummary(ctx, authed(token, &api.GetSummaryRequest{BillID: b.id}))
		require.NoError(t, err)
		summary := resp.Msg.Summary

		assert.InDelta(t, 20.0, summary.Discount, 1e-9)
		assert.InDelta(t, 10.0, summary.Tip, 1e-9)
		assert.InDelta(t, 11.0, summary.Tax, 1e-9)
		assert.InDelta(t, 121.0, summary.Total, 1e-9)
		assert.InDelta(t, 35+35.0/120, summary.Totals[b.ani], 1e-9)
		assert.InDelta(t, 85+85.0/120, summary.Totals[b.budi], 1e-9)
		assert.InDelta(t, summary.Total, summary.Totals[b.ani]+summary.Totals[b.budi], 1e-9)
	})

	t.Run("clearing a split falls back to equal division", func(t *testing.T) {
		_, err := env.bills.SetItemSplits(ctx, authed(token, &api.SetItemSplitsRequest{BillID: b.id, ItemID: b.pizza}))
		require.NoError(t, err)
		_, err = env.bills.SetAdjustments(ctx, authed(token, &api.SetAdjustmentsRequest{BillID: b.id}))
		require.NoError(t, err)

		resp, err := env.bills.GetSummary(ctx, authed(token, &api.GetSummaryRequest{BillID: b.id}))
		require.NoError(t, err)
		assert.InDelta(t, 60.0, resp.Msg.Summary.Totals[b.ani], 1e-9)
		assert.InDelta(t, 60.0, resp.Msg.Summary.Totals[b.budi], 1e-9)
	})

	count, err := testutil.GatherAndCount(env.registry, "patungan_allocations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "all summaries share one source label")
}

func TestBillService_GetBillAndItems(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token := env.register(t, "ani")
	b := createTestBill(t, env, token)

	resp, err := env.bills.GetBill(ctx, authed(token, &api.GetBillRequest{BillID: b.id}))
	require.NoError(t, err)
	assert.Equal(t, "Makan Malam", resp.Msg.Bill.Title)
	require.Len(t, resp.Msg.Items, 2)
	assert.Equal(t, map[string]float64{b.ani: 1, b.budi: 3}, resp.Msg.Items[0].Weights)
	assert.Nil(t, resp.Msg.Items[1].Weights)
	assert.Equal(t, 20.0, resp.Msg.Items[1].LineTotal)
	assert.Nil(t, resp.Msg.Adjustments.TipPercent)

	t.Run("update item", func(t *testing.T) {
		name := "Es Teh"
		updated, err := env.bills.UpdateItem(ctx, authed(token, &api.UpdateItemRequest{
			BillID:   b.id,
			ItemID:   b.teh,
			Name:     &name,
			Quantity: api.NewAmount(3),
		}))
		require.NoError(t, err)
		assert.Equal(t, "Es Teh", updated.Msg.Item.Name)
		assert.Equal(t, 3, updated.Msg.Item.Quantity)
		assert.Equal(t, 10.0, updated.Msg.Item.Price)
	})

	t.Run("remove item", func(t *testing.T) {
		_, err := env.bills.RemoveItem(ctx, authed(token, &api.RemoveItemRequest{BillID: b.id, ItemID: b.teh}))
		require.NoError(t, err)

		items, err := env.bills.ListItems(ctx, authed(token, &api.ListItemsRequest{BillID: b.id}))
		require.NoError(t, err)
		require.Len(t, items.Msg.Items, 1)
		assert.Equal(t, "Pizza", items.Msg.Items[0].Name)

		_, err = env.bills.RemoveItem(ctx, authed(token, &api.RemoveItemRequest{BillID: b.id, ItemID: b.teh}))
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})

	t.Run("remove participant drops their weights", func(t *testing.T) {
		_, err := env.bills.RemoveParticipant(ctx, authed(token, &api.RemoveParticipantRequest{BillID: b.id, ParticipantID: b.budi}))
		require.NoError(t, err)

		ps, err := env.bills.ListParticipants(ctx, authed(token, &api.ListParticipantsRequest{BillID: b.id}))
		require.NoError(t, err)
		require.Len(t, ps.Msg.Participants, 1)

		items, err := env.bills.ListItems(ctx, authed(token, &api.ListItemsRequest{BillID: b.id}))
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{b.ani: 1}, items.Msg.Items[0].Weights)
	})
}

func TestBillService_Validation(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token := env.register(t, "ani")
	b := createTestBill(t, env, token)

	tests := []struct {
		name string
		call func() error
	}{
		{"price below 1", func() error {
			_, err := env.bills.AddItem(ctx, authed(token, &api.AddItemRequest{BillID: b.id, Name: "Air", Price: api.NewAmount(0.5)}))
			return err
		}},
		{"missing price", func() error {
			_, err := env.bills.AddItem(ctx, authed(token, &api.AddItemRequest{BillID: b.id, Name: "Air"}))
			return err
		}},
		{"fractional quantity", func() error {
			_, err := env.bills.AddItem(ctx, authed(token, &api.AddItemRequest{BillID: b.id, Name: "Air", Price: api.NewAmount(5), Quantity: api.NewAmount(1.5)}))
			return err
		}},
		{"blank item name", func() error {
			_, err := env.bills.AddItem(ctx, authed(token, &api.AddItemRequest{BillID: b.id, Name: "  ", Price: api.NewAmount(5)}))
			return err
		}},
		{"blank participant", func() error {
			_, err := env.bills.AddParticipants(ctx, authed(token, &api.AddParticipantsRequest{BillID: b.id, Names: []string{"Citra", ""}}))
			return err
		}},
		{"no participants", func() error {
			_, err := env.bills.AddParticipants(ctx, authed(token, &api.AddParticipantsRequest{BillID: b.id}))
			return err
		}},
		{"negative weight", func() error {
			_, err := env.bills.SetItemSplits(ctx, authed(token, &api.SetItemSplitsRequest{
				BillID: b.id, ItemID: b.pizza, Weights: map[string]api.Amount{b.ani: api.NewAmount(-1)},
			}))
			return err
		}},
		{"participant of another bill", func() error {
			_, err := env.bills.SetItemSplits(ctx, authed(token, &api.SetItemSplitsRequest{
				BillID: b.id, ItemID: b.pizza, Weights: map[string]api.Amount{"stranger": api.NewAmount(1)},
			}))
			return err
		}},
		{"negative tip", func() error {
			_, err := env.bills.SetAdjustments(ctx, authed(token, &api.SetAdjustmentsRequest{
				BillID: b.id, AdjustmentsInput: api.AdjustmentsInput{TipAmount: api.NewAmount(-5)},
			}))
			return err
		}},
		{"empty update", func() error {
			_, err := env.bills.UpdateItem(ctx, authed(token, &api.UpdateItemRequest{BillID: b.id, ItemID: b.pizza}))
			return err
		}},
		{"negative limit", func() error {
			_, err := env.bills.ListBills(ctx, authed(token, &api.ListBillsRequest{Limit: -1}))
			return err
		}},
		{"price beyond float range", func() error {
			_, err := env.bills.AddItem(ctx, authed(token, &api.AddItemRequest{BillID: b.id, Name: "Emas", Price: amountOf(t, "1e400")}))
			return err
		}},
		{"quantity beyond int64", func() error {
			_, err := env.bills.UpdateItem(ctx, authed(token, &api.UpdateItemRequest{
				BillID: b.id, ItemID: b.teh, Quantity: amountOf(t, "18446744073709551617"),
			}))
			return err
		}},
		{"weight beyond float range", func() error {
			_, err := env.bills.SetItemSplits(ctx, authed(token, &api.SetItemSplitsRequest{
				BillID: b.id, ItemID: b.pizza, Weights: map[string]api.Amount{b.ani: amountOf(t, "1e400")},
			}))
			return err
		}},
		{"tax beyond float range", func() error {
			_, err := env.bills.SetAdjustments(ctx, authed(token, &api.SetAdjustmentsRequest{
				BillID: b.id, AdjustmentsInput: api.AdjustmentsInput{TaxPercent: amountOf(t, "1e400")},
			}))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(tt.call()))
		})
	}

	// Nothing rejected above reached storage.
	resp, err := env.bills.GetSummary(ctx, authed(token, &api.GetSummaryRequest{BillID: b.id}))
	require.NoError(t, err)
	assert.Equal(t, 120.0, resp.Msg.Summary.Total)
}

func TestBillService_Ownership(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	owner := env.register(t, "ani")
	other := env.register(t, "budi")
	b := createTestBill(t, env, owner)

	_, err := env.bills.GetBill(ctx, authed(other, &api.GetBillRequest{BillID: b.id}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.bills.DeleteBill(ctx, authed(other, &api.DeleteBillRequest{BillID: b.id}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.bills.GetSummary(ctx, authed(other, &api.GetSummaryRequest{BillID: b.id}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = env.bills.GetBill(ctx, connect.NewRequest(&api.GetBillRequest{BillID: b.id}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = env.bills.GetBill(ctx, authed(owner, &api.GetBillRequest{BillID: "missing"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestBillService_History(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token := env.register(t, "ani")
	b := createTestBill(t, env, token)

	_, err := env.bills.CreateBill(ctx, authed(token, &api.CreateBillRequest{}))
	require.NoError(t, err)

	saved, err := env.bills.SaveBill(ctx, authed(token, &api.SaveBillRequest{BillID: b.id}))
	require.NoError(t, err)
	assert.NotNil(t, saved.Msg.Bill.SavedAt)

	resp, err := env.bills.ListBills(ctx, authed(token, &api.ListBillsRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Bills, 2)

	var found bool
	for _, entry := range resp.Msg.Bills {
		if entry.ID == b.id {
			found = true
			assert.Equal(t, 2, entry.ParticipantCount)
			assert.Equal(t, 2, entry.ItemCount)
			assert.Equal(t, 120.0, entry.Total)
			assert.NotNil(t, entry.SavedAt)
		} else {
			assert.Equal(t, "Split Bill", entry.Title)
			assert.Zero(t, entry.Total)
		}
	}
	assert.True(t, found)

	limited, err := env.bills.ListBills(ctx, authed(token, &api.ListBillsRequest{Limit: 1}))
	require.NoError(t, err)
	assert.Len(t, limited.Msg.Bills, 1)

	other := env.register(t, "budi")
	empty, err := env.bills.ListBills(ctx, authed(other, &api.ListBillsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, empty.Msg.Bills)
}

func TestBillService_ResetAndDelete(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token := env.register(t, "ani")
	b := createTestBill(t, env, token)

	_, err := env.bills.SetAdjustments(ctx, authed(token, &api.SetAdjustmentsRequest{
		BillID:           b.id,
		AdjustmentsInput: api.AdjustmentsInput{TaxPercent: api.NewAmount(10)},
	}))
	require.NoError(t, err)

	_, err = env.bills.ResetBill(ctx, authed(token, &api.ResetBillRequest{BillID: b.id}))
	require.NoError(t, err)

	bill, err := env.bills.GetBill(ctx, authed(token, &api.GetBillRequest{BillID: b.id}))
	require.NoError(t, err)
	assert.Empty(t, bill.Msg.Participants)
	assert.Empty(t, bill.Msg.Items)
	assert.Nil(t, bill.Msg.Adjustments.TaxPercent)
	assert.Equal(t, "Makan Malam", bill.Msg.Bill.Title)

	summary, err := env.bills.GetSummary(ctx, authed(token, &api.GetSummaryRequest{BillID: b.id}))
	require.NoError(t, err)
	assert.Zero(t, summary.Msg.Summary.Total)
	assert.Empty(t, summary.Msg.Summary.Totals)

	_, err = env.bills.DeleteBill(ctx, authed(token, &api.DeleteBillRequest{BillID: b.id}))
	require.NoError(t, err)

	_, err = env.bills.GetBill(ctx, authed(token, &api.GetBillRequest{BillID: b.id}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestReceiptHandler(t *testing.T) {
	env := setupTestServer(t)
	token := env.register(t, "ani")
	other := env.register(t, "budi")
	b := createTestBill(t, env, token)

	get := func(t *testing.T, bearer string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, env.baseURL+"/bills/"+b.id+"/receipt.pdf", nil)
		require.NoError(t, err)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("owner", func(t *testing.T) {
		resp := get(t, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF", string(body[:4]))
	})

	t.Run("other user", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, other).StatusCode)
	})

	t.Run("no token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(t, "").StatusCode)
	})
}
