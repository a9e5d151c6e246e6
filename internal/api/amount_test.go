package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *float64
		wantErr bool
	}{
		{name: "number", input: `12.5`, want: ptr(12.5)},
		{name: "numeric string", input: `"1000"`, want: ptr(1000)},
		{name: "null", input: `null`},
		{name: "empty string", input: `""`},
		{name: "zero", input: `0`, want: ptr(0)},
		{name: "text", input: `"abc"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			err := json.Unmarshal([]byte(tt.input), &a)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Float())
		})
	}
}

func TestAmountOmittedFieldIsNull(t *testing.T) {
	var req SetAdjustmentsRequest
	require.NoError(t, json.Unmarshal([]byte(`{"bill_id":"b1","tip_percent":"10"}`), &req))

	assert.Equal(t, "b1", req.BillID)
	assert.Equal(t, ptr(10), req.TipPercent.Float())
	assert.Nil(t, req.TipAmount.Float())
	assert.Nil(t, req.DiscountPercent.Float())
}

func TestAmountMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}{A: NewAmount(2.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2.5,"b":null}`, string(out))
}

func TestJSONCodec(t *testing.T) {
	codec := JSONCodec{}
	assert.Equal(t, "json", codec.Name())

	var req AddItemRequest
	require.NoError(t, codec.Unmarshal([]byte(`{"bill_id":"b1","name":"Sate","price":25000}`), &req))
	assert.Equal(t, "Sate", req.Name)
	assert.False(t, req.Quantity.Valid)

	err := codec.Unmarshal([]byte(`{"bill_id":"b1","colour":"red"}`), &req)
	assert.Error(t, err)

	err = codec.Unmarshal([]byte(`{"price":"lots"}`), &req)
	assert.Error(t, err)
}

func ptr(v float64) *float64 { return &v }
