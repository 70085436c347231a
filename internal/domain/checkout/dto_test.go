package checkout

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartItemsDecoding(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		var req PlaceOrderRequest
		require.NoError(t, json.Unmarshal([]byte(`{"items":[{"item_code":"BOWL-01","qty":2,"rate":"10.50"}]}`), &req))
		require.Len(t, req.Items, 1)
		assert.Equal(t, "BOWL-01", req.Items[0].ItemCode)
		assert.True(t, decimal.NewFromInt(2).Equal(req.Items[0].Qty))
		assert.True(t, decimal.RequireFromString("10.5").Equal(req.Items[0].Rate))
	})

	t.Run("json-encoded string", func(t *testing.T) {
		var req PlaceOrderRequest
		body := `{"items":"[{\"item_code\":\"JUG-02\",\"qty\":3}]","update_address":true}`
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		require.Len(t, req.Items, 1)
		assert.Equal(t, "JUG-02", req.Items[0].ItemCode)
		assert.True(t, bool(req.UpdateAddress))
	})

	t.Run("empty forms", func(t *testing.T) {
		for _, body := range []string{`{"items":null}`, `{"items":""}`, `{}`} {
			var req PlaceOrderRequest
			require.NoError(t, json.Unmarshal([]byte(body), &req), body)
			assert.Empty(t, req.Items, body)
		}
	})

	t.Run("blank qty and rate read as zero", func(t *testing.T) {
		var req PlaceOrderRequest
		body := `{"items":"[{\"item_code\":\"BOWL-01\",\"qty\":2,\"rate\":\"\"},{\"item_code\":\"JUG-02\",\"qty\":\"\",\"rate\":null}]"}`
		require.NoError(t, json.Unmarshal([]byte(body), &req))
		require.Len(t, req.Items, 2)
		assert.True(t, decimal.NewFromInt(2).Equal(req.Items[0].Qty))
		assert.True(t, req.Items[0].Rate.IsZero())
		assert.True(t, req.Items[1].Qty.IsZero())
		assert.True(t, req.Items[1].Rate.IsZero())
	})

	t.Run("bad rate still fails", func(t *testing.T) {
		var req PlaceOrderRequest
		err := json.Unmarshal([]byte(`{"items":[{"item_code":"BOWL-01","rate":"ten"}]}`), &req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rate")
	})

	t.Run("garbage", func(t *testing.T) {
		var req PlaceOrderRequest
		err := json.Unmarshal([]byte(`{"items":"not json"}`), &req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode cart items")
	})
}
