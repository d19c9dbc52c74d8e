package edgex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edgex-Tech/edgex-sdk-go/order"
	"github.com/edgex-Tech/edgex-sdk-go/transfer"
)

func transferParams() transfer.CreateTransferOutParams {
	return transfer.CreateTransferOutParams{
		CoinID:            "1000",
		Amount:            "10",
		ReceiverAccountID: "678910",
		ReceiverL2Key:     "0x4a5b6c7d8e9f0a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293",
	}
}

const testPrivateKey = "0x3c1e9550e66958296d11b60f8e8e7a7ad990d07fa65d5f7652c4a6c87d4e3cc"

const testMetaDataJSON = `{"code":"SUCCESS","data":{
	"global":{"starkExCollateralCoin":{"coinId":"1000","decimal":6,
		"starkExAssetId":"0x2893294562e7de3f91a540e78cc56999b126ade247fac5a0b84f36e30bd1c1cd",
		"starkExResolution":"0xf4240"}},
	"coinList":[{"coinId":"1000","coinName":"USDT","decimal":6,
		"starkExAssetId":"0x2893294562e7de3f91a540e78cc56999b126ade247fac5a0b84f36e30bd1c1cd",
		"starkExResolution":"0xf4240"}],
	"contractList":[{"contractId":"10000001","contractName":"BTCUSDT","quoteCoinId":"1000",
		"tickSize":"0.1","defaultTakerFeeRate":"0.00038",
		"starkExSyntheticAssetId":"0x4254432d3130000000000000000000",
		"starkExResolution":"0x2710"}]}}`

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request) bool) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler != nil && handler(w, r) {
			return
		}
		switch r.URL.Path {
		case "/api/v1/public/meta/getMetaData":
			w.Write([]byte(testMetaDataJSON))
		case "/api/v1/public/quote/getTicker":
			w.Write([]byte(`{"code":"SUCCESS","data":[{"contractId":"10000001","oraclePrice":"3000.15"}]}`))
		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, 12345, testPrivateKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNew(t *testing.T) {
	t.Run("with signer", func(t *testing.T) {
		client, err := New("https://pro.edgex.exchange", 12345, testPrivateKey)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if len(client.PublicKey()) != 64 {
			t.Errorf("PublicKey length = %d, want 64", len(client.PublicKey()))
		}
		if client.Order == nil || client.Quote == nil || client.Transfer == nil {
			t.Error("sub-clients not initialized")
		}
	})

	t.Run("read only", func(t *testing.T) {
		client, err := New("https://pro.edgex.exchange", 0, "")
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if client.PublicKey() != "" {
			t.Errorf("PublicKey = %q, want empty", client.PublicKey())
		}
	})

	t.Run("bad key", func(t *testing.T) {
		if _, err := New("https://pro.edgex.exchange", 12345, "0xzz"); err == nil {
			t.Fatal("expected error for malformed key")
		}
	})
}

func TestGetMarketOrderPrice(t *testing.T) {
	client := newTestServer(t, nil)

	t.Run("buy uses cushioned oracle price", func(t *testing.T) {
		price, err := client.GetMarketOrderPrice(context.Background(), "10000001", order.SideBuy)
		if err != nil {
			t.Fatalf("GetMarketOrderPrice: %v", err)
		}
		// 3000.15 * 10 rounded to the 0.1 tick precision.
		if price != "30001.5" {
			t.Errorf("price = %q, want 30001.5", price)
		}
	})

	t.Run("sell uses tick size", func(t *testing.T) {
		price, err := client.GetMarketOrderPrice(context.Background(), "10000001", order.SideSell)
		if err != nil {
			t.Fatalf("GetMarketOrderPrice: %v", err)
		}
		if price != "0.1" {
			t.Errorf("price = %q, want 0.1", price)
		}
	})

	t.Run("unknown contract", func(t *testing.T) {
		if _, err := client.GetMarketOrderPrice(context.Background(), "999", order.SideBuy); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestCreateOrderMarket(t *testing.T) {
	var gotBody map[string]any
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path != "/api/v1/private/order/createOrder" {
			return false
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"code":"SUCCESS","data":{"orderId":"549"}}`))
		return true
	})

	created, err := client.CreateOrder(context.Background(), order.CreateOrderParams{
		ContractID: "10000001",
		Size:       "0.01",
		Type:       order.TypeMarket,
		Side:       order.SideBuy,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if created.OrderID != "549" {
		t.Errorf("OrderID = %q", created.OrderID)
	}

	// Market orders go out with price 0 but are signed at the market price.
	if got, _ := gotBody["price"].(string); got != "0" {
		t.Errorf("price = %q, want 0", got)
	}
	if got, _ := gotBody["timeInForce"].(string); got != "IMMEDIATE_OR_CANCEL" {
		t.Errorf("timeInForce = %q", got)
	}
	if got, _ := gotBody["l2Value"].(string); got != "300.015" {
		t.Errorf("l2Value = %q, want 300.015", got)
	}
}

func TestCreateOrderLimit(t *testing.T) {
	var gotBody map[string]any
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path != "/api/v1/private/order/createOrder" {
			return false
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"code":"SUCCESS","data":{"orderId":"550"}}`))
		return true
	})

	_, err := client.CreateOrder(context.Background(), order.CreateOrderParams{
		ContractID: "10000001",
		Price:      "2900.5",
		Size:       "0.01",
		Type:       order.TypeLimit,
		Side:       order.SideSell,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if got, _ := gotBody["price"].(string); got != "2900.5" {
		t.Errorf("price = %q, want 2900.5", got)
	}
	if got, _ := gotBody["timeInForce"].(string); got != "GOOD_TIL_CANCEL" {
		t.Errorf("timeInForce = %q", got)
	}
}

func TestCreateTransferOutFacade(t *testing.T) {
	var gotPath string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Path != "/api/v1/private/transfer/createTransferOut" {
			return false
		}
		gotPath = r.URL.Path
		w.Write([]byte(`{"code":"SUCCESS","data":{"transferId":"77"}}`))
		return true
	})

	created, err := client.CreateTransferOut(context.Background(), transferParams())
	if err != nil {
		t.Fatalf("CreateTransferOut: %v", err)
	}
	if created.TransferID != "77" || gotPath == "" {
		t.Errorf("created = %+v, path = %q", created, gotPath)
	}
}
