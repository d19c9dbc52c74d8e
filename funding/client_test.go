package funding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edgex-Tech/edgex-sdk-go/internal/rest"
	"github.com/edgex-Tech/edgex-sdk-go/starkex"
)

const testPrivateKey = "0x3c1e9550e66958296d11b60f8e8e7a7ad990d07fa65d5f7652c4a6c87d4e3cc"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	signer, err := starkex.NewSigner(testPrivateKey)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	return NewClient(rest.NewClient(srv.URL, 12345, signer))
}

func TestGetFundingTransactions(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"code":"SUCCESS","data":{"dataList":[{"id":"1","fundingRate":"0.0001"}],"offsetData":""}}`))
	}))

	page, err := client.GetFundingTransactions(context.Background(), GetFundingTransactionsParams{
		Size:                 "10",
		FilterContractIDList: []string{"10000001"},
	})
	if err != nil {
		t.Fatalf("GetFundingTransactions: %v", err)
	}
	if gotPath != "/api/v1/private/funding/getFundingTransactionPage" {
		t.Errorf("path = %q", gotPath)
	}
	if got := gotQuery["accountId"]; len(got) != 1 || got[0] != "12345" {
		t.Errorf("accountId = %v", got)
	}
	if got := gotQuery["filterContractIdList"]; len(got) != 1 || got[0] != "10000001" {
		t.Errorf("filterContractIdList = %v", got)
	}
	if len(page.DataList) != 1 || page.DataList[0].FundingRate != "0.0001" {
		t.Errorf("page = %+v", page)
	}
}

func TestGetLatestFundingRate(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"code":"SUCCESS","data":[{"contractId":"10000001","fundingRate":"0.000125"}]}`))
	}))

	rates, err := client.GetLatestFundingRate(context.Background(), "10000001")
	if err != nil {
		t.Fatalf("GetLatestFundingRate: %v", err)
	}
	if got := gotQuery["contractId"]; len(got) != 1 || got[0] != "10000001" {
		t.Errorf("contractId = %v", got)
	}
	if len(rates) != 1 || rates[0].FundingRate != "0.000125" {
		t.Errorf("rates = %+v", rates)
	}

	if _, err := client.GetLatestFundingRate(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty contract ID")
	}
}
