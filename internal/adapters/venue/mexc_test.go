package venue_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alejandrodnm/coinarb/internal/adapters/venue"
	"github.com/alejandrodnm/coinarb/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMexc_FetchOrderBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/depth", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"asks": [["100.1","0.5"],["100.2","1.0"]],
			"bids": [["99.9","0.7"],["99.8","2.0"]]
		}`))
	}))
	defer srv.Close()

	m := venue.NewMexc(srv.URL)
	book, err := m.FetchOrderBook(context.Background(), domain.NewCoin("btc"), "usdt", 100)

	require.NoError(t, err)
	require.Len(t, book.Asks, 2)
	assert.Equal(t, domain.BookEntry{Price: 100.1, Volume: 0.5}, book.Asks[0])
	assert.Equal(t, domain.BookEntry{Price: 99.9, Volume: 0.7}, book.Bids[0])
}

func TestMexc_UnknownSymbol(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	m := venue.NewMexc(srv.URL)
	_, err := m.FetchOrderBook(context.Background(), domain.NewCoin("ghost"), "usdt", 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid symbol")
}

func TestKucoin_FetchOrderBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// depth > 20 tiene que escalar al endpoint de 100 niveles.
		assert.Equal(t, "/api/v1/market/orderbook/level2_100", r.URL.Path)
		assert.Equal(t, "BTC-USDT", r.URL.Query().Get("symbol"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": "200000",
			"data": {
				"asks": [["100.3","0.2"]],
				"bids": [["99.7","0.4"]]
			}
		}`))
	}))
	defer srv.Close()

	k := venue.NewKucoin(srv.URL)
	book, err := k.FetchOrderBook(context.Background(), domain.NewCoin("btc"), "usdt", 100)

	require.NoError(t, err)
	require.Len(t, book.Asks, 1)
	assert.Equal(t, domain.BookEntry{Price: 100.3, Volume: 0.2}, book.Asks[0])
}

func TestKucoin_ErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"code":"400100","msg":"This pair is not provided at present.","data":null}`))
	}))
	defer srv.Close()

	k := venue.NewKucoin(srv.URL)
	_, err := k.FetchOrderBook(context.Background(), domain.NewCoin("ghost"), "usdt", 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "400100")
}
