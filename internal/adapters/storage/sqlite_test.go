package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/coinarb/internal/adapters/storage"
	"github.com/alejandrodnm/coinarb/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDeal(coin string, ratio float64, foundAt time.Time) domain.Deal {
	c := domain.NewCoin(coin)
	return domain.Deal{
		ID: uuid.NewString(),
		Best: domain.BestPrice{
			BestAsk: domain.Quote{Coin: c, Base: "USDT", Number: 100, Venue: "kraken"},
			BestBid: domain.Quote{Coin: c, Base: "USDT", Number: 100 * ratio, Venue: "mexc"},
		},
		FilledVolume: 3,
		Cost:         300,
		Proceeds:     300 * ratio,
		BuyLink:      "https://pro.kraken.com/app/trade/btc-usdt",
		SellLink:     "https://www.mexc.com/exchange/BTC_USDT",
		FoundAt:      foundAt.UTC().Truncate(time.Second),
	}
}

func TestSQLiteStorage_CoinRoundtrip(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	coin := domain.NewCoin("Bitcoin")
	coin.SetAddress("0xdeadbeef")
	coin.SetAlias("kraken", "xbt")
	require.NoError(t, db.Put(ctx, coin))

	got, err := db.GetByName(ctx, "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", got.Name())
	assert.Equal(t, "0xdeadbeef", got.Address())
	assert.Equal(t, "xbt", got.NameOn("kraken"))
	assert.Equal(t, "bitcoin", got.NameOn("mexc")) // sin alias cae al nombre
}

func TestSQLiteStorage_PutUpdatesExisting(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	coin := domain.NewCoin("doge")
	require.NoError(t, db.Put(ctx, coin))

	// Segunda escritura con address y alias nuevos
	coin.SetAddress("0x123")
	coin.SetAlias("kucoin", "dogecoin")
	require.NoError(t, db.Put(ctx, coin))

	got, err := db.GetByName(ctx, "doge")
	require.NoError(t, err)
	assert.Equal(t, "0x123", got.Address())
	assert.Equal(t, "dogecoin", got.NameOn("kucoin"))

	all, err := db.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLiteStorage_GetByName_NotFound(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.GetByName(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrCoinNotFound)
}

func TestSQLiteStorage_Delete(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()

	coin := domain.NewCoin("pepe")
	coin.SetAlias("mexc", "pepecoin")
	require.NoError(t, db.Put(ctx, coin))
	require.NoError(t, db.Delete(ctx, "PEPE"))

	_, err = db.GetByName(ctx, "pepe")
	assert.ErrorIs(t, err, domain.ErrCoinNotFound)

	all, err := db.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSQLiteStorage_All_SortedByName(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	for _, name := range []string{"zcash", "bitcoin", "monero"} {
		require.NoError(t, db.Put(ctx, domain.NewCoin(name)))
	}

	all, err := db.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "bitcoin", all[0].Name())
	assert.Equal(t, "monero", all[1].Name())
	assert.Equal(t, "zcash", all[2].Name())
}

func TestSQLiteStorage_SaveDealAndHistory(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	now := time.Now()

	older := makeDeal("bitcoin", 1.04, now.Add(-time.Minute))
	newer := makeDeal("doge", 1.08, now)
	require.NoError(t, db.SaveDeal(ctx, older))
	require.NoError(t, db.SaveDeal(ctx, newer))

	history, err := db.History(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Más reciente primero
	assert.Equal(t, newer.ID, history[0].ID)
	assert.Equal(t, "doge", history[0].Best.BestAsk.Coin.Name())
	assert.InDelta(t, 1.08, history[0].Ratio(), 0.001)
	assert.Equal(t, older.ID, history[1].ID)
	assert.Equal(t, "kraken", history[1].Best.BestAsk.Venue)
	assert.Equal(t, "mexc", history[1].Best.BestBid.Venue)
	assert.Equal(t, older.BuyLink, history[1].BuyLink)
}

func TestSQLiteStorage_History_EmptyRange(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	history, err := db.History(context.Background(),
		time.Now().Add(-time.Hour),
		time.Now(),
	)
	require.NoError(t, err)
	assert.Empty(t, history)
}
