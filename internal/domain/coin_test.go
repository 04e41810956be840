package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoin_CanonicalNameIsLowercase(t *testing.T) {
	coin := NewCoin("  BTC ")
	assert.Equal(t, "btc", coin.Name())
}

func TestCoin_AliasPerVenue(t *testing.T) {
	coin := NewCoin("btc")
	coin.SetAlias("kraken", "XBT")

	assert.Equal(t, "xbt", coin.NameOn("kraken"))
	assert.Equal(t, "XBT", coin.UpperOn("kraken"))
	// Sin alias se usa el nombre canónico.
	assert.Equal(t, "btc", coin.NameOn("mexc"))
	assert.Equal(t, "BTC", coin.UpperOn("mexc"))
}

func TestCoin_AliasReplaceNeverDeletes(t *testing.T) {
	coin := NewCoin("luna")
	coin.SetAlias("kraken", "luna2")
	coin.SetAlias("kraken", "lunc")

	assert.Equal(t, "lunc", coin.NameOn("kraken"))
	assert.Len(t, coin.Aliases(), 1)
}

func TestCoin_AliasesReturnsCopy(t *testing.T) {
	coin := NewCoin("eth")
	coin.SetAlias("kucoin", "weth")

	aliases := coin.Aliases()
	aliases["kucoin"] = "mutated"
	assert.Equal(t, "weth", coin.NameOn("kucoin"))
}

func TestCoin_Address(t *testing.T) {
	coin := NewCoin("usdc")
	assert.Empty(t, coin.Address())

	coin.SetAddress(" 0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48 ")
	assert.Equal(t, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", coin.Address())
}
