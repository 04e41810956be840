package storage

// sqlite.go — registro persistente de monedas + histórico de deals.
//
// Esquema:
//   - `coins` / `coin_aliases`: el directorio de monedas que gestiona el
//     usuario (nombre canónico, contrato on-chain, alias por venue).
//   - `deals`: una fila por oportunidad confirmada por el matcher.
//     Prune automático al arrancar: deals con más de 30 días.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/coinarb/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS coins (
    name       TEXT PRIMARY KEY,
    address    TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS coin_aliases (
    coin_name TEXT NOT NULL,
    venue     TEXT NOT NULL,
    alias     TEXT NOT NULL,
    PRIMARY KEY (coin_name, venue)
);

CREATE TABLE IF NOT EXISTS deals (
    id            TEXT PRIMARY KEY,
    coin_name     TEXT NOT NULL,
    buy_venue     TEXT NOT NULL,
    buy_base      TEXT NOT NULL,
    ask_price     REAL NOT NULL,
    sell_venue    TEXT NOT NULL,
    sell_base     TEXT NOT NULL,
    bid_price     REAL NOT NULL,
    filled_volume REAL NOT NULL,
    cost          REAL NOT NULL,
    proceeds      REAL NOT NULL,
    buy_link      TEXT NOT NULL DEFAULT '',
    sell_link     TEXT NOT NULL DEFAULT '',
    found_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deals_found ON deals(found_at DESC);
CREATE INDEX IF NOT EXISTS idx_deals_coin  ON deals(coin_name);
`

// Los deals caducan rápido: más allá de un mes solo son ruido.
const retentionDeals = 30 * 24 * time.Hour

// SQLiteStorage implementa ports.CoinRegistry y ports.DealStorage usando
// SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada,
// aplica el schema y limpia deals antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// Close cierra la conexión.
func (s *SQLiteStorage) Close() error { return s.db.Close() }

// --- ports.CoinRegistry ---

// GetByName carga una moneda con sus alias.
func (s *SQLiteStorage) GetByName(ctx context.Context, name string) (*domain.Coin, error) {
	coin := domain.NewCoin(name)

	var address string
	err := s.db.QueryRowContext(ctx,
		`SELECT address FROM coins WHERE name = ?`, coin.Name(),
	).Scan(&address)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("storage.GetByName: %s: %w", coin.Name(), domain.ErrCoinNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage.GetByName: %s: %w", coin.Name(), err)
	}
	coin.SetAddress(address)

	if err := s.loadAliases(ctx, coin); err != nil {
		return nil, err
	}
	return coin, nil
}

// All devuelve todas las monedas ordenadas por nombre.
func (s *SQLiteStorage) All(ctx context.Context) ([]*domain.Coin, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, address FROM coins ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("storage.All: query: %w", err)
	}
	defer rows.Close()

	var coins []*domain.Coin
	for rows.Next() {
		var name, address string
		if err := rows.Scan(&name, &address); err != nil {
			return nil, fmt.Errorf("storage.All: scan: %w", err)
		}
		coin := domain.NewCoin(name)
		coin.SetAddress(address)
		coins = append(coins, coin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.All: rows: %w", err)
	}

	for _, coin := range coins {
		if err := s.loadAliases(ctx, coin); err != nil {
			return nil, err
		}
	}
	return coins, nil
}

// Put inserta o actualiza la moneda y hace upsert de sus alias.
func (s *SQLiteStorage) Put(ctx context.Context, coin *domain.Coin) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.Put: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO coins (name, address, created_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET address = excluded.address
	`, coin.Name(), coin.Address(), time.Now().UTC()); err != nil {
		return fmt.Errorf("storage.Put: upsert %s: %w", coin.Name(), err)
	}

	for venue, alias := range coin.Aliases() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO coin_aliases (coin_name, venue, alias) VALUES (?, ?, ?)
			ON CONFLICT(coin_name, venue) DO UPDATE SET alias = excluded.alias
		`, coin.Name(), venue, alias); err != nil {
			return fmt.Errorf("storage.Put: alias %s/%s: %w", coin.Name(), venue, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.Put: commit: %w", err)
	}
	return nil
}

// Delete borra la moneda y sus alias.
func (s *SQLiteStorage) Delete(ctx context.Context, name string) error {
	canonical := domain.NewCoin(name).Name()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.Delete: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM coin_aliases WHERE coin_name = ?`, canonical); err != nil {
		return fmt.Errorf("storage.Delete: aliases %s: %w", canonical, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM coins WHERE name = ?`, canonical); err != nil {
		return fmt.Errorf("storage.Delete: coin %s: %w", canonical, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.Delete: commit: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) loadAliases(ctx context.Context, coin *domain.Coin) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT venue, alias FROM coin_aliases WHERE coin_name = ?`, coin.Name())
	if err != nil {
		return fmt.Errorf("storage.loadAliases: %s: %w", coin.Name(), err)
	}
	defer rows.Close()

	for rows.Next() {
		var venue, alias string
		if err := rows.Scan(&venue, &alias); err != nil {
			return fmt.Errorf("storage.loadAliases: scan: %w", err)
		}
		coin.SetAlias(venue, alias)
	}
	return rows.Err()
}

// --- ports.DealStorage ---

// SaveDeal guarda un deal confirmado.
func (s *SQLiteStorage) SaveDeal(ctx context.Context, deal domain.Deal) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO deals
			(id, coin_name, buy_venue, buy_base, ask_price,
			 sell_venue, sell_base, bid_price,
			 filled_volume, cost, proceeds, buy_link, sell_link, found_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		deal.ID,
		deal.Best.BestAsk.Coin.Name(),
		deal.Best.BestAsk.Venue,
		deal.Best.BestAsk.Base,
		deal.Best.BestAsk.Number,
		deal.Best.BestBid.Venue,
		deal.Best.BestBid.Base,
		deal.Best.BestBid.Number,
		deal.FilledVolume,
		deal.Cost,
		deal.Proceeds,
		deal.BuyLink,
		deal.SellLink,
		deal.FoundAt.UTC(),
	); err != nil {
		return fmt.Errorf("storage.SaveDeal: insert %s: %w", deal.ID, err)
	}
	return nil
}

// History devuelve los deals del rango, los más recientes primero.
func (s *SQLiteStorage) History(ctx context.Context, from, to time.Time) ([]domain.Deal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, coin_name, buy_venue, buy_base, ask_price,
		       sell_venue, sell_base, bid_price,
		       filled_volume, cost, proceeds, buy_link, sell_link, found_at
		FROM deals
		WHERE found_at BETWEEN ? AND ?
		ORDER BY found_at DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.History: query: %w", err)
	}
	defer rows.Close()

	var deals []domain.Deal
	for rows.Next() {
		var (
			deal     domain.Deal
			coinName string
			foundAt  time.Time
		)
		if err := rows.Scan(
			&deal.ID,
			&coinName,
			&deal.Best.BestAsk.Venue,
			&deal.Best.BestAsk.Base,
			&deal.Best.BestAsk.Number,
			&deal.Best.BestBid.Venue,
			&deal.Best.BestBid.Base,
			&deal.Best.BestBid.Number,
			&deal.FilledVolume,
			&deal.Cost,
			&deal.Proceeds,
			&deal.BuyLink,
			&deal.SellLink,
			&foundAt,
		); err != nil {
			return nil, fmt.Errorf("storage.History: scan row: %w", err)
		}
		coin := domain.NewCoin(coinName)
		deal.Best.BestAsk.Coin = coin
		deal.Best.BestBid.Coin = coin
		deal.FoundAt = foundAt.UTC()
		deals = append(deals, deal)
	}
	return deals, rows.Err()
}

// pruneOld borra deals más viejos que la retención. Best-effort: un fallo
// aquí no bloquea el arranque.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionDeals)
	s.db.ExecContext(ctx, `DELETE FROM deals WHERE found_at < ?`, cutoff)
}
