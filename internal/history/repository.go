package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/roseline-games/blackjack-server/internal/domain"
)

// Repository persists history entries in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// EnsureSchema creates the history table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS blackjack_games (
			id           TEXT PRIMARY KEY,
			player_id    TEXT NOT NULL,
			played_at    TIMESTAMPTZ NOT NULL,
			bet          BIGINT NOT NULL,
			result       TEXT NOT NULL,
			player_total INT NOT NULL,
			dealer_total INT NOT NULL,
			player_cards JSONB NOT NULL,
			dealer_cards JSONB NOT NULL,
			winnings     BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS blackjack_games_player_played_idx
			ON blackjack_games (player_id, played_at DESC)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure history schema: %w", err)
	}
	return nil
}

func (r *Repository) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	if entry == nil {
		return fmt.Errorf("nil history entry")
	}
	playerCards, err := json.Marshal(entry.PlayerHand)
	if err != nil {
		return fmt.Errorf("marshal player cards: %w", err)
	}
	dealerCards, err := json.Marshal(entry.DealerHand)
	if err != nil {
		return fmt.Errorf("marshal dealer cards: %w", err)
	}

	const query = `
		INSERT INTO blackjack_games (
			id,
			player_id,
			played_at,
			bet,
			result,
			player_total,
			dealer_total,
			player_cards,
			dealer_cards,
			winnings
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10)
		ON CONFLICT (id) DO NOTHING`

	_, err = r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.PlayerID,
		entry.Timestamp,
		entry.Bet,
		entry.Result,
		entry.PlayerTotal,
		entry.DealerTotal,
		playerCards,
		dealerCards,
		entry.Winnings,
	)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

func (r *Repository) Recent(ctx context.Context, playerID string, limit int, before time.Time) ([]*domain.HistoryEntry, error) {
	if limit <= 0 || limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	var cursor sql.NullTime
	if !before.IsZero() {
		cursor = sql.NullTime{Time: before, Valid: true}
	}

	const query = `
		SELECT
			id,
			player_id,
			played_at,
			bet,
			result,
			player_total,
			dealer_total,
			player_cards,
			dealer_cards,
			winnings
		FROM blackjack_games
		WHERE player_id = $1
		  AND ($2::timestamptz IS NULL OR played_at < $2)
		ORDER BY played_at DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, playerID, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.HistoryEntry, 0, limit)
	for rows.Next() {
		var (
			entry           domain.HistoryEntry
			playerCardsJSON []byte
			dealerCardsJSON []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.Timestamp,
			&entry.Bet,
			&entry.Result,
			&entry.PlayerTotal,
			&entry.DealerTotal,
			&playerCardsJSON,
			&dealerCardsJSON,
			&entry.Winnings,
		); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if err := json.Unmarshal(playerCardsJSON, &entry.PlayerHand); err != nil {
			return nil, fmt.Errorf("unmarshal player cards: %w", err)
		}
		if err := json.Unmarshal(dealerCardsJSON, &entry.DealerHand); err != nil {
			return nil, fmt.Errorf("unmarshal dealer cards: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
