package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gyani-service/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads question bank JSONB from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context, bankID string) ([]domain.QuizQuestion, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_banks WHERE id=$1`, bankID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrBankNotFound, bankID)
	}
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	var questions []domain.QuizQuestion
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("unmarshal bank: %w", err)
	}
	return questions, nil
}

// SeedBanks upserts banks, replacing any stored copy.
func SeedBanks(ctx context.Context, pool *pgxpool.Pool, banks map[string][]domain.QuizQuestion) error {
	for id, questions := range banks {
		data, err := json.Marshal(questions)
		if err != nil {
			return fmt.Errorf("marshal bank %s: %w", id, err)
		}
		_, err = pool.Exec(ctx,
			`INSERT INTO question_banks (id, data) VALUES ($1, $2::jsonb)
			 ON CONFLICT (id) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
			id, string(data))
		if err != nil {
			return fmt.Errorf("seed bank %s: %w", id, err)
		}
	}
	return nil
}
