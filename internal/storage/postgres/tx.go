package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

const rollbackTimeout = 2 * time.Second

type txKey struct{}

// WithinTx выполняет fn в транзакции REPEATABLE READ.
//
// Транзакция передаётся репозиториям через ctx. Serialization failure и
// deadlock перезапускают fn целиком в новой транзакции. Вложенный вызов
// присоединяется к уже открытой транзакции.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	return s.retry.Run(ctx, isConflict, func(ctx context.Context) error {
		tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
		if err != nil {
			return classify(fmt.Errorf("begin tx: %w", err))
		}

		txCtx := context.WithValue(ctx, txKey{}, tx)
		if err := fn(txCtx); err != nil {
			rollback(ctx, tx)
			return classify(err)
		}

		if err := tx.Commit(ctx); err != nil {
			rollback(ctx, tx)
			return classify(fmt.Errorf("commit tx: %w", err))
		}
		return nil
	})
}

func rollback(ctx context.Context, tx pgx.Tx) {
	rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
	defer cancel()
	_ = tx.Rollback(rbCtx)
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

// classify превращает serialization failure и deadlock в domain.ErrWriteConflict.
func classify(err error) error {
	if isSerializationFailure(err) && !errors.Is(err, domain.ErrWriteConflict) {
		return fmt.Errorf("%w: %w", domain.ErrWriteConflict, err)
	}
	return err
}

func isConflict(err error) bool {
	return errors.Is(err, domain.ErrWriteConflict)
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ domain.Transactor = (*Store)(nil)
