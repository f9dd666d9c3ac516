package dbx

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const UniqueViolation = "23505"

// ClassifyError maps a driver error onto the common sentinels: unique
// violations become common.ErrorAlreadyExists, everything else
// common.ErrorStorageUnavailable. The original error stays in the chain.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == UniqueViolation {
		return fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
	}
	return fmt.Errorf("%w: %w", common.ErrorStorageUnavailable, err)
}
