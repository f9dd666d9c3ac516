package dbx

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/civicfollow/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	assert.NoError(t, ClassifyError(nil))

	dup := &pgconn.PgError{Code: UniqueViolation, ConstraintName: "users_username_key"}
	err := ClassifyError(fmt.Errorf("exec: %w", dup))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.NotErrorIs(t, err, common.ErrorStorageUnavailable)
	assert.ErrorAs(t, err, new(*pgconn.PgError))

	other := &pgconn.PgError{Code: "57P01"}
	err = ClassifyError(other)
	assert.ErrorIs(t, err, common.ErrorStorageUnavailable)
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)

	err = ClassifyError(context.DeadlineExceeded)
	assert.ErrorIs(t, err, common.ErrorStorageUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = ClassifyError(errors.New("conn reset"))
	assert.Equal(t, "db error: conn reset", err.Error())
}
