package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stavropolsky/tg-track/internal/domain/registry/entities"
	registryerrors "github.com/stavropolsky/tg-track/internal/domain/registry/errors"
	pkgerrors "github.com/stavropolsky/tg-track/pkg/errors"
)

func TestDBError_KeepsCauseAndType(t *testing.T) {
	cause := errors.New("connection reset by peer")

	err := dbError("add keyword", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, registryerrors.ErrDatabaseOperation)
	assert.Equal(t, pkgerrors.ErrorTypeInternal, pkgerrors.TypeOf(err))
	assert.Contains(t, err.Error(), "failed to add keyword")
}

// Nothing listens on port 1, so every query fails at connect time.
func TestRepository_StorageFailureIsInternal(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=127.0.0.1 port=1 user=tg password=tg dbname=tg sslmode=disable connect_timeout=1",
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := NewRepository(db)
	ctx := context.Background()

	_, err = repo.AddKeyword(ctx, "alpha")
	require.Error(t, err)
	assert.ErrorIs(t, err, registryerrors.ErrDatabaseOperation)

	_, err = repo.ListChannels(ctx)
	assert.ErrorIs(t, err, registryerrors.ErrDatabaseOperation)

	_, err = repo.IsBlacklisted(ctx, entities.ByID(42))
	assert.ErrorIs(t, err, registryerrors.ErrDatabaseOperation)

	// validation failures are not wrapped as storage errors
	_, err = repo.AddKeyword(ctx, " ")
	assert.ErrorIs(t, err, registryerrors.ErrEmptyKeyword)
	assert.NotErrorIs(t, err, registryerrors.ErrDatabaseOperation)
}
