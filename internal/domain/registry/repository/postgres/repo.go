package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stavropolsky/tg-track/internal/domain/registry/deps"
	"github.com/stavropolsky/tg-track/internal/domain/registry/entities"
	registryerrors "github.com/stavropolsky/tg-track/internal/domain/registry/errors"
)

// dbError keeps the driver cause and marks the failure as internal
func dbError(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, registryerrors.ErrDatabaseOperation, err)
}

// Repository implements deps.Registry using PostgreSQL
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL registry
func NewRepository(db *gorm.DB) deps.Registry {
	return &Repository{db: db}
}

// AddChannel stores a tracked channel under its canonical url
func (r *Repository) AddChannel(ctx context.Context, chatID int64, url string, channelType entities.ChannelType) (bool, error) {
	if !channelType.Valid() {
		return false, registryerrors.ErrInvalidChannelType
	}
	if strings.TrimSpace(url) == "" {
		return false, registryerrors.ErrEmptyURL
	}

	model := &entities.Channel{
		ChatID: chatID,
		URL:    entities.CanonicalURL(url),
		Type:   channelType,
	}

	// Without a conflict target this covers both chat_id and url.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		return false, dbError("add channel", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// RemoveChannel deletes a tracked channel by url
func (r *Repository) RemoveChannel(ctx context.Context, url string) (bool, error) {
	if strings.TrimSpace(url) == "" {
		return false, registryerrors.ErrEmptyURL
	}

	result := r.db.WithContext(ctx).
		Where("url = ?", entities.CanonicalURL(url)).
		Delete(&entities.Channel{})
	if result.Error != nil {
		return false, dbError("remove channel", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// ListChannels returns tracked channels in insertion order
func (r *Repository) ListChannels(ctx context.Context) ([]entities.Channel, error) {
	var channels []entities.Channel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&channels).Error; err != nil {
		return nil, dbError("list channels", err)
	}
	return channels, nil
}

// ChannelType returns the stored type of a tracked chat
func (r *Repository) ChannelType(ctx context.Context, chatID int64) (entities.ChannelType, bool, error) {
	var channel entities.Channel
	err := r.db.WithContext(ctx).
		Select("type").
		Where("chat_id = ?", chatID).
		Take(&channel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, dbError("get channel type", err)
	}

	return channel.Type, true, nil
}

// AddKeyword stores a keyword as entered
func (r *Repository) AddKeyword(ctx context.Context, keyword string) (bool, error) {
	if strings.TrimSpace(keyword) == "" {
		return false, registryerrors.ErrEmptyKeyword
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.Keyword{Keyword: keyword})
	if result.Error != nil {
		return false, dbError("add keyword", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// RemoveKeyword deletes a keyword by exact text
func (r *Repository) RemoveKeyword(ctx context.Context, keyword string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("keyword = ?", keyword).
		Delete(&entities.Keyword{})
	if result.Error != nil {
		return false, dbError("remove keyword", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// ListKeywords returns keywords in insertion order
func (r *Repository) ListKeywords(ctx context.Context) ([]entities.Keyword, error) {
	var keywords []entities.Keyword
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&keywords).Error; err != nil {
		return nil, dbError("list keywords", err)
	}
	return keywords, nil
}

// UpsertBlacklist inserts a new blacklist entry. An already blacklisted id is left untouched.
func (r *Repository) UpsertBlacklist(ctx context.Context, userID int64, username string) (bool, error) {
	model := &entities.BlacklistEntry{UserID: userID}
	if name := entities.NormalizeUsername(username); name != "" {
		model.Username = &name
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return false, dbError("add blacklist entry", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// RemoveBlacklist deletes an entry. A username is first mapped to its user_id.
func (r *Repository) RemoveBlacklist(ctx context.Context, id entities.Identifier) (bool, error) {
	userID := id.ID()
	if id.IsName() {
		if id.Name() == "" {
			return false, registryerrors.ErrEmptyIdentifier
		}
		found, ok, err := r.LookupBlacklistedID(ctx, id.Name())
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		userID = found
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&entities.BlacklistEntry{})
	if result.Error != nil {
		return false, dbError("remove blacklist entry", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// ListBlacklist returns blacklist entries in insertion order
func (r *Repository) ListBlacklist(ctx context.Context) ([]entities.BlacklistEntry, error) {
	var entries []entities.BlacklistEntry
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, dbError("list blacklist", err)
	}
	return entries, nil
}

// IsBlacklisted checks an id or a username against the blacklist
func (r *Repository) IsBlacklisted(ctx context.Context, id entities.Identifier) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entities.BlacklistEntry{})
	if id.IsName() {
		if id.Name() == "" {
			return false, nil
		}
		query = query.Where("username = ?", id.Name())
	} else {
		query = query.Where("user_id = ?", id.ID())
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, dbError("check blacklist", err)
	}

	return count > 0, nil
}

// LookupBlacklistedID returns the user_id stored for a username
func (r *Repository) LookupBlacklistedID(ctx context.Context, username string) (int64, bool, error) {
	var entry entities.BlacklistEntry
	err := r.db.WithContext(ctx).
		Select("user_id").
		Where("username = ?", entities.NormalizeUsername(username)).
		Order("id ASC").
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, dbError("look up blacklist entry", err)
	}

	return entry.UserID, true, nil
}
