package telegram

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/gotd/td/session"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionModel is the persisted MTProto session of the member account
type SessionModel struct {
	ID          uint      `gorm:"primaryKey"`
	PhoneHash   string    `gorm:"column:phone_hash;uniqueIndex"`
	SessionData []byte    `gorm:"column:session_data"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SessionModel) TableName() string {
	return "mtproto_sessions"
}

// PostgresSessionStorage implements session.Storage using PostgreSQL.
// Rows are keyed by the SHA-256 of the phone number.
type PostgresSessionStorage struct {
	db        *gorm.DB
	phoneHash string
}

// NewPostgresSessionStorage creates a new PostgreSQL-based session storage
func NewPostgresSessionStorage(db *gorm.DB, phoneNumber string) (*PostgresSessionStorage, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if phoneNumber == "" {
		return nil, fmt.Errorf("phone number is required")
	}

	return &PostgresSessionStorage{
		db:        db,
		phoneHash: phoneHash(phoneNumber),
	}, nil
}

func phoneHash(phoneNumber string) string {
	hash := sha256.Sum256([]byte(phoneNumber))
	return fmt.Sprintf("%x", hash[:])
}

// LoadSession loads session data from PostgreSQL
func (s *PostgresSessionStorage) LoadSession(ctx context.Context) ([]byte, error) {
	var sess SessionModel
	err := s.db.WithContext(ctx).Where("phone_hash = ?", s.phoneHash).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if len(sess.SessionData) == 0 {
		return nil, session.ErrNotFound
	}
	return sess.SessionData, nil
}

// StoreSession stores session data to PostgreSQL
func (s *PostgresSessionStorage) StoreSession(ctx context.Context, data []byte) error {
	sess := SessionModel{
		PhoneHash:   s.phoneHash,
		SessionData: data,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"session_data", "updated_at"}),
	}).Create(&sess).Error
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// DeleteSession removes the session so the next connect authenticates again
func (s *PostgresSessionStorage) DeleteSession(ctx context.Context) error {
	return s.db.WithContext(ctx).Where("phone_hash = ?", s.phoneHash).Delete(&SessionModel{}).Error
}

var _ session.Storage = (*PostgresSessionStorage)(nil)
