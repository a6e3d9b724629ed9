package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"bookshop/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&WriterModel{},
		&CategoryModel{},
		&PublicationModel{},
		&BookModel{},
		&ReviewModel{},
		&OrderModel{},
		&OrderItemModel{},
		&ResetTokenModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// mapWriteErr converts unique-constraint violations into ErrDuplicate.
func mapWriteErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func likePattern(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + replacer.Replace(term) + "%"
}

// SaveUser inserts a new user. A taken email maps to ErrDuplicate.
func (s *GormStore) SaveUser(ctx context.Context, u domain.User) error {
	model := userToModel(u)
	return mapWriteErr(s.db.WithContext(ctx).Create(&model).Error)
}

// UpdateUser overwrites mutable profile fields.
func (s *GormStore) UpdateUser(ctx context.Context, u domain.User) error {
	model := userToModel(u)
	return mapWriteErr(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "photo", "address", "role", "updated_at"}),
	}).Create(&model).Error)
}

// GetUserByEmail looks up a user by email.
func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// GetUserByID returns a user by ID.
func (s *GormStore) GetUserByID(ctx context.Context, id string) (domain.User, bool, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return userFromModel(model), true, nil
}

// DeleteUser removes a user and any live reset token.
func (s *GormStore) DeleteUser(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ResetTokenModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&UserModel{}, "id = ?", id).Error
	})
}

// ListUsersByRole returns one page of users with the given role plus the
// total count under the same filter.
func (s *GormStore) ListUsersByRole(ctx context.Context, role domain.UserRole, page Page, search string) ([]domain.User, int64, error) {
	base := func() *gorm.DB {
		tx := s.db.WithContext(ctx).Model(&UserModel{}).Where("role = ?", int(role))
		if term, ok := SearchTerm(search); ok {
			pattern := likePattern(term)
			tx = tx.Where("name ILIKE ? OR email ILIKE ?", pattern, pattern)
		}
		return tx
	}
	var (
		total  int64
		models []UserModel
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base().WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		return base().WithContext(gctx).
			Order("created_at ASC").
			Offset(page.Offset()).
			Limit(page.Limit()).
			Find(&models).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, userFromModel(m))
	}
	return users, total, nil
}

// ReplaceResetToken deletes any previous token for the user and stores the
// new one, keeping at most one live token per user.
func (s *GormStore) ReplaceResetToken(ctx context.Context, t domain.PasswordResetToken) error {
	model := resetTokenToModel(t)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ResetTokenModel{}, "user_id = ?", t.UserID).Error; err != nil {
			return err
		}
		return tx.Create(&model).Error
	})
}

// GetResetToken resolves an unexpired token by its hash.
func (s *GormStore) GetResetToken(ctx context.Context, tokenHash string) (domain.PasswordResetToken, bool, error) {
	var model ResetTokenModel
	err := s.db.WithContext(ctx).
		Where("token_hash = ? AND expires_at > ?", tokenHash, time.Now().UTC()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.PasswordResetToken{}, false, nil
		}
		return domain.PasswordResetToken{}, false, err
	}
	return resetTokenFromModel(model), true, nil
}

// DeleteResetToken removes the live token of a user (single-use).
func (s *GormStore) DeleteResetToken(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).Delete(&ResetTokenModel{}, "user_id = ?", userID).Error
}
