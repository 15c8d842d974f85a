package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	apperrors "github.com/Mugen-bitt/ai-finance-miniapp/internal/errors"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/initdata"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/logger"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/models"
)

// pgUniqueViolation is the SQLSTATE Postgres reports for unique index conflicts.
const pgUniqueViolation = "23505"

// userService handles user-related business logic.
type userService struct {
	db       *gorm.DB
	audit    AuditServicer
	resolves singleflight.Group
}

// NewUserService creates a new UserServicer. Registrations are recorded in audit.
func NewUserService(db *gorm.DB, audit AuditServicer) UserServicer {
	return &userService{db: db, audit: audit}
}

// ResolveTelegramUser returns the user for identity.ID, creating it on first sight.
// Concurrent calls for the same Telegram ID share a single lookup/insert; a
// unique-index conflict from another process is recovered by re-reading the row.
func (s *userService) ResolveTelegramUser(ctx context.Context, identity initdata.Identity) (*models.User, error) {
	if identity.ID == 0 {
		return nil, apperrors.ErrMalformedIdentity
	}

	key := strconv.FormatInt(identity.ID, 10)
	v, err, _ := s.resolves.Do(key, func() (interface{}, error) {
		return s.resolve(ctx, identity)
	})
	if err != nil {
		return nil, err
	}

	user := *v.(*models.User)
	return &user, nil
}

func (s *userService) resolve(ctx context.Context, identity initdata.Identity) (*models.User, error) {
	user, err := s.GetUserByTelegramID(ctx, identity.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}
	return s.createOrReload(ctx, identity)
}

// createOrReload inserts a user for identity. If the insert loses a race on the
// telegram_id unique index, the winner's row is returned instead.
func (s *userService) createOrReload(ctx context.Context, identity initdata.Identity) (*models.User, error) {
	user := &models.User{
		TelegramID: identity.ID,
		FirstName:  identity.FirstName,
		LastName:   identity.LastName,
		Username:   identity.Username,
	}

	err := s.db.WithContext(ctx).Create(user).Error
	if err == nil {
		logger.Get().Infow("registered new user", "user_id", user.ID, "telegram_id", user.TelegramID)
		s.audit.Log(ctx, user.ID, AuditRegisterUser, "user", user.ID, "",
			map[string]interface{}{"telegram_id": user.TelegramID, "username": user.Username})
		return user, nil
	}
	if !isUniqueViolation(err) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	logger.Get().Debugw("concurrent first login, reloading user", "telegram_id", identity.ID)
	return s.GetUserByTelegramID(ctx, identity.ID)
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByTelegramID retrieves a user by their Telegram account ID
func (s *userService) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// isUniqueViolation reports whether err comes from a unique constraint.
// GORM translates it when TranslateError is enabled; the pgconn check covers
// connections opened without translation.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
