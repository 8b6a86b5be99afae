package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"questboard/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)

	// UpdateProgress writes the XP and level columns in one statement.
	UpdateProgress(ctx context.Context, id uint, xp int, levelID uint) error

	// StoreRefreshTokenHash overwrites the stored hash unconditionally
	// (login invalidates any other outstanding refresh token).
	StoreRefreshTokenHash(ctx context.Context, id uint, hash string) error
	// RotateRefreshTokenHash swaps oldHash for newHash only if oldHash is
	// still the stored value. Returns false when another rotation won.
	RotateRefreshTokenHash(ctx context.Context, id uint, oldHash, newHash string) (bool, error)
	// ClearRefreshTokenHash revokes the session for a user id.
	ClearRefreshTokenHash(ctx context.Context, id uint) error
	// ClearRefreshTokenHashByHash revokes whichever session stored this hash.
	ClearRefreshTokenHashByHash(ctx context.Context, hash string) error

	// Leaderboard returns the top rows ordered by XP descending with a
	// deterministic id tiebreak. Rank is left for the caller to assign.
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Select(clause.Associations).Delete(&model.User{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Level").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate locks the user row for the duration of the enclosing
// transaction. Serializes concurrent XP mutations per user.
func (r *userRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Level").Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProgress(ctx context.Context, id uint, xp int, levelID uint) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"xp": xp, "level_id": levelID}).Error
}

func (r *userRepository) StoreRefreshTokenHash(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("refresh_token_hash", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) RotateRefreshTokenHash(ctx context.Context, id uint, oldHash, newHash string) (bool, error) {
	// Compare-and-swap on the hash column. Under concurrent refreshes with
	// the same presented token, exactly one UPDATE matches.
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND refresh_token_hash = ?", id, oldHash).
		Update("refresh_token_hash", newHash)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) ClearRefreshTokenHash(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("refresh_token_hash", nil).Error
}

func (r *userRepository) ClearRefreshTokenHashByHash(ctx context.Context, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("refresh_token_hash = ?", hash).
		Update("refresh_token_hash", nil).Error
}

func (r *userRepository) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	var rows []model.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Table("users u").
		Select("u.id AS user_id, u.name, u.xp, l.level_number AS level").
		Joins("LEFT JOIN levels l ON l.id = u.level_id").
		Order("u.xp DESC, u.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
