package repository

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/wfunc/match-game/internal/errors"
	"github.com/wfunc/match-game/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	BaseRepository
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// GetOrCreate 按外部用户名取用户，不存在则以初始积分建档
	GetOrCreate(ctx context.Context, username string, initialCredits int64) (*models.User, error)
	// Debit 扣减积分并累加消费，余额不足时不产生任何变更
	Debit(ctx context.Context, userID uint, amount int64) error
	// Credit 增加积分
	Credit(ctx context.Context, userID uint, amount int64) error
	// SetCredits 直接设置积分（演示账号补满用）
	SetCredits(ctx context.Context, userID uint, credits int64) error
	UpdateLastLogin(ctx context.Context, userID uint, ip string) error
}

// userRepo 用户仓储实现
type userRepo struct {
	*BaseRepo
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建用户
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update 更新用户
func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// FindByID 根据ID查找用户
func (r *userRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername 根据用户名查找
func (r *userRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// GetOrCreate 按外部用户名取用户，不存在则建档
func (r *userRepo) GetOrCreate(ctx context.Context, username string, initialCredits int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where(models.User{Username: username}).
		Attrs(models.User{
			Nickname: username,
			Role:     "player",
			Status:   "active",
			Credits:  initialCredits,
		}).
		Clauses(clause.OnConflict{DoNothing: true}).
		FirstOrCreate(&user).Error
	if err != nil {
		return nil, err
	}

	// 并发建档时OnConflict可能吞掉插入，重读一次保证拿到记录
	if user.ID == 0 {
		err = r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
		if err != nil {
			return nil, err
		}
	}

	return &user, nil
}

// Debit 扣减积分并累加消费
//
// 条件更新保证余额检查与扣减是同一条语句，两个并发init
// 不可能都通过检查后重复扣款。
func (r *userRepo) Debit(ctx context.Context, userID uint, amount int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND credits >= ?", userID, amount).
		Updates(map[string]interface{}{
			"credits":     gorm.Expr("credits - ?", amount),
			"total_spent": gorm.Expr("total_spent + ?", amount),
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrInsufficientFunds)
	}

	return nil
}

// Credit 增加积分
func (r *userRepo) Credit(ctx context.Context, userID uint, amount int64) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("credits", gorm.Expr("credits + ?", amount)).Error
}

// SetCredits 直接设置积分
func (r *userRepo) SetCredits(ctx context.Context, userID uint, credits int64) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("credits", credits).Error
}

// UpdateLastLogin 更新最后登录信息
func (r *userRepo) UpdateLastLogin(ctx context.Context, userID uint, ip string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"last_login_ip": ip,
		}).Error
}

// WithTx 使用事务
func (r *userRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &userRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
