package repository

import (
	"context"

	"github.com/wfunc/match-game/internal/models"
	"gorm.io/gorm"
)

// RoundRecordRepository 回合记录仓储接口
type RoundRecordRepository interface {
	BaseRepository
	Create(ctx context.Context, record *models.RoundRecord) error
	FindByRoundNo(ctx context.Context, roundNo string) (*models.RoundRecord, error)
	GetByUser(ctx context.Context, userID uint, pagination *Pagination) ([]*models.RoundRecord, error)
	// CountByOutcome 按结果类型统计回合数
	CountByOutcome(ctx context.Context) (map[string]int64, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// roundRecordRepo 回合记录仓储实现
type roundRecordRepo struct {
	*BaseRepo
}

// NewRoundRecordRepository 创建回合记录仓储
func NewRoundRecordRepository(db *gorm.DB) RoundRecordRepository {
	return &roundRecordRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建回合记录
func (r *roundRecordRepo) Create(ctx context.Context, record *models.RoundRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByRoundNo 根据回合号查找
func (r *roundRecordRepo) FindByRoundNo(ctx context.Context, roundNo string) (*models.RoundRecord, error) {
	var record models.RoundRecord
	err := r.db.WithContext(ctx).Where("round_no = ?", roundNo).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByUser 获取用户回合记录（分页，最新在前）
func (r *roundRecordRepo) GetByUser(ctx context.Context, userID uint, pagination *Pagination) ([]*models.RoundRecord, error) {
	var records []*models.RoundRecord
	query := r.db.WithContext(ctx).Model(&models.RoundRecord{}).Where("user_id = ?", userID)

	// 获取总数
	var total int64
	query.Count(&total)
	pagination.Total = total

	err := query.
		Limit(pagination.PageSize).
		Offset(pagination.Offset()).
		Order("created_at DESC").
		Find(&records).Error

	return records, err
}

// CountByOutcome 按结果类型统计回合数
func (r *roundRecordRepo) CountByOutcome(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Outcome string
		Count   int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.RoundRecord{}).
		Select("outcome, count(*) as count").
		Group("outcome").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Outcome] = r.Count
	}
	return counts, nil
}

// CountByUser 统计用户回合数
func (r *roundRecordRepo) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RoundRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// WithTx 使用事务
func (r *roundRecordRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &roundRecordRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
