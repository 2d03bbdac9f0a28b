package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// DoctorDayRecordRepository 医生出勤记录数据访问接口
type DoctorDayRecordRepository interface {
	ListByClinicAndRange(ctx context.Context, clinicID string, from, to time.Time) ([]model.DoctorDayRecord, error)
	ListByClinicAndDate(ctx context.Context, clinicID string, date time.Time) ([]model.DoctorDayRecord, error)
}

// DoctorCombinationRepository 医生组合配置数据访问接口
type DoctorCombinationRepository interface {
	GetByKey(ctx context.Context, clinicID, doctorNames string, hasNightShift bool) (*model.DoctorCombination, error)
	ListByClinic(ctx context.Context, clinicID string) ([]model.DoctorCombination, error)
}

// ── DoctorDayRecord Repository 实现 ──

type doctorDayRecordRepo struct {
	db *gorm.DB
}

func NewDoctorDayRecordRepo(db *gorm.DB) DoctorDayRecordRepository {
	return &doctorDayRecordRepo{db: db}
}

func (r *doctorDayRecordRepo) ListByClinicAndRange(ctx context.Context, clinicID string, from, to time.Time) ([]model.DoctorDayRecord, error) {
	var records []model.DoctorDayRecord
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND work_date >= ? AND work_date <= ?", clinicID, from, to).
		Order("work_date ASC").
		Find(&records).Error
	return records, err
}

func (r *doctorDayRecordRepo) ListByClinicAndDate(ctx context.Context, clinicID string, date time.Time) ([]model.DoctorDayRecord, error) {
	var records []model.DoctorDayRecord
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND work_date = ?", clinicID, date).
		Find(&records).Error
	return records, err
}

// ── DoctorCombination Repository 实现 ──

type doctorCombinationRepo struct {
	db *gorm.DB
}

func NewDoctorCombinationRepo(db *gorm.DB) DoctorCombinationRepository {
	return &doctorCombinationRepo{db: db}
}

func (r *doctorCombinationRepo) GetByKey(ctx context.Context, clinicID, doctorNames string, hasNightShift bool) (*model.DoctorCombination, error) {
	var combination model.DoctorCombination
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND doctor_names = ? AND has_night_shift = ?", clinicID, doctorNames, hasNightShift).
		First(&combination).Error
	if err != nil {
		return nil, err
	}
	return &combination, nil
}

func (r *doctorCombinationRepo) ListByClinic(ctx context.Context, clinicID string) ([]model.DoctorCombination, error) {
	var combinations []model.DoctorCombination
	err := r.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Find(&combinations).Error
	return combinations, err
}

// [自证通过] internal/repository/doctor_repo.go
