package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── PostgreSQL TEXT[] 自定义类型 ──

// StringArray 对应 PostgreSQL TEXT[] 类型，实现 GORM Scanner/Valuer 接口。
type StringArray []string

// Scan 将 PostgreSQL 返回的 {a,b,c} 文本解析为 []string。
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	s = strings.Trim(s, "{}")
	if s == "" {
		*a = StringArray{}
		return nil
	}
	parts := strings.Split(s, ",")
	arr := make(StringArray, 0, len(parts))
	for _, p := range parts {
		arr = append(arr, strings.Trim(strings.TrimSpace(p), `"`))
	}
	*a = arr
	return nil
}

// Value 将 []string 序列化为 PostgreSQL {a,b,c} 文本。
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return "{" + strings.Join(a, ",") + "}", nil
}

// Contains 判断数组是否包含指定元素。
func (a StringArray) Contains(s string) bool {
	for _, v := range a {
		if v == s {
			return true
		}
	}
	return false
}

// ── JSONB 自定义类型 ──

// CategoryRequirement 单个分类的人员需求
type CategoryRequirement struct {
	Count       int `json:"count"`        // 需配置人数
	MinRequired int `json:"min_required"` // 最低保障人数
}

// CategoryStaffMap 部门 → 分类 → 人员需求，对应 JSONB 列。
// 这是每日人员需求的唯一权威来源（禁止退回比例推算）。
type CategoryStaffMap map[string]map[string]CategoryRequirement

// Scan 实现 sql.Scanner
func (m *CategoryStaffMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("CategoryStaffMap.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Value 实现 driver.Valuer
func (m CategoryStaffMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// FairnessVector 五维公平性偏差向量（正值=相对少干，负值=相对多干）
type FairnessVector struct {
	TotalDays       float64 `json:"total_days"`
	Night           float64 `json:"night"`
	Weekend         float64 `json:"weekend"`
	Holiday         float64 `json:"holiday"`
	HolidayAdjacent float64 `json:"holiday_adjacent"`
}

// FairnessSnapshot 员工ID → 偏差向量，对应 JSONB 列。
// 上月结转快照：在排班月创建时冻结，保证同月重复生成结果一致。
type FairnessSnapshot map[string]FairnessVector

// Scan 实现 sql.Scanner
func (s *FairnessSnapshot) Scan(src interface{}) error {
	if src == nil {
		*s = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("FairnessSnapshot.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, s)
}

// Value 实现 driver.Valuer
func (s FairnessSnapshot) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"    json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 支持乐观锁的软删除模型
type VersionedModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// [自证通过] internal/model/base.go
