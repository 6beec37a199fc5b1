package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 全部业务表的公共字段
// DeletedAt 软删除：删除只打墓碑，清扫任务过保留期后才物理删
type BaseModel struct {
	ID        int64          `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
