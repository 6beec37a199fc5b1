package repository

import (
	"context"

	"gorm.io/gorm"
)

// FulfillmentUnitOfWork 履约工作单元
// 上传对账、日结拆分、买家合并这些多表写操作共用一个事务边界
type FulfillmentUnitOfWork struct {
	db            *gorm.DB
	Items         ItemRepository
	Slots         SlotRepository
	Buyers        BuyerRepository
	Images        ImageRepository
	Assignments   AssignmentRepository
	Notifications NotificationRepository
}

// NewFulfillmentUnitOfWork 创建工作单元
func NewFulfillmentUnitOfWork(db *gorm.DB) *FulfillmentUnitOfWork {
	return &FulfillmentUnitOfWork{
		db:            db,
		Items:         NewItemRepository(db),
		Slots:         NewSlotRepository(db),
		Buyers:        NewBuyerRepository(db),
		Images:        NewImageRepository(db),
		Assignments:   NewAssignmentRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// DB 暴露底层连接（仅给需要裸查询的调用方）
func (u *FulfillmentUnitOfWork) DB() *gorm.DB {
	return u.db
}

// Transaction 在一个数据库事务里执行 fn，fn 内用事务版仓储
func (u *FulfillmentUnitOfWork) Transaction(ctx context.Context, fn func(uow *FulfillmentUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewFulfillmentUnitOfWork(tx))
	})
}
