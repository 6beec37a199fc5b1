package model

// ==================== 系统角色 ====================

const (
	RoleAdmin    = "admin"    // 管理员：审核重传、查看全部活动
	RoleSales    = "sales"    // 销售：创建活动/商品、日结拆分
	RoleOperator = "operator" // 运营：只能操作被分配的 (item, day_group)
)

// SysUser 系统用户（管理员/销售/运营）
type SysUser struct {
	BaseModel
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:255;not null" json:"-"` // bcrypt 哈希
	Email    string `gorm:"size:100" json:"email"`

	// 系统级角色: admin / sales / operator
	Role string `gorm:"size:20;default:'operator';index" json:"role"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

func (SysUser) TableName() string {
	return "sys_users"
}
