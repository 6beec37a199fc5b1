package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"revu_farm_v1_202609/internal/controller"
	"revu_farm_v1_202609/internal/middleware"
	"revu_farm_v1_202609/internal/model"
)

// Controllers 控制器集合
type Controllers struct {
	Auth         *controller.AuthController
	Campaign     *controller.CampaignController
	Item         *controller.ItemController
	Slot         *controller.SlotController
	Buyer        *controller.BuyerController
	Review       *controller.ReviewController
	Upload       *controller.UploadController
	Notification *controller.NotificationController
}

// SetupRouter 创建引擎并注册所有路由
func SetupRouter(ctls *Controllers) *gin.Engine {
	r := gin.Default()
	InitRoutes(r, ctls)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctls *Controllers) {
	uploadLimiter := middleware.NewUploadRateLimiter()

	// 1. 买家侧公开路由，口令即凭证
	upload := r.Group("/upload/:token")
	{
		upload.GET("", ctls.Upload.GetGroupInfo)
		upload.GET("/buyers", ctls.Upload.FindBuyers)
		upload.POST("", middleware.LimitUpload(uploadLimiter, 3*time.Second), ctls.Upload.Reconcile)
		upload.POST("/pre", middleware.LimitUpload(uploadLimiter, 3*time.Second), ctls.Upload.PreUpload)
	}

	// 2. 后台 API 路由组
	api := r.Group("/api")
	{
		// auth 鉴权组
		auth := api.Group("/auth")
		{
			auth.POST("/login", ctls.Auth.Login)
			auth.POST("/users", middleware.RequireAuth(), middleware.RequireRoles(model.RoleAdmin), ctls.Auth.CreateUser)
		}

		// campaign 活动管理，销售建单
		campaigns := api.Group("/campaigns", middleware.RequireAuth())
		{
			campaigns.POST("", middleware.RequireRoles(model.RoleAdmin, model.RoleSales), ctls.Campaign.CreateCampaign)
			campaigns.GET("", ctls.Campaign.ListCampaigns)
			campaigns.GET("/:id", ctls.Campaign.GetCampaign)
			campaigns.DELETE("/:id", middleware.RequireRoles(model.RoleAdmin), ctls.Campaign.DeleteCampaign)
		}

		// assignment 运营分配
		assignments := api.Group("/assignments", middleware.RequireAuth())
		{
			assignments.POST("", middleware.RequireRoles(model.RoleAdmin, model.RoleSales), ctls.Campaign.AssignOperator)
			assignments.DELETE("/:id", middleware.RequireRoles(model.RoleAdmin, model.RoleSales), ctls.Campaign.UnassignOperator)
			assignments.GET("/mine", ctls.Campaign.ListMyAssignments)
		}

		// item 商品管理
		items := api.Group("/items", middleware.RequireAuth())
		{
			items.POST("", middleware.RequireRoles(model.RoleAdmin, model.RoleSales), ctls.Item.CreateItem)
			items.GET("", ctls.Item.ListItems)
			items.GET("/:id", ctls.Item.GetItem)
			items.PUT("/:id", ctls.Item.UpdateItem)
			items.DELETE("/:id", middleware.RequireRoles(model.RoleAdmin), ctls.Item.DeleteItem)
			items.GET("/:id/slots", ctls.Item.ListSlots)
		}

		// slot 槽位管理，运营日常操作
		slots := api.Group("/slots", middleware.RequireAuth())
		{
			slots.POST("/:id/split", ctls.Slot.SplitDayGroup)
			slots.PUT("/:id", ctls.Slot.UpdateSlot)
			slots.POST("/:id/suspend", ctls.Slot.SuspendSlot)
			slots.DELETE("/:id", ctls.Slot.DeleteSlot)
		}

		// buyer 买家管理
		buyers := api.Group("/buyers", middleware.RequireAuth())
		{
			buyers.POST("", ctls.Buyer.CreateBuyer)
			buyers.POST("/import", ctls.Buyer.ImportBuyers)
			buyers.GET("", ctls.Buyer.ListBuyers)
			buyers.GET("/:id", ctls.Buyer.GetBuyer)
			buyers.PUT("/:id", ctls.Buyer.UpdateBuyer)
			buyers.DELETE("/:id", ctls.Buyer.DeleteBuyer)
		}

		// review 重传审核，仅管理员
		reviews := api.Group("/reviews", middleware.RequireAuth(), middleware.RequireRoles(model.RoleAdmin))
		{
			reviews.GET("/pending", ctls.Review.ListPending)
			reviews.POST("/:id/approve", ctls.Review.Approve)
			reviews.POST("/:id/reject", ctls.Review.Reject)
			reviews.DELETE("/:id", ctls.Review.DeleteImage)
		}

		// notification 站内通知
		notifications := api.Group("/notifications", middleware.RequireAuth())
		{
			notifications.GET("", ctls.Notification.ListNotifications)
			notifications.POST("/:id/read", ctls.Notification.MarkRead)
		}
	}
}
