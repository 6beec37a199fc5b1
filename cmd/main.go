package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"revu_farm_v1_202609/internal/config"
	"revu_farm_v1_202609/internal/controller"
	"revu_farm_v1_202609/internal/middleware"
	"revu_farm_v1_202609/internal/model"
	"revu_farm_v1_202609/internal/repository"
	"revu_farm_v1_202609/internal/router"
	"revu_farm_v1_202609/internal/service"
	"revu_farm_v1_202609/internal/task"
	"revu_farm_v1_202609/pkg/database"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:       cfg.JWT.SecretKey,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
		Issuer:          cfg.JWT.Issuer,
	})
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(db, cfg)

	// 4. 启动定时任务
	purgeTask := initTasks(deps, cfg)

	// 5. 初始化路由并启动服务
	r := router.SetupRouter(deps.Controllers)
	startServer(r, cfg, purgeTask)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User         repository.UserRepository
	Campaign     repository.CampaignRepository
	Assignment   repository.AssignmentRepository
	Item         repository.ItemRepository
	Slot         repository.SlotRepository
	Buyer        repository.BuyerRepository
	Image        repository.ImageRepository
	Notification repository.NotificationRepository
	Uow          *repository.FulfillmentUnitOfWork
}

// Services 服务集合
type Services struct {
	User     *service.UserService
	Campaign *service.CampaignService
	Item     *service.ItemService
	Slot     *service.SlotService
	Buyer    *service.BuyerService
	Upload   *service.UploadService
	Review   *service.ReviewService
	Notify   *service.NotificationService
	Storage  service.StorageProvider
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase(cfg *config.Config) *gorm.DB {
	return database.InitDB(cfg.Database.DSN(), cfg.Server.Debug,
		// Manager
		&model.SysUser{}, &model.Notification{},
		// Campaign
		&model.Campaign{}, &model.CampaignOperatorAssignment{},
		// Fulfillment
		&model.Item{}, &model.ItemSlot{},
		// Buyer
		&model.Buyer{}, &model.ReviewImage{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB, cfg *config.Config) *Dependencies {
	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 存储服务 --------
	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		log.Fatalf("存储服务初始化失败: %v", err)
	}

	// -------- 业务服务 --------
	notifySvc := service.NewNotificationService(repos.User, repos.Notification, repos.Campaign)
	services := &Services{
		User:     service.NewUserService(repos.User),
		Campaign: service.NewCampaignService(repos.Campaign, repos.Assignment, repos.User),
		Item:     service.NewItemService(repos.Uow, repos.Campaign),
		Slot:     service.NewSlotService(repos.Uow),
		Buyer:    service.NewBuyerService(repos.Uow),
		Upload:   service.NewUploadService(repos.Uow, storage, notifySvc),
		Review:   service.NewReviewService(repos.Uow, storage),
		Notify:   notifySvc,
		Storage:  storage,
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:         controller.NewAuthController(services.User),
		Campaign:     controller.NewCampaignController(services.Campaign),
		Item:         controller.NewItemController(services.Item),
		Slot:         controller.NewSlotController(services.Slot),
		Buyer:        controller.NewBuyerController(services.Buyer),
		Review:       controller.NewReviewController(services.Review),
		Upload:       controller.NewUploadController(services.Upload),
		Notification: controller.NewNotificationController(services.Notify),
	}

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         repository.NewUserRepository(db),
		Campaign:     repository.NewCampaignRepository(db),
		Assignment:   repository.NewAssignmentRepository(db),
		Item:         repository.NewItemRepository(db),
		Slot:         repository.NewSlotRepository(db),
		Buyer:        repository.NewBuyerRepository(db),
		Image:        repository.NewImageRepository(db),
		Notification: repository.NewNotificationRepository(db),
		Uow:          repository.NewFulfillmentUnitOfWork(db),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies, cfg *config.Config) *task.PurgeTask {
	if !cfg.Purge.Enabled {
		return nil
	}

	purgeTask := task.NewPurgeTask(
		deps.Repos.Item,
		deps.Repos.Slot,
		deps.Repos.Buyer,
		deps.Repos.Image,
		cfg.Purge,
	)
	purgeTask.Start()

	log.Println("定时任务已启动")
	return purgeTask
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, cfg *config.Config, purgeTask *task.PurgeTask) {
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	if purgeTask != nil {
		purgeTask.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}
