package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"revu_farm_v1_202609/internal/config"
	"revu_farm_v1_202609/internal/repository"
)

// PurgeTask 定时物理清除过期的软删除数据
// 删除顺序从叶到根，外键不会悬空
type PurgeTask struct {
	ItemRepo  repository.ItemRepository
	SlotRepo  repository.SlotRepository
	BuyerRepo repository.BuyerRepository
	ImageRepo repository.ImageRepository
	Cron      *cron.Cron

	retention time.Duration
	spec      string
}

func NewPurgeTask(
	itemRepo repository.ItemRepository,
	slotRepo repository.SlotRepository,
	buyerRepo repository.BuyerRepository,
	imageRepo repository.ImageRepository,
	cfg config.PurgeConfig,
) *PurgeTask {
	return &PurgeTask{
		ItemRepo:  itemRepo,
		SlotRepo:  slotRepo,
		BuyerRepo: buyerRepo,
		ImageRepo: imageRepo,
		Cron:      cron.New(cron.WithSeconds()),
		retention: cfg.Retention,
		spec:      cfg.Spec,
	}
}

// Start 启动定时任务
func (t *PurgeTask) Start() {
	_, err := t.Cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		t.purgeJob(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动软删除清扫任务: %v", err)
	}

	t.Cron.Start()
	log.Printf("软删除清扫任务已启动 (cron=%q 保留期=%s)", t.spec, t.retention)
}

// Stop 停止定时任务，等待进行中的清扫结束
func (t *PurgeTask) Stop() {
	<-t.Cron.Stop().Done()
}

func (t *PurgeTask) purgeJob(ctx context.Context) {
	before := time.Now().Add(-t.retention)
	log.Printf("[Cron] 开始清扫 %s 之前软删除的数据", before.Format("2006-01-02 15:04:05"))

	type target struct {
		name  string
		purge func(context.Context, time.Time) (int64, error)
	}
	targets := []target{
		{"review_images", t.ImageRepo.PurgeDeleted},
		{"buyers", t.BuyerRepo.PurgeDeleted},
		{"item_slots", t.SlotRepo.PurgeDeleted},
		{"items", t.ItemRepo.PurgeDeleted},
	}

	var total int64
	for _, tg := range targets {
		n, err := tg.purge(ctx, before)
		if err != nil {
			log.Printf("[Cron] 清扫 %s 失败: %v", tg.name, err)
			continue
		}
		total += n
	}
	log.Printf("[Cron] 清扫完成，共物理删除 %d 行", total)
}
