package task

import (
	"sync"
	"time"

	"github.com/blues/wcf/internal/config"
	"github.com/blues/wcf/internal/logger"
	"github.com/blues/wcf/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// ProjectExpiryJob 项目过期检查任务：
// 扫描已过结束日期的进行中项目，逐个判定取消并生成退款记录
type ProjectExpiryJob struct {
	db     *gorm.DB
	config *config.Config
}

// NewProjectExpiryJob 创建项目过期检查任务
func NewProjectExpiryJob(db *gorm.DB, cfg *config.Config) *ProjectExpiryJob {
	return &ProjectExpiryJob{
		db:     db,
		config: cfg,
	}
}

// GetName 获取任务名称
func (j *ProjectExpiryJob) GetName() string {
	return "project_expiry_checker"
}

// GetSchedule 获取调度配置
func (j *ProjectExpiryJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务。不同项目之间相互独立，
// 通过协程池并行判定；单个项目内部由条件更新保证串行。
func (j *ProjectExpiryJob) Execute() {
	logger.Info("Starting project expiry check task")

	now := time.Now()
	projectLogic := logic.NewProjectLogic(j.db)

	projects, err := projectLogic.GetExpiredOpenProjects(now)
	if err != nil {
		logger.Error("Failed to fetch expired projects: %v", err)
		return
	}

	if len(projects) == 0 {
		logger.Info("Project expiry check completed. No expired projects")
		return
	}

	poolSize := j.config.Task.PoolSize
	if poolSize <= 0 {
		poolSize = 8
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		logger.Error("Failed to create worker pool: %v", err)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	cancelledCount := 0
	var mu sync.Mutex

	for _, project := range projects {
		project := project
		wg.Add(1)

		err := pool.Submit(func() {
			defer wg.Done()

			orderIds, err := projectLogic.EvaluateExpiry(project.Id, now)
			if err != nil {
				logger.Error("Failed to evaluate expiry for project %d: %v", project.Id, err)
				return
			}

			if orderIds != nil {
				logger.Info("Cancelled project %d, %d orders marked for refund",
					project.Id, len(orderIds))

				mu.Lock()
				cancelledCount++
				mu.Unlock()
			}
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit expiry check for project %d: %v", project.Id, err)
		}
	}

	wg.Wait()

	logger.Info("Project expiry check completed. Cancelled %d projects", cancelledCount)
}
