package logic

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blues/wcf/internal/model"
	"github.com/blues/wcf/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB 为每个测试创建独立的内存数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := repository.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	return db
}

func datePtr(t time.Time) *time.Time {
	return &t
}

// createTestProject 创建一个进行中的测试项目
func createTestProject(t *testing.T, db *gorm.DB, goal int64, endDate *time.Time) *model.ProjectModel {
	t.Helper()

	project := &model.ProjectModel{
		Title:      "测试项目",
		GoalAmount: goal,
		EndDate:    endDate,
	}
	require.NoError(t, NewProjectLogic(db).CreateProject(project))

	return project
}

// createTestOrder 通过订单逻辑创建订单
func createTestOrder(t *testing.T, db *gorm.DB, order *model.OrderModel, items []model.OrderItemModel) *model.OrderModel {
	t.Helper()

	require.NoError(t, NewOrderLogic(db).CreateOrder(order, items))

	return order
}

// createContributionOrder 创建归属指定项目的单行订单
func createContributionOrder(t *testing.T, db *gorm.DB, projectId, total int64) *model.OrderModel {
	t.Helper()

	return createTestOrder(t, db, &model.OrderModel{},
		[]model.OrderItemModel{
			{ProjectId: projectId, Name: "支持档位", Total: total},
		})
}

// reloadProject 重新读取项目当前状态
func reloadProject(t *testing.T, db *gorm.DB, id int64) *model.ProjectModel {
	t.Helper()

	var project model.ProjectModel
	require.NoError(t, db.First(&project, id).Error)

	return &project
}
