package logic

import (
	"strings"
	"testing"
	"time"

	"github.com/blues/wcf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderAttribution(t *testing.T) {
	db := setupTestDB(t)
	orderLogic := NewOrderLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 10000, &end)

	order := &model.OrderModel{}
	err := orderLogic.CreateOrder(order, []model.OrderItemModel{
		{ProjectId: project.Id, Name: "早鸟价", Total: 2000},
		{ProjectId: project.Id, Name: "标准价", Total: 3000},
	})
	require.NoError(t, err)

	assert.Equal(t, project.Id, order.ProjectId)
	assert.Equal(t, int64(5000), order.ContributionTotal)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "WC-"))

	var items []model.OrderItemModel
	require.NoError(t, db.Where("order_id = ?", order.Id).Find(&items).Error)
	assert.Len(t, items, 2)
}

func TestCreateOrderStandardOnly(t *testing.T) {
	db := setupTestDB(t)
	orderLogic := NewOrderLogic(db)

	order := &model.OrderModel{}
	err := orderLogic.CreateOrder(order, []model.OrderItemModel{
		{ProjectId: 0, Name: "普通商品", Total: 900},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), order.ProjectId)
	assert.Equal(t, int64(0), order.ContributionTotal)
}

func TestCreateOrderRejectsMixedCart(t *testing.T) {
	db := setupTestDB(t)
	orderLogic := NewOrderLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 10000, &end)

	// 项目支持在前
	err := orderLogic.CreateOrder(&model.OrderModel{}, []model.OrderItemModel{
		{ProjectId: project.Id, Total: 2000},
		{ProjectId: 0, Total: 900},
	})
	assert.ErrorIs(t, err, ErrMixedCart)

	// 普通商品在前
	err = orderLogic.CreateOrder(&model.OrderModel{}, []model.OrderItemModel{
		{ProjectId: 0, Total: 900},
		{ProjectId: project.Id, Total: 2000},
	})
	assert.ErrorIs(t, err, ErrMixedCart)
}

func TestCreateOrderRejectsMixedProjects(t *testing.T) {
	db := setupTestDB(t)
	orderLogic := NewOrderLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	first := createTestProject(t, db, 10000, &end)
	second := createTestProject(t, db, 20000, &end)

	err := orderLogic.CreateOrder(&model.OrderModel{}, []model.OrderItemModel{
		{ProjectId: first.Id, Total: 2000},
		{ProjectId: second.Id, Total: 3000},
	})
	assert.ErrorIs(t, err, ErrMixedProjects)
}

func TestCreateOrderRejectsUnsetProject(t *testing.T) {
	db := setupTestDB(t)
	orderLogic := NewOrderLogic(db)

	project := createTestProject(t, db, 0, nil)

	err := orderLogic.CreateOrder(&model.OrderModel{}, []model.OrderItemModel{
		{ProjectId: project.Id, Total: 2000},
	})
	assert.ErrorIs(t, err, ErrProjectNotSet)
}

func TestCreateOrderRejectsEndedProject(t *testing.T) {
	db := setupTestDB(t)
	orderLogic := NewOrderLogic(db)

	end := time.Now().AddDate(0, 0, -1)
	project := createTestProject(t, db, 10000, &end)

	err := orderLogic.CreateOrder(&model.OrderModel{}, []model.OrderItemModel{
		{ProjectId: project.Id, Total: 2000},
	})
	assert.ErrorIs(t, err, ErrProjectOver)
}

func TestCreateOrderRejectsForeignLevel(t *testing.T) {
	db := setupTestDB(t)
	orderLogic := NewOrderLogic(db)
	levelLogic := NewLevelLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	first := createTestProject(t, db, 10000, &end)
	second := createTestProject(t, db, 20000, &end)

	level := &model.ContributionLevelModel{ProjectId: second.Id, Title: "标准价", Amount: 2000}
	require.NoError(t, levelLogic.CreateLevel(level))

	err := orderLogic.CreateOrder(&model.OrderModel{}, []model.OrderItemModel{
		{ProjectId: first.Id, LevelId: level.Id, Total: 2000},
	})
	assert.ErrorIs(t, err, ErrLevelMismatch)
}

func TestAttributeOrder(t *testing.T) {
	projectId, total := attributeOrder([]model.OrderItemModel{
		{ProjectId: 3, Total: 1000},
		{ProjectId: 3, Total: 2500},
	})
	assert.Equal(t, int64(3), projectId)
	assert.Equal(t, int64(3500), total)

	projectId, total = attributeOrder([]model.OrderItemModel{
		{ProjectId: 0, Total: 900},
	})
	assert.Equal(t, int64(0), projectId)
	assert.Equal(t, int64(0), total)
}

func TestGetOrdersFilterByProject(t *testing.T) {
	db := setupTestDB(t)
	orderLogic := NewOrderLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	first := createTestProject(t, db, 10000, &end)
	second := createTestProject(t, db, 20000, &end)

	createContributionOrder(t, db, first.Id, 1000)
	createContributionOrder(t, db, first.Id, 2000)
	createContributionOrder(t, db, second.Id, 3000)

	orders, total, err := orderLogic.GetOrders(first.Id, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, orders, 2)
}
