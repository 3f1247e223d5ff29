package logic

import (
	"testing"
	"time"

	"github.com/blues/wcf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteOrderRecordsContribution(t *testing.T) {
	db := setupTestDB(t)
	contributeLogic := NewContributeLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 10000, &end)

	order := createContributionOrder(t, db, project.Id, 3000)
	require.NoError(t, contributeLogic.CompleteOrder(order.Id))

	saved := reloadProject(t, db, project.Id)
	assert.Equal(t, int64(3000), saved.CurrentAmount)
	assert.Equal(t, int64(1), saved.ContributorCount)
	assert.Equal(t, model.ProjectStatusOpen, saved.Status)

	var record model.ContributeRecordModel
	require.NoError(t, db.Where("order_id = ?", order.Id).First(&record).Error)
	assert.Equal(t, project.Id, record.ProjectId)
	assert.Equal(t, int64(3000), record.Amount)
}

func TestCompleteOrderSumsSequentialContributions(t *testing.T) {
	db := setupTestDB(t)
	contributeLogic := NewContributeLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 100000, &end)

	amounts := []int64{1500, 2500, 4000}
	for _, amount := range amounts {
		order := createContributionOrder(t, db, project.Id, amount)
		require.NoError(t, contributeLogic.CompleteOrder(order.Id))
	}

	saved := reloadProject(t, db, project.Id)
	assert.Equal(t, int64(8000), saved.CurrentAmount)
	assert.Equal(t, int64(3), saved.ContributorCount)
}

func TestCompleteOrderReachesGoal(t *testing.T) {
	db := setupTestDB(t)
	contributeLogic := NewContributeLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 10000, &end)

	order := createContributionOrder(t, db, project.Id, 10000)
	require.NoError(t, contributeLogic.CompleteOrder(order.Id))

	saved := reloadProject(t, db, project.Id)
	assert.Equal(t, model.ProjectStatusComplete, saved.Status)
	assert.Equal(t, int64(10000), saved.CurrentAmount)
}

func TestCompleteOrderMultipleItemsCountOnce(t *testing.T) {
	db := setupTestDB(t)
	contributeLogic := NewContributeLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 100000, &end)

	// 同一订单里同一项目的多个档位只算一位支持者
	order := createTestOrder(t, db, &model.OrderModel{},
		[]model.OrderItemModel{
			{ProjectId: project.Id, Name: "早鸟价", Total: 2000},
			{ProjectId: project.Id, Name: "标准价", Total: 3000},
		})
	require.NoError(t, contributeLogic.CompleteOrder(order.Id))

	saved := reloadProject(t, db, project.Id)
	assert.Equal(t, int64(5000), saved.CurrentAmount)
	assert.Equal(t, int64(1), saved.ContributorCount)
}

func TestCompleteOrderStandardOrderSkipsLedger(t *testing.T) {
	db := setupTestDB(t)
	contributeLogic := NewContributeLogic(db)

	order := createTestOrder(t, db, &model.OrderModel{},
		[]model.OrderItemModel{
			{ProjectId: 0, Name: "普通商品", Total: 1200},
		})
	require.NoError(t, contributeLogic.CompleteOrder(order.Id))

	var saved model.OrderModel
	require.NoError(t, db.First(&saved, order.Id).Error)
	assert.Equal(t, model.OrderStatusCompleted, saved.Status)

	var count int64
	require.NoError(t, db.Model(&model.ContributeRecordModel{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCompleteOrderRejectsTerminalProject(t *testing.T) {
	db := setupTestDB(t)
	contributeLogic := NewContributeLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 10000, &end)

	// 两个订单都在项目进行中创建
	winner := createContributionOrder(t, db, project.Id, 10000)
	late := createContributionOrder(t, db, project.Id, 5000)

	require.NoError(t, contributeLogic.CompleteOrder(winner.Id))
	require.Equal(t, model.ProjectStatusComplete, reloadProject(t, db, project.Id).Status)

	// 项目已达成，后续订单不再进入账本
	err := contributeLogic.CompleteOrder(late.Id)
	assert.ErrorIs(t, err, ErrProjectNotOpen)

	saved := reloadProject(t, db, project.Id)
	assert.Equal(t, int64(10000), saved.CurrentAmount)
	assert.Equal(t, int64(1), saved.ContributorCount)

	// 失败的完成被整体回滚，订单仍然待支付
	var lateOrder model.OrderModel
	require.NoError(t, db.First(&lateOrder, late.Id).Error)
	assert.Equal(t, model.OrderStatusPending, lateOrder.Status)
}

func TestCompleteOrderTwice(t *testing.T) {
	db := setupTestDB(t)
	contributeLogic := NewContributeLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 100000, &end)

	order := createContributionOrder(t, db, project.Id, 3000)
	require.NoError(t, contributeLogic.CompleteOrder(order.Id))

	err := contributeLogic.CompleteOrder(order.Id)
	assert.ErrorIs(t, err, ErrOrderNotCompletable)

	saved := reloadProject(t, db, project.Id)
	assert.Equal(t, int64(3000), saved.CurrentAmount)
	assert.Equal(t, int64(1), saved.ContributorCount)
}

func TestCompleteOrderAlreadyRecorded(t *testing.T) {
	db := setupTestDB(t)
	contributeLogic := NewContributeLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 100000, &end)

	order := createContributionOrder(t, db, project.Id, 3000)

	// 预先存在的贡献记录阻止重复记账
	require.NoError(t, db.Create(&model.ContributeRecordModel{
		OrderId:   order.Id,
		ProjectId: project.Id,
		Amount:    3000,
	}).Error)

	err := contributeLogic.CompleteOrder(order.Id)
	assert.ErrorIs(t, err, ErrOrderAlreadyRecorded)

	// 整体回滚，订单状态保持不变
	var saved model.OrderModel
	require.NoError(t, db.First(&saved, order.Id).Error)
	assert.Equal(t, model.OrderStatusPending, saved.Status)
	assert.Equal(t, int64(0), reloadProject(t, db, project.Id).CurrentAmount)
}

func TestGetContributors(t *testing.T) {
	db := setupTestDB(t)
	contributeLogic := NewContributeLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 100000, &end)

	public := createTestOrder(t, db, &model.OrderModel{
		BillingFirstName: "小明",
		BillingLastName:  "王",
		PublishDonator:   true,
		PublishAmount:    true,
	}, []model.OrderItemModel{{ProjectId: project.Id, Total: 2000}})

	shy := createTestOrder(t, db, &model.OrderModel{
		BillingFirstName: "小红",
		BillingLastName:  "李",
		PublishDonator:   true,
		PublishAmount:    false,
	}, []model.OrderItemModel{{ProjectId: project.Id, Total: 3000}})

	anonymous := createTestOrder(t, db, &model.OrderModel{
		PublishDonator: false,
	}, []model.OrderItemModel{{ProjectId: project.Id, Total: 500}})

	for _, id := range []int64{public.Id, shy.Id, anonymous.Id} {
		require.NoError(t, contributeLogic.CompleteOrder(id))
	}

	contributors, anonymousCount, err := contributeLogic.GetContributors(project.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), anonymousCount)
	require.Len(t, contributors, 2)

	// 最近的贡献在前
	assert.Equal(t, shy.Id, contributors[0].OrderId)
	assert.Equal(t, "小红", contributors[0].FirstName)
	assert.False(t, contributors[0].ShowAmount)
	assert.Equal(t, int64(0), contributors[0].Amount)

	assert.Equal(t, public.Id, contributors[1].OrderId)
	assert.True(t, contributors[1].ShowAmount)
	assert.Equal(t, int64(2000), contributors[1].Amount)
}

func TestGetProjectContributeRecords(t *testing.T) {
	db := setupTestDB(t)
	contributeLogic := NewContributeLogic(db)

	end := time.Now().AddDate(0, 0, 10)
	project := createTestProject(t, db, 100000, &end)

	for _, amount := range []int64{1000, 2000, 3000} {
		order := createContributionOrder(t, db, project.Id, amount)
		require.NoError(t, contributeLogic.CompleteOrder(order.Id))
	}

	records, total, err := contributeLogic.GetProjectContributeRecords(project.Id, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, records, 2)
}
