package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"cropguard-http-service/models"
)

func TestAddResponseAdvancesStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResponseService(db, newTestNotificationService(db), nil)
	farmer := createFarmer(t, db)
	expert := createExpert(t, db, models.VerificationApproved)
	query := createQuery(t, db, farmer.ID, models.UrgencyHigh)

	resp, err := svc.AddResponse(query.ID, expert, "喷施三唑类杀菌剂")
	if err != nil {
		t.Fatalf("追加回复失败: %v", err)
	}
	if resp.QueryID != query.ID || resp.ExpertID != expert.ID {
		t.Error("回复记录绑定错误")
	}

	// 首条回复将问题推进为answered
	var reloaded models.ExpertQuery
	if err := db.First(&reloaded, query.ID).Error; err != nil {
		t.Fatalf("重新加载问题失败: %v", err)
	}
	if reloaded.Status != models.QueryStatusAnswered {
		t.Errorf("问题状态应为answered: got %s", reloaded.Status)
	}
	// 冗余字段同步刷新
	if reloaded.Response != "喷施三唑类杀菌剂" {
		t.Errorf("冗余回复字段未刷新: got %s", reloaded.Response)
	}

	// 农户收到回复通知
	var notification models.Notification
	if err := db.Where("user_id = ? AND type = ?", farmer.ID, models.NotificationQueryResponse).
		First(&notification).Error; err != nil {
		t.Fatalf("农户应收到回复通知: %v", err)
	}
}

func TestAddResponseDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResponseService(db, newTestNotificationService(db), nil)
	farmer := createFarmer(t, db)
	expert := createExpert(t, db, models.VerificationApproved)
	query := createQuery(t, db, farmer.ID, models.UrgencyHigh)

	if _, err := svc.AddResponse(query.ID, expert, "第一次回复"); err != nil {
		t.Fatalf("首次回复失败: %v", err)
	}
	// 同一专家对同一问题只能回复一次
	if _, err := svc.AddResponse(query.ID, expert, "第二次回复"); !errors.Is(err, ErrAlreadyResponded) {
		t.Fatalf("期望 ErrAlreadyResponded, got %v", err)
	}
}

func TestAddResponseConcurrentSingleWinner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResponseService(db, newTestNotificationService(db), nil)
	farmer := createFarmer(t, db)
	expert := createExpert(t, db, models.VerificationApproved)
	query := createQuery(t, db, farmer.ID, models.UrgencyCritical)

	// 同一专家并发提交，由联合唯一索引裁决，恰好一个成功
	const writers = 8
	errs := make([]error, writers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.AddResponse(query.ID, expert, fmt.Sprintf("并发回复%d", i))
		}(i)
	}
	close(start)
	wg.Wait()

	var won, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrAlreadyResponded):
			conflicts++
		default:
			t.Fatalf("意外错误: %v", err)
		}
	}
	if won != 1 || conflicts != writers-1 {
		t.Fatalf("应恰好1个成功%d个冲突: got %d成功 %d冲突", writers-1, won, conflicts)
	}

	// 账本只有赢家的一条记录，农户只收到一条通知
	var count int64
	db.Model(&models.ExpertResponse{}).Where("query_id = ?", query.ID).Count(&count)
	if count != 1 {
		t.Errorf("账本应只有1条记录: got %d", count)
	}
	var notificationCount int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", farmer.ID, models.NotificationQueryResponse).
		Count(&notificationCount)
	if notificationCount != 1 {
		t.Errorf("农户应只收到1条通知: got %d", notificationCount)
	}
}

func TestAddResponseMultipleExperts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResponseService(db, newTestNotificationService(db), nil)
	farmer := createFarmer(t, db)
	expertA := createExpert(t, db, models.VerificationApproved)
	expertB := createExpert(t, db, models.VerificationApproved)
	query := createQuery(t, db, farmer.ID, models.UrgencyHigh)

	if _, err := svc.AddResponse(query.ID, expertA, "专家A的建议"); err != nil {
		t.Fatalf("专家A回复失败: %v", err)
	}
	if _, err := svc.AddResponse(query.ID, expertB, "专家B的建议"); err != nil {
		t.Fatalf("专家B回复失败: %v", err)
	}

	// 第二条回复不改变问题状态
	var reloaded models.ExpertQuery
	db.First(&reloaded, query.ID)
	if reloaded.Status != models.QueryStatusAnswered {
		t.Errorf("问题状态应保持answered: got %s", reloaded.Status)
	}

	count, err := svc.CountResponses(query.ID)
	if err != nil {
		t.Fatalf("统计回复失败: %v", err)
	}
	if count != 2 {
		t.Errorf("回复数应为2: got %d", count)
	}

	// 每条回复都通知农户
	var notificationCount int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", farmer.ID, models.NotificationQueryResponse).
		Count(&notificationCount)
	if notificationCount != 2 {
		t.Errorf("农户应收到2条回复通知: got %d", notificationCount)
	}
}

func TestAddResponseValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResponseService(db, newTestNotificationService(db), nil)
	farmer := createFarmer(t, db)
	expert := createExpert(t, db, models.VerificationApproved)
	pendingExpert := createExpert(t, db, models.VerificationPending)
	query := createQuery(t, db, farmer.ID, models.UrgencyHigh)

	// 空回复
	if _, err := svc.AddResponse(query.ID, expert, "   "); !errors.Is(err, ErrResponseEmpty) {
		t.Errorf("期望 ErrResponseEmpty, got %v", err)
	}
	// 未认证专家
	if _, err := svc.AddResponse(query.ID, pendingExpert, "回复"); !errors.Is(err, ErrExpertNotVerified) {
		t.Errorf("期望 ErrExpertNotVerified, got %v", err)
	}
	// 问题不存在
	if _, err := svc.AddResponse(99999, expert, "回复"); !errors.Is(err, ErrQueryNotFound) {
		t.Errorf("期望 ErrQueryNotFound, got %v", err)
	}
}

func TestEditResponse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResponseService(db, newTestNotificationService(db), nil)
	farmer := createFarmer(t, db)
	expert := createExpert(t, db, models.VerificationApproved)
	other := createExpert(t, db, models.VerificationApproved)
	query := createQuery(t, db, farmer.ID, models.UrgencyHigh)

	resp, err := svc.AddResponse(query.ID, expert, "初步建议")
	if err != nil {
		t.Fatalf("追加回复失败: %v", err)
	}

	// 只能编辑自己的回复
	if _, err := svc.EditResponse(resp.ID, other.ID, "篡改"); !errors.Is(err, ErrResponseNotOwner) {
		t.Fatalf("期望 ErrResponseNotOwner, got %v", err)
	}

	edited, err := svc.EditResponse(resp.ID, expert.ID, "修订后的建议")
	if err != nil {
		t.Fatalf("编辑回复失败: %v", err)
	}
	if edited.Response != "修订后的建议" {
		t.Errorf("回复内容未更新: got %s", edited.Response)
	}

	// 冗余字段跟随编辑刷新
	var reloaded models.ExpertQuery
	db.First(&reloaded, query.ID)
	if reloaded.Response != "修订后的建议" {
		t.Errorf("冗余回复字段未刷新: got %s", reloaded.Response)
	}
}

func TestGetQueryResponses(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResponseService(db, newTestNotificationService(db), nil)
	farmer := createFarmer(t, db)
	expertA := createExpert(t, db, models.VerificationApproved)
	expertB := createExpert(t, db, models.VerificationApproved)
	query := createQuery(t, db, farmer.ID, models.UrgencyHigh)

	if _, err := svc.AddResponse(query.ID, expertA, "先回复"); err != nil {
		t.Fatalf("回复失败: %v", err)
	}
	if _, err := svc.AddResponse(query.ID, expertB, "后回复"); err != nil {
		t.Fatalf("回复失败: %v", err)
	}

	views, err := svc.GetQueryResponses(query.ID)
	if err != nil {
		t.Fatalf("获取回复列表失败: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("回复数应为2: got %d", len(views))
	}
	// 最新的回复在前
	if views[0].ExpertID != expertB.ID || views[1].ExpertID != expertA.ID {
		t.Error("回复应按时间倒序排列")
	}
	// 附带专家信息
	if views[1].ExpertName != expertA.DisplayName() {
		t.Errorf("专家姓名错误: got %s", views[1].ExpertName)
	}
	if views[1].Specialization != "植物病理学" {
		t.Errorf("专业领域错误: got %s", views[1].Specialization)
	}

	// 问题不存在
	if _, err := svc.GetQueryResponses(99999); !errors.Is(err, ErrQueryNotFound) {
		t.Errorf("期望 ErrQueryNotFound, got %v", err)
	}
}

func TestHasResponded(t *testing.T) {
	db := setupTestDB(t)
	svc := NewResponseService(db, newTestNotificationService(db), nil)
	farmer := createFarmer(t, db)
	expert := createExpert(t, db, models.VerificationApproved)
	query := createQuery(t, db, farmer.ID, models.UrgencyHigh)

	ok, err := svc.HasResponded(query.ID, expert.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if ok {
		t.Error("尚未回复时应返回false")
	}

	if _, err := svc.AddResponse(query.ID, expert, "回复内容"); err != nil {
		t.Fatalf("回复失败: %v", err)
	}

	ok, err = svc.HasResponded(query.ID, expert.ID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if !ok {
		t.Error("已回复时应返回true")
	}
}
