package services

import (
	"errors"
	"testing"
	"time"

	"cropguard-http-service/models"
)

func TestUnreadCountAndMarkAsRead(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	farmer := createFarmer(t, db)

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSystemNotification(db, farmer.ID, "测试通知", "内容"); err != nil {
			t.Fatalf("创建通知失败: %v", err)
		}
	}

	count, err := svc.GetUnreadCount(farmer.ID)
	if err != nil {
		t.Fatalf("获取未读数失败: %v", err)
	}
	if count != 3 {
		t.Errorf("未读数应为3: got %d", count)
	}

	unread, err := svc.GetUnreadNotifications(farmer.ID)
	if err != nil {
		t.Fatalf("获取未读通知失败: %v", err)
	}
	if len(unread) != 3 {
		t.Fatalf("未读通知应为3条: got %d", len(unread))
	}

	// 标记一条已读
	if err := svc.MarkAsRead(unread[0].ID, farmer.ID); err != nil {
		t.Fatalf("标记已读失败: %v", err)
	}
	count, _ = svc.GetUnreadCount(farmer.ID)
	if count != 2 {
		t.Errorf("未读数应为2: got %d", count)
	}

	// 全部标记已读
	if err := svc.MarkAllAsRead(farmer.ID); err != nil {
		t.Fatalf("全部标记已读失败: %v", err)
	}
	count, _ = svc.GetUnreadCount(farmer.ID)
	if count != 0 {
		t.Errorf("未读数应为0: got %d", count)
	}
}

func TestMarkAsReadOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	owner := createFarmer(t, db)
	other := createFarmer(t, db)

	n, err := svc.CreateSystemNotification(db, owner.ID, "测试通知", "内容")
	if err != nil {
		t.Fatalf("创建通知失败: %v", err)
	}

	// 只能操作本人的通知
	if err := svc.MarkAsRead(n.ID, other.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("期望 ErrNotificationNotFound, got %v", err)
	}
	// 通知不存在
	if err := svc.MarkAsRead(99999, owner.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("期望 ErrNotificationNotFound, got %v", err)
	}
}

func TestGetUserNotificationsPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	farmer := createFarmer(t, db)

	for i := 0; i < 15; i++ {
		if _, err := svc.CreateSystemNotification(db, farmer.ID, "测试通知", "内容"); err != nil {
			t.Fatalf("创建通知失败: %v", err)
		}
	}

	notifications, result, err := svc.GetUserNotifications(farmer.ID, &models.PaginationQuery{PageNum: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("获取通知列表失败: %v", err)
	}
	if len(notifications) != 10 {
		t.Errorf("第一页应有10条: got %d", len(notifications))
	}
	if result.Total != 15 {
		t.Errorf("总数应为15: got %d", result.Total)
	}

	second, _, err := svc.GetUserNotifications(farmer.ID, &models.PaginationQuery{PageNum: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("获取第二页失败: %v", err)
	}
	if len(second) != 5 {
		t.Errorf("第二页应有5条: got %d", len(second))
	}
}

func TestCleanupOldNotifications(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestNotificationService(db)
	farmer := createFarmer(t, db)

	oldRead, err := svc.CreateSystemNotification(db, farmer.ID, "过期已读", "内容")
	if err != nil {
		t.Fatalf("创建通知失败: %v", err)
	}
	oldUnread, err := svc.CreateSystemNotification(db, farmer.ID, "过期未读", "内容")
	if err != nil {
		t.Fatalf("创建通知失败: %v", err)
	}
	recent, err := svc.CreateSystemNotification(db, farmer.ID, "最近已读", "内容")
	if err != nil {
		t.Fatalf("创建通知失败: %v", err)
	}

	// 构造40天前的旧通知，其中一条已读
	old := time.Now().AddDate(0, 0, -40)
	db.Model(oldRead).Updates(map[string]interface{}{"is_read": true, "created_at": old})
	db.Model(oldUnread).Update("created_at", old)
	db.Model(recent).Update("is_read", true)

	deleted, err := svc.CleanupOldNotifications()
	if err != nil {
		t.Fatalf("清理失败: %v", err)
	}
	// 清理只看时间，30天前的通知无论已读未读都删除
	if deleted != 2 {
		t.Errorf("应删除2条: got %d", deleted)
	}

	var remaining []models.Notification
	if err := db.Find(&remaining).Error; err != nil {
		t.Fatalf("查询剩余通知失败: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != recent.ID {
		t.Errorf("应只剩最近的通知: got %d 条", len(remaining))
	}
}
