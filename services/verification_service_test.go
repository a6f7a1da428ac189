package services

import (
	"errors"
	"testing"

	"cropguard-http-service/models"
)

func TestApproveExpert(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, nil, newTestNotificationService(db))
	admin := createAdmin(t, db)
	expert := createExpert(t, db, models.VerificationPending)

	approved, err := svc.ApproveExpert(expert.ID, admin.ID)
	if err != nil {
		t.Fatalf("审核通过失败: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, approved.ID).Error; err != nil {
		t.Fatalf("重新加载专家失败: %v", err)
	}
	if !reloaded.IsVerified || reloaded.VerificationStatus != models.VerificationApproved {
		t.Errorf("审核字段错误: verified=%v status=%s", reloaded.IsVerified, reloaded.VerificationStatus)
	}
	// 记录审核人和时间
	if reloaded.VerifiedBy == nil || *reloaded.VerifiedBy != admin.ID {
		t.Error("未记录审核管理员")
	}
	if reloaded.VerifiedAt == nil {
		t.Error("未记录审核时间")
	}

	// 专家收到系统通知
	var notification models.Notification
	if err := db.Where("user_id = ? AND type = ?", expert.ID, models.NotificationSystem).
		First(&notification).Error; err != nil {
		t.Fatalf("专家应收到系统通知: %v", err)
	}
}

func TestRejectExpertRecordsReason(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, nil, newTestNotificationService(db))
	admin := createAdmin(t, db)
	expert := createExpert(t, db, models.VerificationPending)

	if _, err := svc.RejectExpert(expert.ID, admin.ID, "资质证明不清晰"); err != nil {
		t.Fatalf("驳回失败: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, expert.ID)
	if reloaded.VerificationStatus != models.VerificationRejected {
		t.Errorf("状态应为rejected: got %s", reloaded.VerificationStatus)
	}
	if reloaded.IsVerified {
		t.Error("驳回后不应为已认证")
	}
	if reloaded.VerificationNote != "资质证明不清晰" {
		t.Errorf("未记录驳回原因: got %s", reloaded.VerificationNote)
	}
	if reloaded.VerifiedBy == nil || *reloaded.VerifiedBy != admin.ID {
		t.Error("未记录操作管理员")
	}
}

func TestSuspendExpert(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, nil, newTestNotificationService(db))
	admin := createAdmin(t, db)
	expert := createExpert(t, db, models.VerificationApproved)

	if _, err := svc.SuspendExpert(expert.ID, admin.ID, "多次违规回复"); err != nil {
		t.Fatalf("停用失败: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, expert.ID)
	if reloaded.VerificationStatus != models.VerificationSuspended {
		t.Errorf("状态应为suspended: got %s", reloaded.VerificationStatus)
	}
	if reloaded.IsVerified {
		t.Error("停用后不应为已认证")
	}
	if reloaded.VerificationNote != "多次违规回复" {
		t.Errorf("未记录停用原因: got %s", reloaded.VerificationNote)
	}

	// 停用后无法再操作问题
	if reloaded.CanActOnQueries() {
		t.Error("停用专家不应再有操作权限")
	}
}

func TestApproveAfterSuspendRestores(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, nil, newTestNotificationService(db))
	admin := createAdmin(t, db)
	expert := createExpert(t, db, models.VerificationApproved)

	if _, err := svc.SuspendExpert(expert.ID, admin.ID, "临时停用"); err != nil {
		t.Fatalf("停用失败: %v", err)
	}
	// 重新审核通过恢复账号，并清除停用原因
	if _, err := svc.ApproveExpert(expert.ID, admin.ID); err != nil {
		t.Fatalf("恢复失败: %v", err)
	}

	var reloaded models.User
	db.First(&reloaded, expert.ID)
	if !reloaded.IsApprovedExpert() {
		t.Error("恢复后应为已认证专家")
	}
	if reloaded.VerificationNote != "" {
		t.Errorf("恢复后应清除原因: got %s", reloaded.VerificationNote)
	}
}

func TestVerificationExpertNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, nil, newTestNotificationService(db))
	admin := createAdmin(t, db)
	farmer := createFarmer(t, db)

	if _, err := svc.ApproveExpert(99999, admin.ID); !errors.Is(err, ErrExpertNotFound) {
		t.Errorf("期望 ErrExpertNotFound, got %v", err)
	}
	// 农户ID不是专家
	if _, err := svc.ApproveExpert(farmer.ID, admin.ID); !errors.Is(err, ErrExpertNotFound) {
		t.Errorf("期望 ErrExpertNotFound, got %v", err)
	}
}

func TestGetPendingExperts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, nil, newTestNotificationService(db))

	createExpert(t, db, models.VerificationApproved)
	first := createExpert(t, db, models.VerificationPending)
	second := createExpert(t, db, models.VerificationPending)

	pending, err := svc.GetPendingExperts()
	if err != nil {
		t.Fatalf("获取待审核专家失败: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("待审核专家应为2个: got %d", len(pending))
	}
	// 按注册时间升序
	if pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Error("待审核专家应按注册时间升序")
	}
}

func TestGetExpertsFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVerificationService(db, nil, newTestNotificationService(db))

	createExpert(t, db, models.VerificationApproved)
	createExpert(t, db, models.VerificationPending)
	createFarmer(t, db)

	all, err := svc.GetExperts("")
	if err != nil {
		t.Fatalf("获取专家列表失败: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("专家总数应为2: got %d", len(all))
	}

	approved, err := svc.GetExperts(models.VerificationApproved)
	if err != nil {
		t.Fatalf("按状态筛选失败: %v", err)
	}
	if len(approved) != 1 {
		t.Errorf("已审核专家应为1个: got %d", len(approved))
	}

	if _, err := svc.GetExperts("unknown"); !errors.Is(err, ErrInvalidVerificationStatus) {
		t.Errorf("期望 ErrInvalidVerificationStatus, got %v", err)
	}
}
