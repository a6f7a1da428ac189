package models

import "testing"

func TestIsApprovedExpert(t *testing.T) {
	cases := []struct {
		name string
		user User
		want bool
	}{
		{"已审核专家", User{Role: RoleExpert, IsVerified: true, VerificationStatus: VerificationApproved}, true},
		{"待审核专家", User{Role: RoleExpert, IsVerified: false, VerificationStatus: VerificationPending}, false},
		{"停用专家", User{Role: RoleExpert, IsVerified: false, VerificationStatus: VerificationSuspended}, false},
		// 两个标志必须同时成立
		{"标志不一致", User{Role: RoleExpert, IsVerified: true, VerificationStatus: VerificationPending}, false},
		{"农户", User{Role: RoleUser, IsVerified: true, VerificationStatus: VerificationApproved}, false},
	}

	for _, tc := range cases {
		if got := tc.user.IsApprovedExpert(); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanActOnQueries(t *testing.T) {
	// 管理员无条件允许
	admin := User{Role: RoleAdmin}
	if !admin.CanActOnQueries() {
		t.Error("管理员应可以操作问题")
	}

	// 未认证专家不允许
	pending := User{Role: RoleExpert, VerificationStatus: VerificationPending}
	if pending.CanActOnQueries() {
		t.Error("待审核专家不应可以操作问题")
	}

	// 农户不允许
	farmer := User{Role: RoleUser, IsVerified: true, VerificationStatus: VerificationApproved}
	if farmer.CanActOnQueries() {
		t.Error("农户不应可以操作问题")
	}
}

func TestDisplayName(t *testing.T) {
	withName := User{Username: "plantdoc", FullName: "李四"}
	if withName.DisplayName() != "李四" {
		t.Errorf("应优先使用姓名: got %s", withName.DisplayName())
	}

	withoutName := User{Username: "plantdoc"}
	if withoutName.DisplayName() != "plantdoc" {
		t.Errorf("无姓名时使用用户名: got %s", withoutName.DisplayName())
	}
}

func TestUrgencyRank(t *testing.T) {
	order := []string{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow, "unknown"}
	for i := 1; i < len(order); i++ {
		if UrgencyRank(order[i-1]) >= UrgencyRank(order[i]) {
			t.Errorf("%s 应排在 %s 之前", order[i-1], order[i])
		}
	}
}

func TestValidStatus(t *testing.T) {
	valid := []string{QueryStatusPending, QueryStatusAnswered, QueryStatusInProgress, QueryStatusResolved, QueryStatusClosed}
	for _, s := range valid {
		if !ValidStatus(s) {
			t.Errorf("%s 应为合法状态", s)
		}
	}
	for _, s := range []string{"", "done", "PENDING", "open"} {
		if ValidStatus(s) {
			t.Errorf("%s 不应为合法状态", s)
		}
	}
}
