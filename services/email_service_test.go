package services

import (
	"sync"
	"testing"

	"cropguard-http-service/config"
)

func newTestEmailService(queueSize, workers int) *EmailService {
	return NewEmailService(&config.Config{
		SMTPHost:       "smtp.example.com",
		SMTPPort:       465,
		SMTPFrom:       "noreply@cropguard.app",
		EmailQueueSize: queueSize,
		EmailWorkers:   workers,
	})
}

func TestEmailQueueFullDrops(t *testing.T) {
	// 无工作协程消费，队列容量1，第二封直接丢弃而不阻塞
	s := newTestEmailService(1, 0)
	s.SendApprovalEmail("a@example.com", "专家甲")
	s.SendRejectionEmail("b@example.com", "专家乙", "资质不全")
	if len(s.queue) != 1 {
		t.Errorf("队列应只保留1封: got %d", len(s.queue))
	}
}

func TestEmailEnqueueAfterCloseSafe(t *testing.T) {
	s := newTestEmailService(4, 1)
	s.Close()

	// 关闭后并发入队被丢弃，不会向已关闭的通道发送
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.SendApprovalEmail("c@example.com", "专家丙")
		}()
	}
	wg.Wait()

	// 重复关闭安全
	s.Close()
}

func TestEmailDisabledWithoutSMTPHost(t *testing.T) {
	s := NewEmailService(&config.Config{EmailQueueSize: 1, EmailWorkers: 0})
	s.SendSuspensionEmail("d@example.com", "专家丁", "违规操作")
	if len(s.queue) != 0 {
		t.Errorf("未配置SMTP时不应入队: got %d", len(s.queue))
	}
	s.Close()
}
