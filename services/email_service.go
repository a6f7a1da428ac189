package services

import (
	"fmt"
	"sync"

	gomail "gopkg.in/gomail.v2"

	"cropguard-http-service/config"
)

// InterfaceEmailService 定义邮件服务接口
type InterfaceEmailService interface {
	SendRegistrationPendingEmail(to, fullName string)
	SendApprovalEmail(to, fullName string)
	SendRejectionEmail(to, fullName, reason string)
	SendSuspensionEmail(to, fullName, reason string)
	Close()
}

type emailTask struct {
	to      string
	subject string
	body    string
}

// EmailService 通过有界队列和固定工作协程异步发送邮件，
// 队列满时丢弃新任务并记录日志，不阻塞业务请求
type EmailService struct {
	cfg     *config.Config
	queue   chan emailTask
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
	enabled bool
}

// NewEmailService 创建邮件服务并启动发送工作协程
func NewEmailService(cfg *config.Config) *EmailService {
	s := &EmailService{
		cfg:     cfg,
		queue:   make(chan emailTask, cfg.EmailQueueSize),
		enabled: cfg.SMTPHost != "",
	}

	for i := 0; i < cfg.EmailWorkers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	return s
}

func (s *EmailService) worker(id int) {
	defer s.wg.Done()
	for task := range s.queue {
		if err := s.send(task); err != nil {
			config.Error("邮件发送失败 worker=%d to=%s subject=%s err=%v", id, task.to, task.subject, err)
		} else {
			config.Info("邮件发送成功 to=%s subject=%s", task.to, task.subject)
		}
	}
}

func (s *EmailService) send(task emailTask) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SMTPFrom)
	m.SetHeader("To", task.to)
	m.SetHeader("Subject", task.subject)
	m.SetBody("text/plain; charset=UTF-8", task.body)

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPassword)
	return d.DialAndSend(m)
}

// enqueue 将邮件任务放入队列，队列满或服务已关闭时直接丢弃。
// 关闭状态在锁内判断，保证不会向已关闭的通道发送
func (s *EmailService) enqueue(task emailTask) {
	if !s.enabled || task.to == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		config.Warning("邮件服务已关闭，丢弃邮件 to=%s", task.to)
		return
	}
	select {
	case s.queue <- task:
	default:
		config.Warning("邮件队列已满，丢弃邮件 to=%s subject=%s", task.to, task.subject)
	}
}

// SendRegistrationPendingEmail 发送专家注册待审核通知邮件
func (s *EmailService) SendRegistrationPendingEmail(to, fullName string) {
	s.enqueue(emailTask{
		to:      to,
		subject: "专家注册申请已提交",
		body: fmt.Sprintf("%s，您好：\n\n您的专家注册申请已提交，管理员将在审核资质证明后开通账号。\n审核通过后您将收到邮件通知。\n\n农作物病害咨询平台", fullName),
	})
}

// SendApprovalEmail 发送专家审核通过通知邮件
func (s *EmailService) SendApprovalEmail(to, fullName string) {
	s.enqueue(emailTask{
		to:      to,
		subject: "专家账号审核通过",
		body: fmt.Sprintf("%s，您好：\n\n恭喜您，您的专家账号已通过审核，现在可以登录平台回复农户的咨询问题。\n\n农作物病害咨询平台", fullName),
	})
}

// SendRejectionEmail 发送专家审核未通过通知邮件
func (s *EmailService) SendRejectionEmail(to, fullName, reason string) {
	body := fmt.Sprintf("%s，您好：\n\n很遗憾，您的专家账号未通过审核。", fullName)
	if reason != "" {
		body += fmt.Sprintf("\n原因：%s", reason)
	}
	body += "\n\n如有疑问请联系平台管理员。\n\n农作物病害咨询平台"
	s.enqueue(emailTask{to: to, subject: "专家账号审核未通过", body: body})
}

// SendSuspensionEmail 发送专家账号停用通知邮件
func (s *EmailService) SendSuspensionEmail(to, fullName, reason string) {
	body := fmt.Sprintf("%s，您好：\n\n您的专家账号已被停用。", fullName)
	if reason != "" {
		body += fmt.Sprintf("\n原因：%s", reason)
	}
	body += "\n\n如有疑问请联系平台管理员。\n\n农作物病害咨询平台"
	s.enqueue(emailTask{to: to, subject: "专家账号已停用", body: body})
}

// Close 停止接收新任务并等待队列中的邮件发送完成，重复调用安全
func (s *EmailService) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
