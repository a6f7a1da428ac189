package services

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"cropguard-http-service/config"
	"cropguard-http-service/models"
)

// InterfaceMQTTNotifyService 定义实时通知推送服务接口
type InterfaceMQTTNotifyService interface {
	PublishNotification(n *models.Notification)
	Close()
}

// MQTTNotifyService 通过MQTT向客户端推送新通知，
// 推送失败仅记录日志，不影响业务流程
type MQTTNotifyService struct {
	client  mqtt.Client
	enabled bool
}

// NewMQTTNotifyService 创建MQTT推送服务并连接消息代理
func NewMQTTNotifyService(cfg *config.Config) *MQTTNotifyService {
	if cfg.MQTTBrokerURL == "" {
		return &MQTTNotifyService{enabled: false}
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBrokerURL).
		SetClientID("cropguard-" + uuid.New().String()[:8]).
		SetUsername(cfg.MQTTUsername).
		SetPassword(cfg.MQTTPassword).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.WaitTimeout(5*time.Second) && token.Error() != nil {
		config.Warning("MQTT连接失败，实时推送不可用: %v", token.Error())
		return &MQTTNotifyService{enabled: false}
	}

	config.Info("MQTT连接成功: %s", cfg.MQTTBrokerURL)
	return &MQTTNotifyService{client: client, enabled: true}
}

// PublishNotification 将通知推送到用户专属主题
func (s *MQTTNotifyService) PublishNotification(n *models.Notification) {
	if !s.enabled || n == nil {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		config.Error("通知序列化失败: %v", err)
		return
	}

	topic := fmt.Sprintf("cropguard/notify/%d", n.UserID)
	token := s.client.Publish(topic, 0, false, payload)
	go func() {
		if token.WaitTimeout(3*time.Second) && token.Error() != nil {
			config.Warning("通知推送失败 topic=%s err=%v", topic, token.Error())
		}
	}()
}

// Close 断开MQTT连接
func (s *MQTTNotifyService) Close() {
	if s.enabled && s.client != nil {
		s.client.Disconnect(250)
	}
}
