package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/beanhub/backend-go/internal/logger"
)

// Producer 问答事件生产者
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// QuestionEvent 一次问答的分析事件
type QuestionEvent struct {
	Question    string    `json:"question"`
	Route       string    `json:"route"`
	SourceCount int       `json:"source_count"`
	GeneCount   int       `json:"gene_count"`
	DurationMs  int64     `json:"duration_ms"`
	Streamed    bool      `json:"streamed"`
	Timestamp   time.Time `json:"timestamp"`
}

var globalProducer *Producer

// InitProducer 初始化Kafka生产者
func InitProducer(brokers []string, topic string) error {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Timeout = 10 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return fmt.Errorf("failed to create kafka producer: %w", err)
	}

	globalProducer = &Producer{producer: producer, topic: topic}
	logger.Info("Kafka producer initialized", zap.Strings("brokers", brokers), zap.String("topic", topic))
	return nil
}

// GetProducer 获取全局生产者实例，未初始化时为nil
func GetProducer() *Producer {
	return globalProducer
}

// SendQuestionEvent 发送问答分析事件。
// 生产者未初始化或发送失败都不影响问答主流程，调用方只记日志。
func (p *Producer) SendQuestionEvent(event *QuestionEvent) error {
	if p == nil || p.producer == nil {
		return fmt.Errorf("kafka producer not initialized")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal question event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Route),
		Value: sarama.ByteEncoder(data),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send question event: %w", err)
	}

	logger.Debug("Question event sent",
		zap.String("route", event.Route),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if p == nil || p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
