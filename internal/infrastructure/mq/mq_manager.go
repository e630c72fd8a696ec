package mq

import (
	"bytes"
	"context"
	"encoding/json"

	myconfig "circle_pipeline/internal/config"
	"circle_pipeline/pkg/errorx"

	"github.com/segmentio/kafka-go"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// encodeFunc 通知序列化方式
type encodeFunc func(n Notification) ([]byte, error)

func encodeJSON(n Notification) ([]byte, error) {
	return json.Marshal(n)
}

// encodeMsgpack 字段名沿用 json tag，与 JSON 编码保持一致
func encodeMsgpack(n Notification) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encoderFor(encoding string) (encodeFunc, error) {
	switch encoding {
	case "", "json":
		return encodeJSON, nil
	case "msgpack":
		return encodeMsgpack, nil
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "unsupported notification encoding %q", encoding)
	}
}

// messageWriter kafka.Writer 的最小子集，便于测试替换
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink 把通知写入 Kafka 主题
// 以通知名作为 key，同名通知落在同一分区，保持相对顺序
type KafkaSink struct {
	writer messageWriter
	encode encodeFunc
}

// NewKafkaSink 初始化 Kafka 写入端
func NewKafkaSink(kafkaConfig *myconfig.KafkaConfig, encoding string) (*KafkaSink, error) {
	encode, err := encoderFor(encoding)
	if err != nil {
		return nil, err
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(kafkaConfig.HostPort),
		Topic:                  kafkaConfig.EventTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           kafkaConfig.Timeout,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: false,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				zap.L().Error("kafka write failed", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}
	return &KafkaSink{writer: writer, encode: encode}, nil
}

func (k *KafkaSink) Deliver(ctx context.Context, n Notification) error {
	value, err := k.encode(n)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeNotifyError, "encode notification %s", n.Name)
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(n.Name),
		Value: value,
		Time:  n.EmittedAt,
	}); err != nil {
		return errorx.Wrap(err, errorx.CodeNotifyError, "kafka write")
	}
	return nil
}

// Close 刷新缓冲并关闭写入端
func (k *KafkaSink) Close() {
	if err := k.writer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}

// CreateTopic 创建事件主题，已存在时 Kafka 返回错误，只记录日志
func CreateTopic(kafkaConfig *myconfig.KafkaConfig) error {
	// 连接至任意kafka节点
	conn, err := kafka.Dial("tcp", kafkaConfig.HostPort)
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeNotifyError, "kafka dial %s", kafkaConfig.HostPort)
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             kafkaConfig.EventTopic,
			NumPartitions:     max(kafkaConfig.Partition, 1),
			ReplicationFactor: 1,
		},
	}
	if err = conn.CreateTopics(topicConfigs...); err != nil {
		zap.L().Warn("kafka create topic", zap.String("topic", kafkaConfig.EventTopic), zap.Error(err))
	}
	return nil
}

var _ Sink = (*KafkaSink)(nil)
