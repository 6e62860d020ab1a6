package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"time"

	"github.com/DimaKostyrskyj/PriceBot/internal/interfaces"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string
}

func NewKafkaConsumer(broker, topic, groupID, username, password string, handler interfaces.ConsumerHandler) *KafkaConsumer {
	cfg := kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	}

	if username != "" {
		cfg.Dialer = &kafka.Dialer{
			Timeout:   10 * time.Second,
			DualStack: true,
			TLS:       &tls.Config{},
			SASLMechanism: plain.Mechanism{
				Username: username,
				Password: password,
			},
		}
	}

	return &KafkaConsumer{
		Reader:      kafka.NewReader(cfg),
		Handler:     handler,
		ServiceName: "Log Relay",
	}
}

func (kc *KafkaConsumer) Listen(ctx context.Context) {
	for {
		msg, err := kc.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("[%s] read error: %v\n", kc.ServiceName, err)
			continue
		}

		if err := kc.Handler.HandleMessage(string(msg.Value)); err != nil {
			log.Printf("[%s] handler error: %v\n", kc.ServiceName, err)
		}
	}
}

func (kc *KafkaConsumer) Close() error {
	return kc.Reader.Close()
}
