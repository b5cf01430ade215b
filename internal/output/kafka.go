package output

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog/log"
)

type KafkaOutput struct {
	mu       sync.RWMutex
	producer sarama.SyncProducer
}

func NewKafkaOutput(brokers string) (*KafkaOutput, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(brokers, ",")

	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info().Strs("brokers", brokerList).Msg("Kafka producer created")
	return NewKafkaOutputFromProducer(producer), nil
}

// NewKafkaOutputFromProducer wraps an existing producer.
func NewKafkaOutputFromProducer(producer sarama.SyncProducer) *KafkaOutput {
	return &KafkaOutput{producer: producer}
}

func (k *KafkaOutput) WriteMessage(topic string, msg []byte) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.producer == nil {
		return fmt.Errorf("Kafka producer is closed")
	}
	_, _, err := k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s: %w", topic, err)
	}
	return nil
}

// Close waits for in-flight sends before closing the producer.
func (k *KafkaOutput) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.producer == nil {
		return nil
	}
	err := k.producer.Close()
	k.producer = nil
	return err
}
