package eventstream

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"presenca.io/entities"
	"presenca.io/infrastructure/logger"
)

// StreamProducer pushes recorded attendance events onto the live Kafka
// stream consumed by the dashboard and downstream payroll systems.
type StreamProducer struct {
	writer *kafka.Writer
}

var (
	producer     *StreamProducer
	producerOnce sync.Once
)

func GetProducer() *StreamProducer {
	producerOnce.Do(func() {
		brokers := os.Getenv("KAFKA_BROKERS")
		if brokers == "" {
			brokers = "localhost:9092"
		}
		topic := os.Getenv("ATTENDANCE_STREAM_TOPIC")
		if topic == "" {
			topic = "attendance.events"
		}
		producer = &StreamProducer{
			writer: &kafka.Writer{
				Addr:         kafka.TCP(brokers),
				Topic:        topic,
				Balancer:     &kafka.LeastBytes{},
				BatchSize:    1,
				BatchTimeout: 10 * time.Millisecond,
				RequiredAcks: kafka.RequireOne,
				Compression:  kafka.Gzip,
			},
		}
		logger.Info("attendance stream producer initialised", logger.LoggerOptions{
			Key:  "topic",
			Data: topic,
		})
	})
	return producer
}

// Publish writes one event to the stream, keyed by employee so each
// employee's punches stay ordered within a partition.
func (p *StreamProducer) Publish(event entities.AttendanceEvent) error {
	// the audit snapshot stays in the database, not on the wire
	event.FrameImage = nil
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshalling attendance event")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.EmployeeID),
		Value: payload,
		Time:  event.Timestamp,
	})
	if err != nil {
		return errors.Wrap(err, "writing attendance event to stream")
	}
	return nil
}

func (p *StreamProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
