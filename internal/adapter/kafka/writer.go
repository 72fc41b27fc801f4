package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/climate-stats-etl/internal/config"
	"github.com/couchcryptid/climate-stats-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes reports to a Kafka topic, one message per report.
// It implements pipeline.ReportSink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// WriteReport publishes one report keyed by its kind, so every version of a
// report lands on the same partition.
func (w *Writer) WriteReport(ctx context.Context, run domain.RunInfo, r domain.Report) error {
	msg, err := serializeToMessage(run, r)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s report: %w", r.Kind, err)
	}
	w.logger.Debug("report published", "report", r.Kind, "run_id", run.ID, "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// ReportMessage is the JSON value of a published report.
type ReportMessage struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Report      string    `json:"report"`
	Lines       []string  `json:"lines"`
	Body        string    `json:"body"`
}

func serializeToMessage(run domain.RunInfo, r domain.Report) (kafkago.Message, error) {
	lines := r.Lines
	if lines == nil {
		lines = []string{}
	}
	data, err := json.Marshal(ReportMessage{
		RunID:       run.ID,
		GeneratedAt: run.GeneratedAt,
		Report:      string(r.Kind),
		Lines:       lines,
		Body:        r.Body(),
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize %s report: %w", r.Kind, err)
	}
	return kafkago.Message{
		Key:   []byte(r.Kind),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "report", Value: []byte(r.Kind)},
			{Key: "run_id", Value: []byte(run.ID)},
			{Key: "generated_at", Value: []byte(run.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
