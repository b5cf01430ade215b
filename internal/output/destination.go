// Package output writes simulation and storefront events to console, local
// files (JSON, CSV, Parquet), Kafka or cloud storage.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/greengrocer/internal/models"
)

type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type ConsoleOutput struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleOutput(out io.Writer) *ConsoleOutput {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleOutput{out: out}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.out, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

// Discard drops every message.
type Discard struct{}

func (Discard) WriteMessage(string, []byte) error { return nil }
func (Discard) Close() error                      { return nil }

// New builds the destination selected by cfg.
func New(cfg models.OutputConfig) (Destination, error) {
	switch cfg.Format {
	case "", "console":
		return NewConsoleOutput(os.Stdout), nil
	case "json":
		return NewJSONOutput(cfg.Path, cfg.Folder), nil
	case "csv":
		return NewCSVOutput(cfg.Path, cfg.Folder), nil
	case "parquet":
		return NewParquetOutput(cfg)
	case "kafka":
		return NewKafkaOutput(cfg.KafkaBrokerList)
	case "none":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
}

// Closer closes dest and logs any failure.
func Closer(dest Destination) func() {
	return func() {
		if err := dest.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing output destination")
		}
	}
}
