package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/greengrocer/internal/cloudwriter"
	"github.com/chrisdamba/greengrocer/internal/models"
)

// recordTypes maps each topic to the struct that defines its Parquet schema.
var recordTypes = map[string]reflect.Type{
	models.TopicVehicleLocation:        reflect.TypeOf(models.VehicleLocationEvent{}),
	models.TopicDeliveryStatus:         reflect.TypeOf(models.DeliveryStatusEvent{}),
	models.TopicOrderPlaced:            reflect.TypeOf(models.OrderPlacedEvent{}),
	models.TopicFavoritesNotifications: reflect.TypeOf(models.NotificationEvent{}),
}

type parquetPartition struct {
	mu     sync.Mutex
	writer *writer.ParquetWriter
	file   source.ParquetFile
	record reflect.Type
}

type ParquetOutput struct {
	basePath           string
	folder             string
	mu                 sync.Mutex
	partitions         map[string]*parquetPartition
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
}

func NewParquetOutput(cfg models.OutputConfig) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath:   cfg.Path,
		folder:     cfg.Folder,
		partitions: make(map[string]*parquetPartition),
	}

	if cfg.Destination != "" && cfg.Destination != "local" {
		switch cfg.CloudStorage.Provider {
		case "s3":
			factory, err := cloudwriter.NewS3WriterFactory(cfg.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			p.cloudWriterFactory = factory
			p.cloudBucketName = cfg.CloudStorage.BucketName
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
	}

	return p, nil
}

// NewParquetOutputWithFactory writes through factory instead of local files.
func NewParquetOutputWithFactory(folder, bucket string, factory cloudwriter.CloudWriterFactory) *ParquetOutput {
	return &ParquetOutput{
		folder:             folder,
		partitions:         make(map[string]*parquetPartition),
		cloudWriterFactory: factory,
		cloudBucketName:    bucket,
	}
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	recordType, ok := recordTypes[topic]
	if !ok {
		return fmt.Errorf("unknown event type: %s", topic)
	}

	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return err
	}
	partition, err := partitionPath(event)
	if err != nil {
		return err
	}

	record := reflect.New(recordType)
	if err := json.Unmarshal(msg, record.Interface()); err != nil {
		return fmt.Errorf("failed to decode %s event: %w", topic, err)
	}

	writerKey := topic + "_" + partition
	p.mu.Lock()
	part, ok := p.partitions[writerKey]
	if !ok {
		part, err = p.createPartition(topic, partition, recordType)
		if err != nil {
			p.mu.Unlock()
			return fmt.Errorf("failed to create new writer: %w", err)
		}
		p.partitions[writerKey] = part
	}
	p.mu.Unlock()

	part.mu.Lock()
	defer part.mu.Unlock()
	if err := part.writer.Write(record.Elem().Interface()); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (p *ParquetOutput) createPartition(topic, partition string, recordType reflect.Type) (*parquetPartition, error) {
	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		objectPath := filepath.ToSlash(filepath.Join(p.folder, topic, partition, "data.parquet"))
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		fullPath := filepath.Join(p.basePath, p.folder, topic, partition)
		if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
			return nil, err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(fullPath, "data.parquet"))
		if err != nil {
			return nil, fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, reflect.New(recordType).Interface(), 4)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	return &parquetPartition{writer: pw, file: fw, record: recordType}, nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for key, part := range p.partitions {
		part.mu.Lock()
		if err := part.writer.WriteStop(); err != nil {
			lastErr = err
			log.Error().Err(err).Str("partition", key).Msg("Error closing parquet writer")
		}
		if err := part.file.Close(); err != nil {
			lastErr = err
			log.Error().Err(err).Str("partition", key).Msg("Error closing parquet file")
		}
		part.mu.Unlock()
		delete(p.partitions, key)
	}
	return lastErr
}
