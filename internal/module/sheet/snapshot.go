package sheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// SnapshotConfig holds S3-compatible storage configuration for CSV snapshots.
type SnapshotConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// SnapshotStore uploads document exports to object storage. Uploads run
// behind a circuit breaker so a storage outage cannot stall the export path.
type SnapshotStore struct {
	client  *s3.Client
	breaker *gobreaker.CircuitBreaker[string]
	bucket  string
	logger  *zap.Logger
}

// NewSnapshotStore creates a new snapshot store.
func NewSnapshotStore(cfg *SnapshotConfig, logger *zap.Logger) (*SnapshotStore, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, errors.New("incomplete snapshot storage configuration")
	}

	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKeyID,
		cfg.SecretAccessKey,
		"",
	)

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "snapshot-storage",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &SnapshotStore{
		client:  client,
		breaker: breaker,
		bucket:  cfg.Bucket,
		logger:  logger,
	}, nil
}

// Upload stores a CSV snapshot and returns the object key.
func (s *SnapshotStore) Upload(ctx context.Context, docID uuid.UUID, data []byte) (string, error) {
	key := fmt.Sprintf("snapshots/%s/%d.csv", docID, time.Now().UnixMilli())

	_, err := s.breaker.Execute(func() (string, error) {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("text/csv"),
		})
		if err != nil {
			return "", fmt.Errorf("put snapshot: %w", err)
		}
		return key, nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug("snapshot uploaded",
		zap.String("document_id", docID.String()),
		zap.String("key", key),
	)

	return key, nil
}
