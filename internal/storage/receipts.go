package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-booking/internal/models"
)

const FolderReceipts = "receipts"

type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	URLTTL          time.Duration
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ReceiptStore uploads a JSON receipt per paid order and hands back a
// pre-signed download URL.
type ReceiptStore struct {
	client  objectPutter
	presign *s3.PresignClient
	cfg     S3Config
	logger  *zap.Logger
}

func NewReceiptStore(cfg S3Config, logger *zap.Logger) *ReceiptStore {
	opts := s3.Options{Region: cfg.Region}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		)
	} else {
		logger.Warn("receipt store has no static credentials", zap.String("region", cfg.Region))
	}

	client := s3.New(opts)
	return &ReceiptStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		cfg:     cfg,
		logger:  logger,
	}
}

type Receipt struct {
	OrderID     string     `json:"order_id"`
	TenantID    string     `json:"tenant_id"`
	UserID      string     `json:"user_id"`
	SlotIDs     []string   `json:"slot_ids"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	PaymentRef  string     `json:"payment_ref"`
	PaidAt      *time.Time `json:"paid_at"`
}

// ReceiptKey returns receipts/{tenant_id}/{order_id}.json.
func ReceiptKey(tenantID, orderID string) string {
	return path.Join(FolderReceipts, tenantID, orderID+".json")
}

func (s *ReceiptStore) PutReceipt(ctx context.Context, order *models.Order) (string, error) {
	body, err := json.Marshal(Receipt{
		OrderID:     order.ID,
		TenantID:    order.TenantID,
		UserID:      order.UserID,
		SlotIDs:     order.SlotIDs,
		AmountCents: order.AmountCents,
		Currency:    order.Currency,
		PaymentRef:  order.PaymentRef,
		PaidAt:      order.PaidAt,
	})
	if err != nil {
		return "", fmt.Errorf("encode receipt: %w", err)
	}

	key := ReceiptKey(order.TenantID, order.ID)
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	}); err != nil {
		return "", fmt.Errorf("upload receipt: %w", err)
	}

	return s.presignedURL(ctx, key)
}

func (s *ReceiptStore) presignedURL(ctx context.Context, key string) (string, error) {
	ttl := s.cfg.URLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("presign receipt: %w", err)
	}
	return req.URL, nil
}
