package storage

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/autopeer-io/alarmbridge/internal/bridge/core"
	"github.com/autopeer-io/alarmbridge/internal/bridge/core/model"
	"github.com/autopeer-io/alarmbridge/pkg/log"
	"github.com/autopeer-io/alarmbridge/pkg/options"
)

var _ core.Storage = (*MinIO)(nil)

// failedPrefix is the object prefix of archived records.
const failedPrefix = "failed"

type MinIO struct {
	client     *minio.Client
	bucketName string
	region     string
	now        func() time.Time
}

// archivedRecord is the JSON document stored for a failed dispatch.
type archivedRecord struct {
	Record   *model.Record `json:"record"`
	Error    string        `json:"error"`
	FailedAt time.Time     `json:"failedAt"`
}

// NewMinIO creates the failed-dispatch archive on an S3 compatible store.
func NewMinIO(opts *options.S3Options) (*MinIO, error) {
	// Self-signed certificates are common on on-premise object stores.
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}

	minioOpts := &minio.Options{
		Creds:     credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure:    opts.UseSSL,
		Region:    opts.Region,
		Transport: transport,
	}

	client, err := minio.New(opts.Endpoint, minioOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIO{
		client:     client,
		bucketName: opts.BucketName,
		region:     opts.Region,
		now:        time.Now,
	}, nil
}

func (p *MinIO) CheckBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		log.Info("Bucket does not exist, creating...", "bucket", p.bucketName)
		if err := p.client.MakeBucket(ctx, p.bucketName, minio.MakeBucketOptions{Region: p.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Archive writes rec and the cause of its failure as one JSON object and
// returns the object key.
func (p *MinIO) Archive(ctx context.Context, rec *model.Record, cause error) (string, error) {
	failedAt := p.now().UTC()

	doc := archivedRecord{Record: rec, FailedAt: failedAt}
	if cause != nil {
		doc.Error = cause.Error()
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode archived record: %w", err)
	}

	key := ObjectKey(rec.SystemNo, failedAt)
	_, err = p.client.PutObject(ctx, p.bucketName, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return key, nil
}

// ObjectKey returns failed/yyyy/mm/dd/{systemNo}-{nanos}.json.
func ObjectKey(systemNo string, at time.Time) string {
	systemNo = strings.ReplaceAll(systemNo, "/", "_")
	if systemNo == "" {
		systemNo = "unknown"
	}
	name := systemNo + "-" + strconv.FormatInt(at.UnixNano(), 10) + ".json"
	return path.Join(failedPrefix, at.Format("2006"), at.Format("01"), at.Format("02"), name)
}
