package storage

import (
	"testing"
	"time"

	"github.com/autopeer-io/alarmbridge/pkg/options"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 3, 5, 14, 7, 9, 42, time.UTC)

	tests := []struct {
		systemNo string
		want     string
	}{
		{"8800123", "failed/2024/03/05/8800123-1709647629000000042.json"},
		{"", "failed/2024/03/05/unknown-1709647629000000042.json"},
	}

	for _, tt := range tests {
		if got := ObjectKey(tt.systemNo, at); got != tt.want {
			t.Errorf("ObjectKey(%q) = %q, want %q", tt.systemNo, got, tt.want)
		}
	}
}

func TestNewMinIO(t *testing.T) {
	opts := options.NewS3Options()
	opts.Endpoint = "minio.local:9000"

	p, err := NewMinIO(opts)
	if err != nil {
		t.Fatalf("NewMinIO() error = %v", err)
	}
	if p.bucketName != "alarmbridge-failed" {
		t.Fatalf("bucket = %q", p.bucketName)
	}
}
