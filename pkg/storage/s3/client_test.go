package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeAPI struct {
	objects map[string][]byte
	headErr error
	lastKey string
}

func (f *fakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.lastKey = aws.ToString(in.Key)
	data, ok := f.objects[f.lastKey]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeAPI) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func TestDownload(t *testing.T) {
	api := &fakeAPI{objects: map[string][]byte{"exports/vendas.csv": []byte("a,b\n1,2\n")}}
	client := &Client{api: api, bucket: "exports"}

	data, err := client.Download(context.Background(), "exports/vendas.csv", 0)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Fatalf("unexpected payload %q", data)
	}

	if _, err := client.Download(context.Background(), "missing.csv", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := client.Download(context.Background(), "exports/vendas.csv", 4); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestPing(t *testing.T) {
	client := &Client{api: &fakeAPI{}, bucket: "exports"}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping returned error: %v", err)
	}

	client = &Client{api: &fakeAPI{headErr: errors.New("denied")}, bucket: "exports"}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping failure")
	}

	var nilClient *Client
	if err := nilClient.Ping(context.Background()); err == nil {
		t.Fatal("expected error from nil client")
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	if got := normalizeEndpoint("minio.local:9000"); got != "https://minio.local:9000" {
		t.Fatalf("unexpected endpoint %s", got)
	}
	if got := normalizeEndpoint("http://localhost:9000"); got != "http://localhost:9000" {
		t.Fatalf("unexpected endpoint %s", got)
	}
}
