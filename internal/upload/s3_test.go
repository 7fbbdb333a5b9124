package upload

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/taigrr/prism/internal/config"
)

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestKey(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	tests := []struct {
		prefix, name, want string
	}{
		{"", "cube", "cube-20260304-050607.png"},
		{"frames", "cube", "frames/cube-20260304-050607.png"},
		{"/frames/", "cube", "frames/cube-20260304-050607.png"},
		{"frames", "a/b", "frames/a_b-20260304-050607.png"},
		{"frames", "  ", "frames/frame-20260304-050607.png"},
	}
	for _, tt := range tests {
		if got := Key(tt.prefix, tt.name, at); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestNewDisabled(t *testing.T) {
	if _, err := New(config.S3Config{}); !errors.Is(err, ErrDisabled) {
		t.Errorf("got %v, want ErrDisabled", err)
	}
}

func TestUpload(t *testing.T) {
	fake := &fakeS3{}
	sink := NewWithClient(fake, "frames")
	data := []byte("\x89PNG")

	if err := sink.Upload(context.Background(), "a.png", data); err != nil {
		t.Fatal(err)
	}
	if got := aws.StringValue(fake.input.Bucket); got != "frames" {
		t.Errorf("bucket = %q, want frames", got)
	}
	if got := aws.StringValue(fake.input.ContentType); got != "image/png" {
		t.Errorf("content type = %q, want image/png", got)
	}
	if got := aws.Int64Value(fake.input.ContentLength); got != int64(len(data)) {
		t.Errorf("content length = %d, want %d", got, len(data))
	}
	if string(fake.body) != string(data) {
		t.Errorf("body = %q, want %q", fake.body, data)
	}
}

func TestUploadErrors(t *testing.T) {
	boom := errors.New("boom")
	sink := NewWithClient(&fakeS3{err: boom}, "frames")

	if err := sink.Upload(context.Background(), "", nil); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("empty key: got %v, want ErrEmptyKey", err)
	}
	if err := sink.Upload(context.Background(), "a.png", nil); !errors.Is(err, boom) {
		t.Errorf("client failure: got %v, want wrapped boom", err)
	}
}
