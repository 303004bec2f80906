package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/vangotest/internal/config"
)

// fakeS3 is an in-memory S3API.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.objects[aws.ToString(in.Key)] = data
	f.mu.Unlock()
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	data, ok := f.objects[aws.ToString(in.Key)]
	f.mu.Unlock()
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	delete(f.objects, aws.ToString(in.Key))
	f.mu.Unlock()
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestStores(t *testing.T) {
	sqliteStore, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { sqliteStore.Close() })

	diskStore, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore() error = %v", err)
	}

	stores := []struct {
		name       string
		store      Store
		reportsGap bool
	}{
		{"memory", NewMemoryStore(), true},
		{"disk", diskStore, true},
		{"s3", NewS3Store(newFakeS3(), "bucket", "snapshots/"), false},
		{"sqlite", sqliteStore, true},
	}

	for _, tt := range stores {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := tt.store

			if _, err := s.Get(ctx, "missing.json"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			if err := s.Put(ctx, "TestA/first.json", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := s.Put(ctx, "TestA/second.json", []byte(`{"a":2}`)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := s.Put(ctx, "TestB/only.json", []byte(`{}`)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := s.Put(ctx, "TestA/first.json", []byte(`{"a":3}`)); err != nil {
				t.Fatalf("Put() overwrite error = %v", err)
			}

			got, err := s.Get(ctx, "TestA/first.json")
			if err != nil || string(got) != `{"a":3}` {
				t.Fatalf("Get() = %q, %v", got, err)
			}

			keys, err := s.List(ctx, "TestA/")
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			want := []string{"TestA/first.json", "TestA/second.json"}
			if !reflect.DeepEqual(keys, want) {
				t.Fatalf("List() = %v, want %v", keys, want)
			}

			if err := s.Delete(ctx, "TestA/first.json"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Get(ctx, "TestA/first.json"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get after Delete error = %v", err)
			}
			if tt.reportsGap {
				if err := s.Delete(ctx, "TestA/first.json"); !errors.Is(err, ErrNotFound) {
					t.Fatalf("second Delete error = %v, want ErrNotFound", err)
				}
			}

			if err := s.Put(ctx, "../escape.json", nil); !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("Put(../escape) error = %v, want ErrInvalidKey", err)
			}
		})
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a/b.json", "a/b.json", false},
		{"a//b/../c.json", "a/c.json", false},
		{`win\path.json`, "win/path.json", false},
		{"", "", true},
		{"/abs.json", "", true},
		{"../up.json", "", true},
	}
	for _, tt := range tests {
		got, err := CleanKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("CleanKey(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("CleanKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, config.ArchiveConfig{Backend: config.BackendDisk, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(disk) error = %v", err)
	}
	if _, ok := s.(*DiskStore); !ok {
		t.Fatalf("Open(disk) = %T", s)
	}
	if _, err := Open(ctx, config.ArchiveConfig{Backend: "ftp"}); err == nil {
		t.Fatalf("Open(ftp) should fail")
	}
	if s, _ := Open(ctx, config.ArchiveConfig{}); s == nil {
		t.Fatalf("Open(default) returned nil store")
	}
}

func TestOpenS3UsesDefaultCredentialChain(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "token")

	ctx := context.Background()
	s, err := Open(ctx, config.ArchiveConfig{
		Backend: config.BackendS3,
		Bucket:  "snapshots",
		Prefix:  "ci/",
		Region:  "eu-west-1",
	})
	if err != nil {
		t.Fatalf("Open(s3) error = %v", err)
	}
	store, ok := s.(*S3Store)
	if !ok {
		t.Fatalf("Open(s3) = %T", s)
	}
	client, ok := store.client.(*s3.Client)
	if !ok {
		t.Fatalf("client = %T, want *s3.Client", store.client)
	}

	opts := client.Options()
	if opts.Region != "eu-west-1" {
		t.Errorf("Region = %q, want eu-west-1", opts.Region)
	}
	creds, err := opts.Credentials.Retrieve(ctx)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if creds.AccessKeyID != "AKIDEXAMPLE" || creds.SessionToken != "token" {
		t.Errorf("credentials = %+v, want the environment values", creds)
	}
}

