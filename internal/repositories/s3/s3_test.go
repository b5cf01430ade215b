package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/chrisdamba/greengrocer/internal/repositories"
)

type fakeObjects struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeObjects) GetObject(_ context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &awss3.PutObjectOutput{}, nil
}

func TestKeyValueStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := &fakeObjects{objects: map[string][]byte{}}
	s := NewKeyValueStore(fake, "shop-bucket", "state")

	if _, err := s.Get(ctx, "favorites"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("Get missing error = %v, want ErrNotFound", err)
	}
	if err := s.Set(ctx, "favorites", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok := fake.objects["shop-bucket/state/favorites.json"]; !ok {
		t.Fatalf("object keys = %v, want shop-bucket/state/favorites.json", fake.objects)
	}
	got, err := s.Get(ctx, "favorites")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("Get = %q", got)
	}
}

func TestKeyValueStore_SetError(t *testing.T) {
	fake := &fakeObjects{objects: map[string][]byte{}, putErr: errors.New("quota exceeded")}
	s := NewKeyValueStore(fake, "b", "")
	if err := s.Set(context.Background(), "favorites", []byte(`[]`)); err == nil {
		t.Fatal("Set returned nil error for failing upload")
	}
}
