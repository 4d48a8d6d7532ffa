package objectstore

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Put(ctx, "exports", "a.json", []byte("{}"), "application/json"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound before the bucket exists, got %v", err)
	}
	if err := store.EnsureBucket(ctx, "exports"); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}

	data := []byte(`{"id":"1"}`)
	if err := store.Put(ctx, "exports", "organisation/1.json.gz", data, "application/gzip"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data[0] = 'x'

	got, err := store.Get(ctx, "exports", "organisation/1.json.gz")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"id":"1"}` {
		t.Errorf("stored object was mutated by the caller: %s", got)
	}

	if _, err := store.Get(ctx, "exports", "missing"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestMemoryStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	_ = store.EnsureBucket(ctx, "b")
	for _, key := range []string{"exports/location/2.gz", "exports/location/1.gz", "exports/manifest.json", "other/x"} {
		if err := store.Put(ctx, "b", key, nil, ""); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	got, err := store.List(ctx, "b", "exports/location/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"exports/location/1.gz", "exports/location/2.gz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMemoryStore_EnsureBucketRequiresName(t *testing.T) {
	if err := NewMemoryStore().EnsureBucket(context.Background(), ""); !errors.Is(err, ErrBucketRequired) {
		t.Errorf("expected ErrBucketRequired, got %v", err)
	}
}

func TestNewS3Store_RequiresEndpoint(t *testing.T) {
	if _, err := NewS3Store(Config{}); err == nil {
		t.Error("expected error for empty endpoint")
	}
	if _, err := NewS3Store(Config{Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
