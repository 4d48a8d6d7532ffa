package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestCheckPools_AllHealthy(t *testing.T) {
	pools := map[string]Pinger{"source": fakePinger{}, "target": fakePinger{}}
	result, healthy := CheckPools(context.Background(), pools, nil)
	if !healthy {
		t.Fatal("expected healthy")
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 pool results, got %d", len(result))
	}
	for name, s := range result {
		if !s.Healthy {
			t.Errorf("expected %s healthy", name)
		}
	}
}

func TestCheckPools_OneFailing(t *testing.T) {
	pools := map[string]Pinger{
		"source": fakePinger{},
		"target": fakePinger{err: errors.New("connection refused")},
	}
	stats := func(name string) *PoolStats { return &PoolStats{MaxConns: 20} }

	result, healthy := CheckPools(context.Background(), pools, stats)
	if healthy {
		t.Fatal("expected unhealthy")
	}
	if result["target"].Error != "connection refused" {
		t.Errorf("unexpected error %q", result["target"].Error)
	}
	if result["target"].MaxConns != 20 {
		t.Errorf("expected stats to be carried, got %d", result["target"].MaxConns)
	}
	if !result["source"].Healthy {
		t.Error("expected source healthy")
	}
}

func TestPoolStats_JSONTags(t *testing.T) {
	data, err := json.Marshal(PoolStats{TotalConns: 1, MaxConns: 10, Healthy: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"total_conns", "idle_conns", "max_conns", "acquire_duration", "healthy"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing JSON key %s", key)
		}
	}
	if _, ok := m["error"]; ok {
		t.Error("error should be omitted when empty")
	}
}
