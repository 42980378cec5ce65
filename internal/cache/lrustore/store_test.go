package lrustore

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestSetGet_RoundTrip(t *testing.T) {
	s := New(8, time.Minute)
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("got=%q ok=%v err=%v", got, ok, err)
	}
}

func TestMiss_NeverSet(t *testing.T) {
	s := New(8, time.Minute)
	if _, ok, err := s.Get(context.Background(), "nope"); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
}

func TestSizeBound_EvictsOldest(t *testing.T) {
	s := New(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = s.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0)
	}
	if _, ok, _ := s.Get(ctx, "k0"); ok {
		t.Fatal("oldest entry survived past the size bound")
	}
	if _, ok, _ := s.Get(ctx, "k2"); !ok {
		t.Fatal("newest entry missing")
	}
}

func TestTTLExpiry(t *testing.T) {
	s := New(8, 30*time.Millisecond)
	ctx := context.Background()

	_ = s.Set(ctx, "k", []byte("v"), 0)
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before expiry")
	}
	time.Sleep(60 * time.Millisecond)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss after expiry")
	}
}
