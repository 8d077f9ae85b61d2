package util

import (
	"context"
	"testing"
	"time"
)

func TestWaitURLWithinBurst(t *testing.T) {
	hl := NewHostLimiter(100, 5)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 5; i++ {
		if err := hl.WaitURL(ctx, "https://api.lever.co/v0/postings/acme"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
}

func TestWaitURLSeparateHosts(t *testing.T) {
	hl := NewHostLimiter(1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// one token per host; distinct hosts must not contend
	hosts := []string{
		"https://boards-api.greenhouse.io/x",
		"https://api.lever.co/x",
		"https://www.indeed.com/x",
	}
	start := time.Now()
	for _, h := range hosts {
		if err := hl.WaitURL(ctx, h); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("distinct hosts waited on each other: %v", elapsed)
	}
}

func TestWaitURLHostCaseInsensitive(t *testing.T) {
	hl := NewHostLimiter(1, 1)

	if err := hl.WaitURL(context.Background(), "https://WWW.Indeed.com/jobs"); err != nil {
		t.Fatal(err)
	}

	// same host, different case: must hit the same bucket and run out of
	// tokens before the short deadline
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := hl.WaitURL(ctx, "https://www.indeed.com/jobs"); err == nil {
		t.Error("case-varied host got its own bucket")
	}
}

func TestWaitURLFallbackBucketShared(t *testing.T) {
	hl := NewHostLimiter(1, 1)

	if err := hl.WaitURL(context.Background(), "::not a url::"); err != nil {
		t.Fatalf("unparseable URL should use the fallback bucket: %v", err)
	}

	// a second hostless input shares that bucket
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := hl.WaitURL(ctx, "/relative/path/only"); err == nil {
		t.Error("hostless inputs did not share the fallback bucket")
	}
}

func TestWaitURLZeroRateMeansUnlimited(t *testing.T) {
	hl := NewHostLimiter(0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 100; i++ {
		if err := hl.WaitURL(ctx, "https://www.dice.com/x"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
}
