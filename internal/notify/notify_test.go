package notify

import (
	"fmt"
	"testing"
	"time"
)

func TestPushAndActive(t *testing.T) {
	c := NewCenter(DefaultTTL)
	c.Success("approved 3 articles")
	c.Failure("delete a9 failed")

	active := c.Active()
	if len(active) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(active))
	}
	if active[0].Level != LevelSuccess || active[1].Level != LevelError {
		t.Errorf("unexpected levels: %+v", active)
	}
	if active[1].Message != "delete a9 failed" {
		t.Errorf("unexpected message %q", active[1].Message)
	}
}

func TestNoticesExpire(t *testing.T) {
	c := NewCenter(time.Minute)
	current := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Info("stale soon")
	current = current.Add(30 * time.Second)
	c.Info("still fresh")
	current = current.Add(45 * time.Second)

	active := c.Active()
	if len(active) != 1 || active[0].Message != "still fresh" {
		t.Errorf("expected only the fresh notice, got %+v", active)
	}
}

func TestFeedIsBounded(t *testing.T) {
	c := NewCenter(time.Hour)
	for i := 0; i < maxNotices+10; i++ {
		c.Info(fmt.Sprintf("notice %d", i))
	}
	active := c.Active()
	if len(active) != maxNotices {
		t.Fatalf("expected %d notices, got %d", maxNotices, len(active))
	}
	if active[0].Message != "notice 10" {
		t.Errorf("oldest notices must drop first, got %q", active[0].Message)
	}
}

func TestClear(t *testing.T) {
	c := NewCenter(time.Hour)
	c.Info("x")
	c.Clear()
	if len(c.Active()) != 0 {
		t.Error("clear must drop all notices")
	}
}
