package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type cachedCourse struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func newTestManager(t *testing.T) (*CacheManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheManager(client, time.Minute), mr
}

func TestCacheOrExecute(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedCourse{ID: 1050, Title: "Chemistry"}, nil
	}

	var first cachedCourse
	if err := cm.Course.CacheOrExecute(ctx, CourseKey(1050, "detail"), &first, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Title != "Chemistry" {
		t.Errorf("unexpected value %+v", first)
	}

	if !mr.Exists("course:id:1050:detail") {
		t.Fatal("fetched value must be cached before CacheOrExecute returns")
	}

	var second cachedCourse
	if err := cm.Course.CacheOrExecute(ctx, CourseKey(1050, "detail"), &second, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one fetch, got %d", calls)
	}
	if second != first {
		t.Errorf("cached value differs: %+v vs %+v", second, first)
	}
	if ttl := mr.TTL("course:id:1050:detail"); ttl != time.Minute {
		t.Errorf("expected ttl of one minute, got %v", ttl)
	}
}

func TestCacheOrExecuteFetchError(t *testing.T) {
	cm, mr := newTestManager(t)
	boom := errors.New("boom")

	var dest cachedCourse
	err := cm.Course.CacheOrExecute(context.Background(), "id:1:detail", &dest, func() (interface{}, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Errorf("nothing should be cached on error, found %v", mr.Keys())
	}
}

func TestInvalidateCourseCache(t *testing.T) {
	cm, mr := newTestManager(t)
	ctx := context.Background()

	for _, key := range []string{CourseKey(1, "detail"), CourseKey(1, "plain"), CourseKey(2, "detail")} {
		if err := cm.Course.Set(ctx, key, cachedCourse{ID: 1}, time.Minute); err != nil {
			t.Fatalf("set failed: %v", err)
		}
	}

	InvalidateCourseCache(ctx, cm, 1)
	if mr.Exists("course:id:1:detail") || mr.Exists("course:id:1:plain") {
		t.Error("course 1 entries should be gone")
	}
	if !mr.Exists("course:id:2:detail") {
		t.Error("course 2 entry should remain")
	}

	InvalidateAllCourses(ctx, cm)
	if mr.Exists("course:id:2:detail") {
		t.Error("all course entries should be gone")
	}
}

func TestNilClientDegradesGracefully(t *testing.T) {
	cm := NewCacheManager(nil, 0)
	ctx := context.Background()

	if err := cm.HealthCheck(ctx); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
	if cm.Course.TTL() != CourseCacheConfig.TTL {
		t.Errorf("expected default ttl, got %v", cm.Course.TTL())
	}

	var dest cachedCourse
	err := cm.Course.CacheOrExecute(ctx, "id:1:detail", &dest, func() (interface{}, error) {
		return cachedCourse{ID: 1, Title: "Calculus"}, nil
	})
	if err != nil || dest.Title != "Calculus" {
		t.Errorf("expected passthrough fetch, got %+v, %v", dest, err)
	}
	InvalidateAllCourses(ctx, cm)
	InvalidateStudentStats(ctx, cm)
}
