package insights

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeInsightsRepo struct {
	counts map[string]int64
	tags   []TagCount
	notes  []ChildNotes
}

func (r *fakeInsightsRepo) CountNotes(ctx context.Context, familyID, childID string) (int64, error) {
	return r.counts[familyID+":"+childID], nil
}

func (r *fakeInsightsRepo) TopTags(ctx context.Context, familyID, childID string, limit int) ([]TagCount, error) {
	if limit < len(r.tags) {
		return r.tags[:limit], nil
	}
	return r.tags, nil
}

func (r *fakeInsightsRepo) NotesByChild(ctx context.Context, familyID, childID string, perChild int) ([]ChildNotes, error) {
	return r.notes, nil
}

type fakeAI struct {
	completeResponse string
	jsonResponse     string
	err              error
	calls            int
}

func (a *fakeAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	a.calls++
	return a.completeResponse, a.err
}

func (a *fakeAI) CompleteJSON(ctx context.Context, system, prompt string, out any) error {
	a.calls++
	if a.err != nil {
		return a.err
	}
	return json.Unmarshal([]byte(a.jsonResponse), out)
}

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.items[key]
	return value, ok
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *memCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{completeResponse: "  Ada had a great day at the park.  "}
	svc := NewService(&fakeInsightsRepo{}, ai)

	summary, err := svc.Summary(ctx, "today we went to the park", "en")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary != "Ada had a great day at the park." {
		t.Fatalf("summary = %q", summary)
	}

	if _, err := svc.Summary(ctx, "   ", "en"); !errors.Is(err, ErrTranscriptRequired) {
		t.Fatalf("err = %v, want %v", err, ErrTranscriptRequired)
	}
}

func TestBehaviorNoNotes(t *testing.T) {
	ctx := context.Background()
	ai := &fakeAI{}
	svc := NewService(&fakeInsightsRepo{counts: map[string]int64{}}, ai)

	result, err := svc.Behavior(ctx, "fam-1", "", "en")
	if err != nil {
		t.Fatalf("behavior: %v", err)
	}
	if !result.NoNotes {
		t.Fatal("expected NoNotes result")
	}
	if ai.calls != 0 {
		t.Fatal("no AI call should happen without notes")
	}
}

func TestBehavior(t *testing.T) {
	ctx := context.Background()
	repo := &fakeInsightsRepo{
		counts: map[string]int64{"fam-1:": 3},
		tags:   []TagCount{{Tag: "park", Count: 5}, {Tag: "lego", Count: 2}},
		notes: []ChildNotes{
			{ChildID: "child-1", ChildName: "Ada", Transcripts: []string{"built a tower", "shared toys"}},
		},
	}
	ai := &fakeAI{jsonResponse: `{"child_summaries":[{"child_id":"child-1","child_name":"Ada","summary":"Ada is thriving."}],"encouragement":"Keep it up!"}`}
	svc := NewService(repo, ai)

	result, err := svc.Behavior(ctx, "fam-1", "", "en")
	if err != nil {
		t.Fatalf("behavior: %v", err)
	}
	if len(result.ChildSummaries) != 1 || result.ChildSummaries[0].Summary != "Ada is thriving." {
		t.Fatalf("child summaries = %+v", result.ChildSummaries)
	}
	if result.Encouragement != "Keep it up!" {
		t.Fatalf("encouragement = %q", result.Encouragement)
	}
	if len(result.TopHashtags) != 2 || result.TopHashtags[0].Tag != "park" {
		t.Fatalf("top hashtags = %+v", result.TopHashtags)
	}
}

func TestBehaviorCaching(t *testing.T) {
	ctx := context.Background()
	repo := &fakeInsightsRepo{
		counts: map[string]int64{"fam-1:": 1},
		notes:  []ChildNotes{{ChildID: "c", ChildName: "C", Transcripts: []string{"x"}}},
	}
	ai := &fakeAI{jsonResponse: `{"child_summaries":[],"encouragement":"hi"}`}
	svc := NewServiceWithCache(repo, ai, newMemCache(), time.Minute)

	if _, err := svc.Behavior(ctx, "fam-1", "", "en"); err != nil {
		t.Fatalf("behavior: %v", err)
	}
	if _, err := svc.Behavior(ctx, "fam-1", "", "en"); err != nil {
		t.Fatalf("behavior (cached): %v", err)
	}
	if ai.calls != 1 {
		t.Fatalf("ai calls = %d, want 1 (second hit served from cache)", ai.calls)
	}

	// A different language misses the cache.
	if _, err := svc.Behavior(ctx, "fam-1", "", "el"); err != nil {
		t.Fatalf("behavior (other language): %v", err)
	}
	if ai.calls != 2 {
		t.Fatalf("ai calls = %d, want 2", ai.calls)
	}
}
