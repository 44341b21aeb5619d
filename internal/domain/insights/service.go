package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	topHashtagCount     = 10
	transcriptsPerChild = 20
	defaultCacheTTL     = 10 * time.Minute
)

// AI is the slice of the gateway client this service needs.
type AI interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	CompleteJSON(ctx context.Context, system, prompt string, out any) error
}

type Service struct {
	repo     Repository
	ai       AI
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository, ai AI) *Service {
	return NewServiceWithCache(repo, ai, nil, 0)
}

func NewServiceWithCache(repo Repository, ai AI, cache Cache, cacheTTL time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Service{repo: repo, ai: ai, cache: cache, cacheTTL: cacheTTL}
}

// Summary condenses a single transcript into a couple of sentences.
func (s *Service) Summary(ctx context.Context, transcript, language string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", ErrTranscriptRequired
	}
	if language == "" {
		language = "en"
	}

	system := "You summarize a parent's voice note about their child in 1-2 warm, " +
		"factual sentences. Respond in language: " + language + ". Respond with the summary only."

	summary, err := s.ai.Complete(ctx, system, transcript)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(summary), nil
}

// Behavior builds the analyze-behavior result for a family: per-child
// summaries, top hashtags and a short encouragement. Results are cached per
// (family, child, language).
func (s *Service) Behavior(ctx context.Context, familyID, childID, language string) (*BehaviorResult, error) {
	if language == "" {
		language = "en"
	}

	key := cacheKey(familyID, childID, language)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached BehaviorResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	count, err := s.repo.CountNotes(ctx, familyID, childID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return &BehaviorResult{NoNotes: true}, nil
	}

	topTags, err := s.repo.TopTags(ctx, familyID, childID, topHashtagCount)
	if err != nil {
		return nil, err
	}

	notesByChild, err := s.repo.NotesByChild(ctx, familyID, childID, transcriptsPerChild)
	if err != nil {
		return nil, err
	}

	result := BehaviorResult{TopHashtags: topTags}

	if len(notesByChild) > 0 {
		aiResult, err := s.analyze(ctx, notesByChild, language)
		if err != nil {
			return nil, err
		}
		result.ChildSummaries = aiResult.ChildSummaries
		result.Encouragement = aiResult.Encouragement
	}

	if raw, err := json.Marshal(result); err == nil {
		s.cache.Set(ctx, key, raw, s.cacheTTL)
	}

	return &result, nil
}

type behaviorAIResponse struct {
	ChildSummaries []ChildSummary `json:"child_summaries"`
	Encouragement  string         `json:"encouragement"`
}

func (s *Service) analyze(ctx context.Context, notesByChild []ChildNotes, language string) (*behaviorAIResponse, error) {
	system := "You are a developmental psychologist reviewing a parent's journal. " +
		"For each child, write a 2-3 sentence behavioral summary, then one short " +
		"encouragement for the parents. Respond in language: " + language + ". " +
		`Respond with JSON only: {"child_summaries":[{"child_id":"","child_name":"","summary":""}],"encouragement":""}`

	var prompt strings.Builder
	for _, notes := range notesByChild {
		fmt.Fprintf(&prompt, "Child %s (id %s):\n", notes.ChildName, notes.ChildID)
		for _, transcript := range notes.Transcripts {
			prompt.WriteString("- ")
			prompt.WriteString(transcript)
			prompt.WriteString("\n")
		}
		prompt.WriteString("\n")
	}

	var response behaviorAIResponse
	if err := s.ai.CompleteJSON(ctx, system, prompt.String(), &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func cacheKey(familyID, childID, language string) string {
	return "insights:behavior:" + familyID + ":" + childID + ":" + language
}
