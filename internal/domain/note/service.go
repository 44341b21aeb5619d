package note

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var hashtagPattern = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, familyID string, input CreateInput) (*Note, error) {
	input.Transcript = strings.TrimSpace(input.Transcript)
	if input.Transcript == "" {
		return nil, ErrTranscriptRequired
	}
	if err := validateSentiment(input.Sentiment); err != nil {
		return nil, err
	}

	if len(input.ChildIDs) > 0 {
		ok, err := s.repo.ChildrenExist(ctx, familyID, input.ChildIDs)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnknownChild
		}
	}

	record := Note{
		ID:              uuid.NewString(),
		FamilyID:        familyID,
		AuthorID:        input.AuthorID,
		Transcript:      input.Transcript,
		Summary:         input.Summary,
		AudioURL:        input.AudioURL,
		DurationSeconds: input.DurationSeconds,
		Location:        input.Location,
		Sentiment:       input.Sentiment,
		Tags:            MergeTags(input.Tags, input.Transcript),
		ChildIDs:        input.ChildIDs,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, &record); err != nil {
			return err
		}
		return tx.ReplaceChildren(ctx, record.ID, record.ChildIDs)
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *Service) Get(ctx context.Context, familyID, noteID string) (*Note, error) {
	return s.repo.GetByID(ctx, familyID, noteID)
}

func (s *Service) List(ctx context.Context, familyID string, filter ListFilter) ([]Note, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.repo.ListByFamily(ctx, familyID, filter)
}

func (s *Service) Update(ctx context.Context, familyID, userID, role, noteID string, input UpdateInput) (*Note, error) {
	record, err := s.repo.GetByID(ctx, familyID, noteID)
	if err != nil {
		return nil, err
	}
	if record.AuthorID != userID && !canModerate(role) {
		return nil, ErrNotAuthor
	}
	if err := validateSentiment(input.Sentiment); err != nil {
		return nil, err
	}

	if input.Transcript != nil {
		transcript := strings.TrimSpace(*input.Transcript)
		if transcript == "" {
			return nil, ErrTranscriptRequired
		}
		record.Transcript = transcript
	}
	if input.Summary != nil {
		record.Summary = input.Summary
	}
	if input.Sentiment != nil {
		record.Sentiment = input.Sentiment
	}
	if input.Tags != nil {
		record.Tags = MergeTags(input.Tags, record.Transcript)
	}

	replaceChildren := input.ChildIDs != nil
	if replaceChildren {
		ok, err := s.repo.ChildrenExist(ctx, familyID, input.ChildIDs)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnknownChild
		}
		record.ChildIDs = input.ChildIDs
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.Update(ctx, record); err != nil {
			return err
		}
		if replaceChildren {
			return tx.ReplaceChildren(ctx, record.ID, record.ChildIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (s *Service) Delete(ctx context.Context, familyID, userID, role, noteID string) error {
	record, err := s.repo.GetByID(ctx, familyID, noteID)
	if err != nil {
		return err
	}
	if record.AuthorID != userID && !canModerate(role) {
		return ErrNotAuthor
	}
	return s.repo.Delete(ctx, familyID, noteID)
}

// MergeTags combines explicit tags with hashtags mined from the transcript,
// lowercased and deduplicated in first-seen order.
func MergeTags(tags []string, transcript string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0, len(tags))

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "#")))
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		merged = append(merged, tag)
	}

	for _, tag := range tags {
		add(tag)
	}
	for _, match := range hashtagPattern.FindAllStringSubmatch(transcript, -1) {
		add(match[1])
	}

	return merged
}

func validateSentiment(sentiment *string) error {
	if sentiment == nil {
		return nil
	}
	switch *sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return nil
	default:
		return ErrInvalidSentiment
	}
}

func canModerate(role string) bool {
	return role == "owner" || role == "admin"
}
