package drawing

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"family-journal-go/pkg/logger"
)

// AI is the slice of the gateway client this service needs.
type AI interface {
	CompleteImageJSON(ctx context.Context, system, prompt, imageURL string, out any) error
}

type Service struct {
	repo Repository
	ai   AI
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, ai AI, log logger.Logger) *Service {
	return &Service{repo: repo, ai: ai, log: log, now: time.Now}
}

func (s *Service) Create(ctx context.Context, familyID string, input CreateInput) (*Drawing, error) {
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	if input.ImageURL == "" {
		return nil, ErrImageRequired
	}
	if input.ChildID == "" {
		return nil, ErrChildRequired
	}

	record := Drawing{
		ID:         uuid.NewString(),
		FamilyID:   familyID,
		ChildID:    input.ChildID,
		UploadedBy: input.UploadedBy,
		ImageURL:   input.ImageURL,
		Title:      input.Title,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) Get(ctx context.Context, familyID, drawingID string) (*Drawing, error) {
	return s.repo.GetByID(ctx, familyID, drawingID)
}

func (s *Service) List(ctx context.Context, familyID, childID string) ([]Drawing, error) {
	return s.repo.ListByFamily(ctx, familyID, childID)
}

func (s *Service) Delete(ctx context.Context, familyID, drawingID string) error {
	if _, err := s.repo.GetByID(ctx, familyID, drawingID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, familyID, drawingID)
}

// Analyze sends a drawing to the AI gateway and returns the fixed-schema
// analysis. When the input references a stored drawing, the analysis is
// persisted on that row.
func (s *Service) Analyze(ctx context.Context, familyID string, input AnalyzeInput) (*Analysis, error) {
	imageURL := strings.TrimSpace(input.ImageURL)

	if input.DrawingID != "" {
		record, err := s.repo.GetByID(ctx, familyID, input.DrawingID)
		if err != nil {
			return nil, err
		}
		imageURL = record.ImageURL
	}
	if imageURL == "" {
		return nil, ErrImageRequired
	}

	language := input.Language
	if language == "" {
		language = "en"
	}
	childName := strings.TrimSpace(input.ChildName)
	if childName == "" {
		childName = "the child"
	}

	system := "You are a child psychologist specializing in art interpretation. " +
		"Analyze the drawing and respond in language: " + language + ". " +
		`Respond with JSON only: {"emotional":"","personality":"","developmental":"","creativity":"","summary":""}`
	prompt := "This drawing was made by " + childName + ". Describe the emotional state, " +
		"personality traits, developmental indicators and creativity it suggests, then a short summary."

	var analysis Analysis
	if err := s.ai.CompleteImageJSON(ctx, system, prompt, imageURL, &analysis); err != nil {
		return nil, err
	}

	// The caller still gets the analysis when the write fails.
	if input.DrawingID != "" {
		if raw, err := json.Marshal(analysis); err == nil {
			if err := s.repo.SaveAnalysis(ctx, input.DrawingID, datatypes.JSON(raw), s.now().UTC()); err != nil {
				s.log.InternalError("drawing.analyze: save analysis failed", err, "drawing_id", input.DrawingID)
			}
		}
	}

	return &analysis, nil
}
