package child

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, familyID string, input CreateInput) (*Child, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	record := Child{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		Name:      input.Name,
		Birthdate: input.Birthdate,
		PhotoURL:  input.PhotoURL,
	}
	if err := s.repo.Create(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Service) Get(ctx context.Context, familyID, childID string) (*Child, error) {
	return s.repo.GetByID(ctx, familyID, childID)
}

func (s *Service) List(ctx context.Context, familyID string) ([]Child, error) {
	return s.repo.ListByFamily(ctx, familyID)
}

func (s *Service) Update(ctx context.Context, familyID, childID string, input UpdateInput) (*Child, error) {
	record, err := s.repo.GetByID(ctx, familyID, childID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		record.Name = name
	}
	if input.Birthdate != nil {
		record.Birthdate = *input.Birthdate
	}
	if input.ClearPhoto {
		record.PhotoURL = nil
	} else if input.PhotoURL != nil {
		record.PhotoURL = input.PhotoURL
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Delete(ctx context.Context, familyID, childID string) error {
	if _, err := s.repo.GetByID(ctx, familyID, childID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, familyID, childID)
}
