package user

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) UpsertProfile(ctx context.Context, userID, email, name, avatarURL string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}

	profile := Profile{UserID: userID}
	if email != "" {
		lowered := strings.ToLower(email)
		profile.Email = &lowered
	}
	if name != "" {
		profile.Name = &name
	}
	if avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}

	return s.repo.UpsertProfile(ctx, &profile)
}
