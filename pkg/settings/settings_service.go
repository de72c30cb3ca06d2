package settings

import (
	"context"

	"github.com/mulahmanage/mulah/internal/fault"
)

const (
	keyTheme               = "theme"
	keyOnboardingCompleted = "onboarding_completed"
)

type Service interface {
	// Get returns the stored preferences. A missing or unrecognized theme
	// value degrades to System rather than failing the read.
	Get(ctx context.Context) (Settings, error)
	SetTheme(ctx context.Context, theme Theme) error
	SetOnboardingCompleted(ctx context.Context) error
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) Get(ctx context.Context) (Settings, error) {
	result := Settings{Theme: ThemeSystem}

	theme, found, err := s.repo.Get(ctx, keyTheme)
	if err != nil {
		return Settings{}, err
	}
	if found && Theme(theme).IsValid() {
		result.Theme = Theme(theme)
	}

	onboarding, found, err := s.repo.Get(ctx, keyOnboardingCompleted)
	if err != nil {
		return Settings{}, err
	}
	result.OnboardingCompleted = found && onboarding == "true"

	return result, nil
}

func (s *ServiceImpl) SetTheme(ctx context.Context, theme Theme) error {
	if !theme.IsValid() {
		return fault.Invalid("theme", "must be one of System, Light, Dark")
	}
	return s.repo.Set(ctx, keyTheme, string(theme))
}

func (s *ServiceImpl) SetOnboardingCompleted(ctx context.Context) error {
	return s.repo.Set(ctx, keyOnboardingCompleted, "true")
}
