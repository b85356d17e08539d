package prefs

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	appLogger "github.com/taskdeck/backend/pkg/logger"
)

// Repository abstracts the durable preference document so the use case
// stays storage-agnostic.
type Repository interface {
	Load() (domain.Preferences, bool, error)
	Save(prefs domain.Preferences) error
}

var knownFonts = map[string]struct{}{
	"sans":  {},
	"serif": {},
	"mono":  {},
}

// UseCase loads and saves the browser UI preference document.
type UseCase struct {
	repo   Repository
	logger *zap.Logger
}

func New(repo Repository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{repo: repo, logger: logger}
}

// Get returns the saved document, or defaults when none has been saved yet.
func (uc *UseCase) Get(ctx context.Context) (domain.Preferences, error) {
	prefs, ok, err := uc.repo.Load()
	if err != nil {
		return domain.Preferences{}, domain.WrapError(domain.ErrCodeInternal, "load preferences", err)
	}
	if !ok {
		return domain.DefaultPreferences(), nil
	}
	return prefs, nil
}

// Set persists the document, rejecting fonts outside the UI's choices.
func (uc *UseCase) Set(ctx context.Context, prefs domain.Preferences) (domain.Preferences, error) {
	if prefs.Font == "" {
		prefs.Font = domain.DefaultPreferences().Font
	}
	if _, ok := knownFonts[prefs.Font]; !ok {
		return domain.Preferences{}, domain.NewError(domain.ErrCodeInvalid, "unknown font")
	}
	if err := uc.repo.Save(prefs); err != nil {
		return domain.Preferences{}, domain.WrapError(domain.ErrCodeInternal, "save preferences", err)
	}
	appLogger.WithRequestID(ctx, uc.logger).Info("preferences saved",
		zap.Bool("dark_mode", prefs.DarkMode),
		zap.String("font", prefs.Font))
	return prefs, nil
}
