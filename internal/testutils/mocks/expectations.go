// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/kingdom-api/internal/entities"
	kingdomrepo "github.com/KirkDiggler/kingdom-api/internal/repositories/kingdom"
	kingdomrepomock "github.com/KirkDiggler/kingdom-api/internal/repositories/kingdom/mock"
)

// ExpectKingdomLoad expects a single Get of k and returns a copy of it
func ExpectKingdomLoad(ctx context.Context, repo *kingdomrepomock.MockRepository, k *entities.Kingdom) {
	repo.EXPECT().
		Get(ctx, kingdomrepo.GetInput{ID: k.ID}).
		Return(&kingdomrepo.GetOutput{Kingdom: k.Clone()}, nil)
}

// ExpectKingdomSave expects one Update and hands the saved kingdom to
// capture (which may be nil)
func ExpectKingdomSave(ctx context.Context, repo *kingdomrepomock.MockRepository, capture func(*entities.Kingdom)) {
	repo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input kingdomrepo.UpdateInput) (*kingdomrepo.UpdateOutput, error) {
			if capture != nil {
				capture(input.Kingdom.Clone())
			}
			return &kingdomrepo.UpdateOutput{Kingdom: input.Kingdom.Clone()}, nil
		})
}
