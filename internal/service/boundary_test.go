package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ad_tracker/internal/domain"
	"ad_tracker/internal/service/mocks"
)

func adAt(id string, day int, active bool) domain.Ad {
	return domain.Ad{
		ID:        id,
		IsActive:  active,
		StartDate: time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
	}
}

func TestResolveFrom(t *testing.T) {
	tests := []struct {
		name string
		ads  []domain.Ad
		want string
	}{
		{"empty", nil, ""},
		{"oldest active", []domain.Ad{adAt("b", 3, true), adAt("a", 1, true)}, "a"},
		{"tie broken by id", []domain.Ad{adAt("z", 1, true), adAt("m", 1, true)}, "m"},
		{"oldest inactive falls back", []domain.Ad{adAt("a", 1, false), adAt("b", 2, true), adAt("c", 3, true)}, "b"},
		{"none active", []domain.Ad{adAt("a", 1, false), adAt("b", 2, false)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFrom(tt.ads)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.AdID)
			assert.True(t, got.IsActive)
		})
	}
}

func TestBoundaryTracker(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	ads := mocks.NewMockAdStore(ctrl)
	tracker := NewBoundaryTracker(ads)

	oldest := adAt("a", 1, false)
	active := adAt("b", 2, true)

	ads.EXPECT().ListByPage(ctx, "p", domain.OldestFirst).Return([]domain.Ad{oldest, active}, nil).Times(2)
	ads.EXPECT().ListActiveByPage(ctx, "p").Return([]domain.Ad{active}, nil).Times(2)

	current, err := tracker.Current(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "a", current.AdID)
	assert.False(t, current.IsActive)

	rederived, err := tracker.Rederive(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "b", rederived.AdID)

	resolved, err := tracker.Resolve(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "b", resolved.AdID)
}

func TestBoundaryTracker_EmptyPage(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	ads := mocks.NewMockAdStore(ctrl)
	tracker := NewBoundaryTracker(ads)

	ads.EXPECT().ListByPage(ctx, "p", domain.OldestFirst).Return(nil, nil)

	b, err := tracker.Resolve(ctx, "p")
	require.NoError(t, err)
	assert.Nil(t, b)
}
