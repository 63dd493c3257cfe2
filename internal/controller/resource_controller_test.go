package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/pkg/apperr"
)

func TestResourcesRefresh(t *testing.T) {
	gw := newStubGateway()
	gw.resources = []domain.Resource{
		{
			ID:          uuid.New(),
			Title:       "Handbook",
			Type:        domain.ResourceTypeDocument,
			CreatedByID: uuid.New(),
			CreatedAt:   time.Now().UTC(),
		},
	}

	c := NewResourceListController(gw, syncDispatcher{}, testLogger)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	state := c.State()
	if len(state.Resources) != 1 || state.Resources[0].Title != "Handbook" {
		t.Fatalf("resources = %+v", state.Resources)
	}
	if state.IsLoading || state.ErrorMessage != "" {
		t.Fatalf("unexpected loading/error state: %+v", state)
	}
}

func TestResourcesRefreshFailure(t *testing.T) {
	gw := newStubGateway()
	gw.resources = []domain.Resource{
		{
			ID:          uuid.New(),
			Title:       "Keep me",
			Type:        domain.ResourceTypeLink,
			CreatedByID: uuid.New(),
			CreatedAt:   time.Now().UTC(),
		},
	}

	c := NewResourceListController(gw, syncDispatcher{}, testLogger)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	gw.fetchResourcesErr = apperr.Network(errors.New("dns failure"))
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh failure")
	}

	state := c.State()
	if len(state.Resources) != 1 {
		t.Fatal("data must be untouched on failure")
	}
	if state.ErrorMessage == "" || state.IsLoading {
		t.Fatalf("expected settled error state: %+v", state)
	}
}
