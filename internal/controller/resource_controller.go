package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/domain"
	"github.com/harborgroup/harbor-app/internal/gateway"
)

// ResourceListState is the resource-list slice of UI-observable state.
type ResourceListState struct {
	Resources    []domain.Resource
	IsLoading    bool
	ErrorMessage string
}

// ResourceListController owns the shared-resource list. Read-only in this
// layer: resource creation lives at the gateway but no screen drives it.
type ResourceListController struct {
	gateway gateway.Service
	ui      Dispatcher
	logger  *zap.Logger

	mu    sync.RWMutex
	state ResourceListState
}

func NewResourceListController(gw gateway.Service, ui Dispatcher, logger *zap.Logger) *ResourceListController {
	return &ResourceListController{gateway: gw, ui: ui, logger: logger}
}

// State returns a snapshot of the observable state.
func (c *ResourceListController) State() ResourceListState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	state := c.state
	state.Resources = append([]domain.Resource(nil), c.state.Resources...)
	return state
}

// Refresh replaces the entire list with the backend's newest-first rows.
func (c *ResourceListController) Refresh(ctx context.Context) error {
	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.IsLoading = true
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})

	resources, err := c.gateway.FetchResources(ctx)
	if err != nil {
		dispatchWait(c.ui, func() {
			c.mu.Lock()
			c.state.IsLoading = false
			c.state.ErrorMessage = displayMessage(err)
			c.mu.Unlock()
		})
		c.logger.Warn("fetch resources failed", zap.Error(err))
		return err
	}

	dispatchWait(c.ui, func() {
		c.mu.Lock()
		c.state.Resources = resources
		c.state.IsLoading = false
		c.state.ErrorMessage = ""
		c.mu.Unlock()
	})
	return nil
}
