package handlers

import (
	"net/http"

	"github.com/storeglass/analytics-backend/internal/api/dto"
	"github.com/storeglass/analytics-backend/internal/infrastructure/config"
)

// StoresHandler exposes the configured store roster.
type StoresHandler struct {
	Base
	stores []config.Store
}

// NewStoresHandler creates a new stores handler.
func NewStoresHandler(stores []config.Store) *StoresHandler {
	return &StoresHandler{stores: stores}
}

// List handles GET /api/stores - returns the roster without credentials.
func (h *StoresHandler) List(w http.ResponseWriter, r *http.Request) {
	response := dto.StoreListResponse{
		Stores: make([]dto.StoreResponse, 0, len(h.stores)),
		Count:  len(h.stores),
	}

	for _, store := range h.stores {
		response.Stores = append(response.Stores, dto.StoreResponse{
			ID:          store.ID,
			Name:        store.Name,
			Domain:      store.Domain,
			Provisioned: store.Provisioned(),
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}
