package controllers

import (
	"net/http"

	"github.com/angelmondragon/gamestore-storefront/api/responses"
	"github.com/angelmondragon/gamestore-storefront/api/validators"
	"github.com/angelmondragon/gamestore-storefront/internal/storefront"
	"github.com/angelmondragon/gamestore-storefront/pkg/logger"
)

type searchRequest struct {
	Search string `json:"search" validate:"max=200"`
}

type stateResponse struct {
	storefront.State
	ProductOpen bool `json:"product_open"`
}

// StorefrontState returns the current state snapshot as JSON. The pending notice is not consumed.
func StorefrontState(sf Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := sf.Snapshot()
		responses.WriteSuccess(w, stateResponse{State: state, ProductOpen: state.ProductOpen()})
	}
}

// StorefrontSearch records a live search term; the product reload is debounced.
func StorefrontSearch(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload searchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		term := validators.SanitizeString(payload.Search, maxSearchLength)
		sf.SetSearch(r.Context(), term)
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{
			"status": "scheduled",
			"search": term,
		})
	}
}
