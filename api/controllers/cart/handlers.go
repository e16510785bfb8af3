package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/autostore/storefront-backend/api/middleware"
	"github.com/autostore/storefront-backend/api/responses"
	"github.com/autostore/storefront-backend/api/validators"
	cartsvc "github.com/autostore/storefront-backend/internal/cart"
	"github.com/autostore/storefront-backend/internal/catalog"
	pkgerrors "github.com/autostore/storefront-backend/pkg/errors"
	"github.com/autostore/storefront-backend/pkg/logger"
	"github.com/autostore/storefront-backend/pkg/metrics"
)

type productLoader interface {
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
}

// CartFetch returns the session's cart entries and totals.
func CartFetch(sessions *cartsvc.Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager, err := sessionCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(manager))
	}
}

// CartAddItem loads the product from the catalog and merges it into the cart.
func CartAddItem(sessions *cartsvc.Sessions, products productLoader, m *metrics.StorefrontMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager, err := sessionCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := products.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.Active {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "product is not available"))
			return
		}

		manager.Add(cartsvc.LineItem{
			ID:        product.ID,
			Name:      product.Name,
			ImageURL:  product.ImageURL,
			UnitPrice: product.UnitPrice,
		})
		m.IncCartMutation("add")

		responses.WriteSuccess(w, newCartView(manager))
	}
}

// CartDecrementItem lowers the entry's quantity, removing it at zero.
func CartDecrementItem(sessions *cartsvc.Sessions, m *metrics.StorefrontMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager, err := sessionCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		manager.Decrement(chi.URLParam(r, "productId"))
		m.IncCartMutation("decrement")

		responses.WriteSuccess(w, newCartView(manager))
	}
}

// CartRemoveItem deletes the entry outright.
func CartRemoveItem(sessions *cartsvc.Sessions, m *metrics.StorefrontMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager, err := sessionCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		manager.Remove(chi.URLParam(r, "productId"))
		m.IncCartMutation("remove")

		responses.WriteSuccess(w, newCartView(manager))
	}
}

// CartClear empties the session's cart.
func CartClear(sessions *cartsvc.Sessions, m *metrics.StorefrontMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager, err := sessionCart(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		manager.Clear()
		m.IncCartMutation("clear")

		responses.WriteSuccess(w, newCartView(manager))
	}
}

func sessionCart(r *http.Request, sessions *cartsvc.Sessions) (*cartsvc.Manager, error) {
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart sessions unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return sessions.Get(sessionID), nil
}
