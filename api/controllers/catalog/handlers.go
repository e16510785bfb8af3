package catalog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/autostore/storefront-backend/api/responses"
	"github.com/autostore/storefront-backend/api/validators"
	catalogsvc "github.com/autostore/storefront-backend/internal/catalog"
	pkgerrors "github.com/autostore/storefront-backend/pkg/errors"
	"github.com/autostore/storefront-backend/pkg/logger"
)

type productSource interface {
	GetProduct(ctx context.Context, id string) (*catalogsvc.Product, error)
	Search(ctx context.Context, keyword string, page, size int) (*catalogsvc.Page, error)
	ListByCategory(ctx context.Context, categoryID string, page, size int) (*catalogsvc.Page, error)
}

// ProductFetch returns one catalog product by id.
func ProductFetch(products productSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := products.GetProduct(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductSearch returns a page of products matching the keyword.
func ProductSearch(products productSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keyword := validators.SanitizeString(r.URL.Query().Get("keyword"), 100)
		if keyword == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "keyword is required"))
			return
		}

		page, size, err := paging(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := products.Search(r.Context(), keyword, page, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductsByCategory returns a page of products in the category.
func ProductsByCategory(products productSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID := validators.SanitizeString(r.URL.Query().Get("category_id"), 100)
		if categoryID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "category_id is required"))
			return
		}

		page, size, err := paging(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := products.ListByCategory(r.Context(), categoryID, page, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func paging(r *http.Request) (page, size int, err error) {
	page, err = validators.ParseQueryInt(r, "page", 0, 0, 10000)
	if err != nil {
		return 0, 0, err
	}
	size, err = validators.ParseQueryInt(r, "size", 5, 1, 100)
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}
