package checkout

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/autostore/storefront-backend/api/middleware"
	"github.com/autostore/storefront-backend/api/responses"
	"github.com/autostore/storefront-backend/api/validators"
	checkoutsvc "github.com/autostore/storefront-backend/internal/checkout"
	"github.com/autostore/storefront-backend/internal/checkoutform"
	"github.com/autostore/storefront-backend/internal/expiry"
	pkgerrors "github.com/autostore/storefront-backend/pkg/errors"
	"github.com/autostore/storefront-backend/pkg/logger"
	"github.com/autostore/storefront-backend/pkg/metrics"
)

// CheckoutSubmit runs the session's checkout flow against the entered form.
func CheckoutSubmit(checkouts *checkoutsvc.Sessions, m *metrics.StorefrontMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeInternal, "session context missing"))
			return
		}

		var payload SubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		form := checkoutform.New()
		form.SetValues(payload.toFormValues())
		if payload.BillingSameAsShipping {
			form.SetBillingSameAsShipping(true)
		}

		confirmation, err := checkouts.Get(sessionID).Submit(r.Context(), form)
		if err != nil {
			m.IncOrderOutcome(outcomeFor(err))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		m.IncOrderOutcome("completed")
		responses.WriteSuccess(w, SubmitResponse{TrackingNumber: confirmation.TrackingNumber})
	}
}

// CheckoutOptions returns the expiration month and year windows for the
// selected year. Without a year it assumes the current one.
func CheckoutOptions(svc *expiry.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseQueryInt(r, "year", 0, 0, 9999)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		months, years := svc.Options(year)
		responses.WriteSuccess(w, OptionsResponse{
			ExpirationMonths: months,
			ExpirationYears:  years,
		})
	}
}

// outcomeFor distinguishes orders the collaborator failed from requests the
// orchestrator rejected before submission.
func outcomeFor(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeDependency {
		return "failed"
	}
	return "rejected"
}
