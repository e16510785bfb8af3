package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/autostore/storefront-backend/pkg/breaker"
	"github.com/autostore/storefront-backend/pkg/config"
	pkgerrors "github.com/autostore/storefront-backend/pkg/errors"
	"github.com/autostore/storefront-backend/pkg/logger"
)

type submitResult struct {
	status int
	body   []byte
}

// HTTPSubmitter posts purchase payloads to the order-submission collaborator.
// Requests flow through a circuit breaker; transport errors and 5xx responses
// count as breaker failures.
type HTTPSubmitter struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[submitResult]
	logg       *logger.Logger
}

// SubmitterOptions configures the HTTP submitter.
type SubmitterOptions struct {
	Endpoint string
	Timeout  time.Duration
	Breaker  config.BreakerConfig
	Logger   *logger.Logger
}

// NewHTTPSubmitter builds the submitter.
func NewHTTPSubmitter(opts SubmitterOptions) (*HTTPSubmitter, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("submit endpoint required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSubmitter{
		endpoint:   opts.Endpoint,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[submitResult](breaker.Settings("orders", opts.Breaker, opts.Logger)),
		logg:       opts.Logger,
	}, nil
}

// SubmitOrder posts the payload and decodes the confirmation.
func (s *HTTPSubmitter) SubmitOrder(ctx context.Context, payload PurchasePayload) (*Confirmation, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode purchase payload")
	}

	result, err := s.breaker.Execute(func() (submitResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
		if err != nil {
			return submitResult{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return submitResult{}, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return submitResult{}, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return submitResult{}, fmt.Errorf("order service returned status %d", resp.StatusCode)
		}
		return submitResult{status: resp.StatusCode, body: respBody}, nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission unavailable")
	}

	if result.status >= http.StatusBadRequest {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, rejectionMessage(result.body)).
			WithDetails(map[string]any{"status": result.status})
	}

	var confirmation Confirmation
	if err := json.Unmarshal(result.body, &confirmation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order confirmation")
	}
	if confirmation.TrackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order confirmation missing tracking number")
	}
	return &confirmation, nil
}

// rejectionMessage extracts the collaborator's failure reason so it can be
// surfaced to the user verbatim.
func rejectionMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if msg := strings.TrimSpace(envelope.Error.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(envelope.Message); msg != "" {
			return msg
		}
	}
	return "order was rejected"
}
