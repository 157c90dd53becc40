package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/property-settlement/pkg/api"
	"github.com/chris/property-settlement/pkg/handlers/bids"
	"github.com/chris/property-settlement/pkg/handlers/escrows"
	"github.com/chris/property-settlement/pkg/handlers/listings"
	"github.com/chris/property-settlement/pkg/handlers/payments"
	"github.com/chris/property-settlement/pkg/handlers/respond"
	"github.com/chris/property-settlement/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// ApiHandler implements the generated server interface by composing
// the per-resource handlers.
type ApiHandler struct {
	*listings.ListingsHandler
	*bids.BidsHandler
	*payments.PaymentsHandler
	*escrows.EscrowsHandler
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(listingSvc listings.Service, bidSvc bids.Service, paymentSvc payments.Service, escrowSvc escrows.Service) *ApiHandler {
	return &ApiHandler{
		ListingsHandler: listings.NewListingsHandler(listingSvc),
		BidsHandler:     bids.NewBidsHandler(bidSvc),
		PaymentsHandler: payments.NewPaymentsHandler(paymentSvc),
		EscrowsHandler:  escrows.NewEscrowsHandler(escrowSvc),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// NewRouter mounts the API on a chi router with request IDs, actor extraction
// and structured request logging.
func NewRouter(handler api.ServerInterface, logger *slog.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Actor)
	router.Use(middleware.NewStructuredLogger(logger))

	return api.HandlerWithOptions(handler, api.ChiServerOptions{
		BaseRouter:       router,
		ErrorHandlerFunc: respond.ParamError,
	})
}
