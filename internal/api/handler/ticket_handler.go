package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventhub/registration-system/internal/api/metrics"
	"github.com/eventhub/registration-system/internal/core/domain"
	"github.com/eventhub/registration-system/internal/core/ports"
	"github.com/eventhub/registration-system/internal/infrastructure/notify"
	"github.com/eventhub/registration-system/internal/infrastructure/pdf"
)

// TicketHandler handles HTTP requests for ticket issuance, validation, and
// downloads.
type TicketHandler struct {
	tickets    ports.TicketService
	validation ports.ValidationService
}

func NewTicketHandler(tickets ports.TicketService, validation ports.ValidationService) *TicketHandler {
	return &TicketHandler{tickets: tickets, validation: validation}
}

// Issue handles POST /v1/tickets: registers the authenticated account for
// an event.
//
// @Summary      Issue a ticket
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      issueTicketRequest  true  "Event to register for"
// @Success      201   {object}  domain.Ticket
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/tickets [post]
func (h *TicketHandler) Issue(c echo.Context) error {
	var req issueTicketRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accountID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.IssueTicket(c.Request().Context(), accountID, req.EventID)
	if err != nil {
		metrics.IssuanceErrorsTotal.WithLabelValues(issuanceErrorReason(err)).Inc()
		return err
	}

	metrics.TicketsIssuedTotal.Inc()
	return c.JSON(http.StatusCreated, ticket)
}

// Validate handles POST /v1/tickets/validate, the entry-scan endpoint.
// Outcomes map onto distinct statuses so a door operator can tell a reused
// ticket apart from a forged one.
//
// @Summary      Validate a scanned ticket token
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      validateScanRequest  true  "Scanned token"
// @Success      200   {object}  scanResponse  "admitted"
// @Failure      400   {object}  scanResponse  "invalid token"
// @Failure      404   {object}  scanResponse  "unknown ticket"
// @Failure      409   {object}  scanResponse  "already scanned"
// @Router       /v1/tickets/validate [post]
func (h *TicketHandler) Validate(c echo.Context) error {
	var req validateScanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.validation.ValidateScan(c.Request().Context(), req.Token, req.ScannedBy)
	metrics.ScanDuration.Observe(time.Since(start).Seconds())

	if err == nil {
		metrics.ScansTotal.WithLabelValues("admitted").Inc()
		return c.JSON(http.StatusOK, scanResponse{
			Result:    "admitted",
			TicketID:  result.TicketID,
			AccountID: result.AccountID,
			ScannedAt: &result.ScannedAt,
		})
	}

	var dup *domain.AlreadyScannedError
	switch {
	case errors.As(err, &dup):
		metrics.ScansTotal.WithLabelValues("duplicate").Inc()
		return c.JSON(http.StatusConflict, scanResponse{
			Result:    "duplicate",
			TicketID:  dup.TicketID,
			ScannedAt: &dup.ScannedAt,
		})
	case errors.Is(err, domain.ErrInvalidToken):
		metrics.ScansTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, scanResponse{Result: "invalid"})
	case errors.Is(err, domain.ErrTicketNotFound):
		metrics.ScansTotal.WithLabelValues("unknown").Inc()
		return c.JSON(http.StatusNotFound, scanResponse{Result: "unknown"})
	}

	metrics.ScansTotal.WithLabelValues("error").Inc()
	return err
}

// Get handles GET /v1/tickets/:id.
//
// @Summary      Get a ticket by id
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Ticket id"
// @Success      200  {object}  domain.Ticket
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tickets/{id} [get]
func (h *TicketHandler) Get(c echo.Context) error {
	accountID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.GetTicket(c.Request().Context(), ports.GetTicketInput{
		TicketID:  c.Param("id"),
		Role:      role,
		AccountID: accountID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ticket)
}

// List handles GET /v1/tickets (organizer only), optionally filtered by
// ?event_id=.
//
// @Summary      List tickets
// @Tags         tickets
// @Produce      json
// @Security     BearerAuth
// @Param        event_id  query     string  false  "Filter by event"
// @Success      200       {array}   domain.Ticket
// @Router       /v1/tickets [get]
func (h *TicketHandler) List(c echo.Context) error {
	tickets, err := h.tickets.ListTickets(c.Request().Context(), c.QueryParam("event_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tickets)
}

// QR handles GET /v1/tickets/:id/qr and returns the QR code as PNG.
//
// @Summary      Ticket QR code
// @Tags         tickets
// @Produce      png
// @Security     BearerAuth
// @Param        id  path  string  true  "Ticket id"
// @Success      200
// @Router       /v1/tickets/{id}/qr [get]
func (h *TicketHandler) QR(c echo.Context) error {
	accountID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.GetTicket(c.Request().Context(), ports.GetTicketInput{
		TicketID:  c.Param("id"),
		Role:      role,
		AccountID: accountID,
	})
	if err != nil {
		return err
	}

	png, err := notify.TicketQR(ticket.Token)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// PDF handles GET /v1/tickets/:id/pdf, a downloadable ticket document.
//
// @Summary      Ticket PDF download
// @Tags         tickets
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "Ticket id"
// @Success      200
// @Router       /v1/tickets/{id}/pdf [get]
func (h *TicketHandler) PDF(c echo.Context) error {
	accountID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.tickets.GetTicketDetail(c.Request().Context(), ports.GetTicketInput{
		TicketID:  c.Param("id"),
		Role:      role,
		AccountID: accountID,
	})
	if err != nil {
		return err
	}

	png, err := notify.TicketQR(detail.Ticket.Token)
	if err != nil {
		return err
	}
	doc, err := pdf.RenderTicket(detail.Ticket, detail.Account, detail.Event, png)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="ticket-`+detail.Ticket.ID+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", doc)
}

// issuanceErrorReason maps issuance errors to a metric label.
func issuanceErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEventFull):
		return "event_full"
	case errors.Is(err, domain.ErrDuplicateRegistration):
		return "duplicate"
	case errors.Is(err, domain.ErrEventClosed):
		return "event_closed"
	case errors.Is(err, domain.ErrEventNotFound), errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
