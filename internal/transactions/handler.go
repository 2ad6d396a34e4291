package transactions

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/clearhouse-io/clearhouse/internal/engine"
)

// Handler exposes transaction processing over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type recordRequest struct {
	Type   string `json:"type"`
	Client uint16 `json:"client"`
	Tx     uint32 `json:"tx"`
	Amount string `json:"amount"`
}

// Submit applies one transaction record.
func (h *Handler) Submit(c *fiber.Ctx) error {
	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	typ, err := engine.ParseRecordType(req.Type)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	rec := engine.Record{Type: typ, Client: req.Client, Tx: req.Tx, Amount: req.Amount}
	if err := h.service.Process(c.UserContext(), rec); err != nil {
		return rejectionError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status": "applied",
		"type":   typ,
		"client": req.Client,
		"tx":     req.Tx,
	})
}

// Import processes a CSV request body as one ordered stream.
func (h *Handler) Import(c *fiber.Ctx) error {
	summary, err := h.service.Import(c.UserContext(), bytes.NewReader(c.Body()))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(summary)
}

// Accounts returns a snapshot of every account.
func (h *Handler) Accounts(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"accounts": h.service.Snapshots(c.UserContext()),
	})
}

// AccountByID returns a snapshot of one client account.
func (h *Handler) AccountByID(c *fiber.Ctx) error {
	clientID, err := strconv.ParseUint(c.Params("clientId"), 10, 16)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid client id")
	}

	snap, err := h.service.Snapshot(c.UserContext(), uint16(clientID))
	if err != nil {
		if errors.Is(err, engine.ErrUnknownAccount) {
			return fiber.NewError(http.StatusNotFound, "unknown account")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(snap)
}

// rejectionError maps engine rejections onto HTTP statuses. Every rejection
// leaves the ledger unchanged, so the response is safe to retry or correct.
func rejectionError(err error) error {
	switch {
	case errors.Is(err, engine.ErrDuplicateTx), errors.Is(err, engine.ErrTxExists):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrTxUnknown):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrAccountLocked):
		return fiber.NewError(http.StatusLocked, err.Error())
	case errors.Is(err, engine.ErrWithdrawalLimit),
		errors.Is(err, engine.ErrMissingAmount),
		errors.Is(err, engine.ErrNegativeAmount),
		errors.Is(err, engine.ErrTxDisputed),
		errors.Is(err, engine.ErrTxNotDisputed),
		errors.Is(err, engine.ErrWithdrawalDispute),
		errors.Is(err, engine.ErrOverflow),
		errors.Is(err, engine.ErrUnderflow):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}

	var parseErr *engine.ParseError
	if errors.As(err, &parseErr) {
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	}
	return fiber.NewError(http.StatusInternalServerError, err.Error())
}
