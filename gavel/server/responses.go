package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gavelhouse/gavel/gavel/auction"
)

type successResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func sendSuccess(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(http.StatusOK).JSON(successResponse{Success: true, Data: data, Message: message})
}

func sendCreated(c *fiber.Ctx, data interface{}, message string) error {
	return c.Status(http.StatusCreated).JSON(successResponse{Success: true, Data: data, Message: message})
}

func sendError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorResponse{Success: false, Code: code, Message: message})
}

func sendBadRequest(c *fiber.Ctx, message string) error {
	return sendError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// sendAuctionError maps engine error kinds onto HTTP statuses. Arbitration
// losses are conflicts, rule violations are unprocessable, missing rows are
// not found.
func sendAuctionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, auction.ErrNotFound) {
		return sendError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	}
	kind := auction.KindOf(err)
	switch kind {
	case auction.KindInvalidPhase, auction.KindSuperseded, auction.KindNotYetExpired, auction.KindItemAlreadySold:
		return sendError(c, http.StatusConflict, string(kind), err.Error())
	case auction.KindWindowExpired:
		return sendError(c, http.StatusGone, string(kind), err.Error())
	case auction.KindPriceTooLow, auction.KindBidTooLow, auction.KindBudgetExceeded,
		auction.KindSlotsExhausted, auction.KindCategoryQuota:
		return sendError(c, http.StatusUnprocessableEntity, string(kind), err.Error())
	case auction.KindParticipantNotFound, auction.KindItemNotFound:
		return sendError(c, http.StatusNotFound, string(kind), err.Error())
	case auction.KindStorageUnavailable:
		return sendError(c, http.StatusServiceUnavailable, string(kind), err.Error())
	default:
		return sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
