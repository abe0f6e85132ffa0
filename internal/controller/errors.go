package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
)

// statusFor maps service and rules errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrMalformedNotation),
		errors.Is(err, model.ErrOutOfRange),
		errors.Is(err, model.ErrInvalidFEN):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotSeated),
		errors.Is(err, service.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameFull),
		errors.Is(err, service.ErrGameExists),
		errors.Is(err, model.ErrNoPieceAtSource),
		errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// errorPayload describes err for a client, including the rule reason when there is one.
func errorPayload(err error) ws.ErrorPayload {
	payload := ws.ErrorPayload{Error: err.Error()}
	var moveErr *model.MoveError
	if errors.As(err, &moveErr) && moveErr.Reason != model.ReasonNone {
		payload.Reason = moveErr.Reason.String()
	}
	return payload
}

func sendError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(errorPayload(err))
}
