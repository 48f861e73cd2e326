package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/DevKor-github/onboarding-team2-be/internal/httpx"
	"github.com/DevKor-github/onboarding-team2-be/internal/service"
)

// respondError maps service errors onto HTTP responses. Unknown errors are
// logged and reported as 500 without leaking internals.
func respondError(c *fiber.Ctx, err error) error {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case service.KindValidation:
			return httpx.BadRequest(c, svcErr.Code, svcErr.Message)
		case service.KindUnauthorized:
			return httpx.Unauthorized(c, svcErr.Code, svcErr.Message)
		case service.KindForbidden:
			return httpx.Forbidden(c, svcErr.Code, svcErr.Message)
		case service.KindNotFound:
			return httpx.NotFound(c, svcErr.Code, svcErr.Message)
		case service.KindConflict:
			return httpx.Conflict(c, svcErr.Code, svcErr.Message)
		}
	}

	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return httpx.Internal(c, "internal_error")
}

func paramUint(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func queryInt(c *fiber.Ctx, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}

func queryUint(c *fiber.Ctx, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}
