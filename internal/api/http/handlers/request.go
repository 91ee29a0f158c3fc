package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tmnegociosdigitais/crmdesk/internal/auth"
	"github.com/tmnegociosdigitais/crmdesk/internal/service"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

// actorFrom returns the authenticated agent of the request.
func actorFrom(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.ActorFromUser(principal.User), nil
}

// parseBody decodes the JSON body into dst. An empty body leaves dst zero.
func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	return &val
}
