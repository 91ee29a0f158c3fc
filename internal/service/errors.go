package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tmnegociosdigitais/crmdesk/internal/repository"
	apperrors "github.com/tmnegociosdigitais/crmdesk/pkg/util/errorutil"
)

// Domain error codes raised by the workflows in this package.
const (
	CodeContactPhoneMissing = "CONTACT_PHONE_MISSING"
	CodeNoQueueAvailable    = "NO_QUEUE_AVAILABLE"
	CodePlanRestriction     = "PLAN_RESTRICTION"
	CodeColumnLimitExceeded = "COLUMN_LIMIT_EXCEEDED"
	CodeInvalidTransition   = "INVALID_TRANSITION"
)

func errContactPhoneMissing() error {
	return apperrors.NewDomainError(CodeContactPhoneMissing, "phone is required", http.StatusBadRequest,
		map[string]any{"field": "phone"})
}

func errNoQueueAvailable() error {
	return apperrors.NewDomainError(CodeNoQueueAvailable, "no active queue available", http.StatusBadRequest, nil)
}

func errPlanRestriction(planID string) error {
	return apperrors.NewDomainError(CodePlanRestriction, "plan does not allow kanban customization", http.StatusForbidden,
		map[string]any{"plan_id": planID})
}

func errColumnLimitExceeded(limit, got int) error {
	return apperrors.NewDomainError(CodeColumnLimitExceeded,
		fmt.Sprintf("plan allows at most %d kanban columns", limit), http.StatusBadRequest,
		map[string]any{"max_kanban_columns": limit, "columns": got})
}

func errInvalidTransition(from, to any) error {
	return apperrors.NewDomainError(CodeInvalidTransition, "status transition not allowed", http.StatusBadRequest,
		map[string]any{"from": from, "to": to})
}

func errRequired(field string) error {
	return apperrors.NewValidationError(field+" is required", map[string]any{"field": field})
}

func errInvalidField(field string, value any) error {
	return apperrors.NewValidationError("invalid "+field, map[string]any{"field": field, "value": value})
}

// notFoundOr turns repository.ErrNotFound into a 404 for resource and
// wraps anything else as an internal error.
func notFoundOr(err error, resource, key, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{key: id})
	}
	return apperrors.MapError(err)
}
