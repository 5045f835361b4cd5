package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dp-wu/bookradar-backend/internal/apperr"
)

func parseJobID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed job id %q", apperr.ErrInvalidArgument, id)
	}
	return parsed, nil
}
