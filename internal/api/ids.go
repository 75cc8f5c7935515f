package api

import (
	"fmt"

	"github.com/google/uuid"
)

func parseBatchID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid batch id %q", s)
	}
	return id, nil
}
