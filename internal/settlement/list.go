package settlement

import (
	"context"

	"github.com/avaldez-dev/tillpoint/pkg/db/models"
	"github.com/avaldez-dev/tillpoint/pkg/pagination"
)

// ListParams configures settlement history listing.
type ListParams struct {
	pagination.Params
}

// RecordList is one page of settlement history.
type RecordList struct {
	Records    []models.SettlementRecord `json:"records"`
	NextCursor string                    `json:"next_cursor,omitempty"`
}

// List returns committed settlements newest first.
func (e *engine) List(ctx context.Context, params ListParams) (*RecordList, error) {
	records, next, err := e.repo.List(ctx, params.Params)
	if err != nil {
		return nil, err
	}
	return &RecordList{Records: records, NextCursor: next}, nil
}
