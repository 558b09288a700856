package service

import (
	"fmt"

	"go.uber.org/multierr"
)

// BulkResult reports a per-id outcome for admin bulk actions.
type BulkResult struct {
	Succeeded []uint `json:"succeeded"`
	Failed    []uint `json:"failed"`
	Err       error  `json:"-"`
}

// Errors returns the individual failures joined in Err.
func (r *BulkResult) Errors() []error {
	return multierr.Errors(r.Err)
}

func runBulk(ids []uint, fn func(id uint) error) *BulkResult {
	res := &BulkResult{Succeeded: []uint{}, Failed: []uint{}}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := fn(id); err != nil {
			res.Failed = append(res.Failed, id)
			res.Err = multierr.Append(res.Err, fmt.Errorf("id %d: %w", id, err))
			continue
		}
		res.Succeeded = append(res.Succeeded, id)
	}
	return res
}
