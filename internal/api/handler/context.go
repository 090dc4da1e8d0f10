package handler

import (
	"github.com/bookhive/library-api/internal/api/validation"
	"github.com/bookhive/library-api/internal/core/ports"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

func pageInput(res validation.Result) ports.PageInput {
	return ports.PageInput{
		Page:  int(res.IntOr("page", defaultPage)),
		Limit: int(res.IntOr("limit", defaultLimit)),
	}
}

// pathID returns the :id parameter checked by the validation stage.
func pathID(res validation.Result) int64 {
	return res.IntOr("id", 0)
}
