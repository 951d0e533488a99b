package server

import (
	"strings"

	"github.com/spf13/cast"
)

type listQuery struct {
	Query string `form:"q"`
	Page  string `form:"page"`
}

// parsePage reads a 1-indexed page number. Blank means the first page.
func parsePage(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 1, nil
	}
	page, err := cast.ToIntE(trimmed)
	if err != nil {
		return 0, err
	}
	if page < 1 {
		page = 1
	}
	return page, nil
}
