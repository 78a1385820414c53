package query

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within int for any limit up to MaxLimit.
	MaxPage = math.MaxInt / MaxLimit
)

// Window is one page of a result set.
type Window struct {
	Page  int
	Limit int
	Skip  int
}

// Stats describes a paged result set.
type Stats struct {
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int64 `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// ParseWindow converts page and limit text into a window. Unparseable or
// non-positive values fall back to the defaults, limit is capped at
// MaxLimit and page at MaxPage, so Skip is never negative.
func ParseWindow(page, limit string) Window {
	p := min(parsePositive(page, DefaultPage), MaxPage)
	l := min(parsePositive(limit, DefaultLimit), MaxLimit)
	return NewWindow(p, l)
}

// NewWindow builds a window from already validated values.
func NewWindow(page, limit int) Window {
	return Window{Page: page, Limit: limit, Skip: (page - 1) * limit}
}

// Stats reports pagination statistics for total matching items.
func (w Window) Stats(total int64) Stats {
	var pages int64
	if w.Limit > 0 {
		pages = (total + int64(w.Limit) - 1) / int64(w.Limit)
	}
	return Stats{
		TotalItems:   total,
		TotalPages:   pages,
		CurrentPage:  w.Page,
		ItemsPerPage: w.Limit,
	}
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
