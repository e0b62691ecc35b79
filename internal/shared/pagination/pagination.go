package pagination

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 35
	MaxPageSize     = 100
)

// Params is a resolved page request.
type Params struct {
	Page     int
	PageSize int
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the row limit for the page.
func (p Params) Limit() int {
	return p.PageSize
}

// FromRequest reads "page" and "page_size" query params. Invalid values fall
// back to the first page and the default size.
func FromRequest(c *gin.Context, defaultSize int) Params {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	p := Params{Page: 1, PageSize: defaultSize}
	if v := c.Query("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.Page = parsed
		}
	}
	if v := c.Query("page_size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			p.PageSize = parsed
		}
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Page is the paginated response envelope.
type Page[T any] struct {
	CurrentPage int     `json:"current_page"`
	Pages       int     `json:"pages"`
	Count       int     `json:"count"`
	Next        *string `json:"next"`
	Previous    *string `json:"previous"`
	Results     []T     `json:"results"`
}

// New builds the envelope, deriving next/previous links from the request URL.
func New[T any](c *gin.Context, p Params, count int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	pages := 1
	if count > 0 && p.PageSize > 0 {
		pages = (count + p.PageSize - 1) / p.PageSize
	}
	page := Page[T]{
		CurrentPage: p.Page,
		Pages:       pages,
		Count:       count,
		Results:     results,
	}
	if p.Page < pages {
		link := pageLink(c, p.Page+1)
		page.Next = &link
	}
	if p.Page > 1 {
		prev := p.Page - 1
		if prev > pages {
			prev = pages
		}
		link := pageLink(c, prev)
		page.Previous = &link
	}
	return page
}

func pageLink(c *gin.Context, page int) string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	q := c.Request.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
