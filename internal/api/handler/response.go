package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/buildco/cms-api/internal/pkg/query"
)

// dataResponse is the envelope of every successful single-resource response.
type dataResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type pagination struct {
	Total       int64 `json:"total"`
	Page        int   `json:"page"`
	Size        int   `json:"size"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// pageResponse is the envelope of every list response.
type pageResponse struct {
	Success    bool       `json:"success"`
	Data       any        `json:"data"`
	Pagination pagination `json:"pagination"`
}

// errorResponse documents the error envelope rendered by the HTTP error handler.
type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, dataResponse{Success: true, Data: data})
}

func respondMessage(c echo.Context, code int, data any, msg string) error {
	return c.JSON(code, dataResponse{Success: true, Data: data, Message: msg})
}

func respondPage[T any](c echo.Context, p query.Page[T]) error {
	return c.JSON(http.StatusOK, pageResponse{
		Success: true,
		Data:    p.Items,
		Pagination: pagination{
			Total:       p.Total,
			Page:        p.Page,
			Size:        p.Size,
			TotalPages:  p.TotalPages(),
			HasNextPage: p.HasNext(),
			HasPrevPage: p.HasPrev(),
		},
	})
}
