// Package response provides API response utilities.
package response

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the standard API response structure.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains list metadata.
type Meta struct {
	Total int `json:"total,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// OK returns a successful response.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Success: true, Data: data})
}

// OKWithMeta returns a successful response with metadata.
func OKWithMeta(c *fiber.Ctx, data any, meta *Meta) error {
	return c.JSON(Response{Success: true, Data: data, Meta: meta})
}

// Created returns a 201 created response.
func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Data: data})
}

// NoContent returns a 204 no content response.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// QueryIntClamped reads an integer query parameter and clamps it to [min, max].
func QueryIntClamped(c *fiber.Ctx, key string, def, min, max int) int {
	v := c.QueryInt(key, def)
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
