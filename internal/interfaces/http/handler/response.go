package handler

import "github.com/printchain/backend/internal/interfaces/http/dto"

// APIResponse is a generic API response wrapper with a typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// CountData carries a bare count in responses
type CountData struct {
	Count int64 `json:"count"`
}
