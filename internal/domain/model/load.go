package model

import (
	"time"

	"github.com/google/uuid"
)

type LoadStatus string

const (
	LoadOK           LoadStatus = "ok"
	LoadNetworkError LoadStatus = "network_error"
	LoadFormatError  LoadStatus = "format_error"
)

// LoadRecord describes one load attempt. It never carries coin data.
type LoadRecord struct {
	ID         uuid.UUID     `json:"id"`
	Site       string        `json:"site"`
	Mode       string        `json:"mode"`
	Status     LoadStatus    `json:"status"`
	HTTPStatus int           `json:"http_status,omitempty"`
	CoinCount  int           `json:"coin_count"`
	Duration   time.Duration `json:"duration_ns"`
	Error      string        `json:"error,omitempty"`
	At         time.Time     `json:"at"`
}
