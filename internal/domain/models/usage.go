// internal/domain/models/usage.go
package models

// ApiUsageData is one day of synthetic call/error counts for the analytics
// view. It is never persisted; each client session regenerates its own
// series.
type ApiUsageData struct {
	Date   string `json:"date"`
	Calls  int    `json:"calls"`
	Errors int    `json:"errors"`
}
