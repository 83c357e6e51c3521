package domain

import "time"

type Notification struct {
	ID         string            `json:"id"`
	AccountID  int64             `json:"account_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	IsRead     bool              `json:"is_read"`
	CreatedOn  time.Time         `json:"created_on"`
}
