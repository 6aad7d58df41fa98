package dto

// CreateRequest represents the JSON body expected in a creation request.
// SendAt is a local date and time as produced by a date/time picker,
// e.g. "2030-01-01T10:00".
type CreateRequest struct {
	Message string `json:"message" validate:"required"`
	SendAt  string `json:"send_at" validate:"required"`
	Retries int    `json:"retries" validate:"gte=0"`
	To      string `json:"to" validate:"required"`
	Channel string `json:"channel" validate:"required,oneof=telegram email"`
}
