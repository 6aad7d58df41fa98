package model

// Channel is a delivery method supported by the backend.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelEmail    Channel = "email"
)

// Valid reports whether c is one of the supported channels.
func (c Channel) Valid() bool {
	return c == ChannelTelegram || c == ChannelEmail
}

// Status is the backend-owned lifecycle state of a notification.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSent      Status = "sent"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// IsTerminal reports whether no further transition can occur from s.
func (s Status) IsTerminal() bool {
	return s == StatusSent || s == StatusCancelled || s == StatusFailed
}

// CanCancel reports whether a client may request cancellation in state s.
func (s Status) CanCancel() bool {
	return s == StatusPending
}

// Notification is the client's read-only copy of a backend notification.
type Notification struct {
	ID        string  `json:"id"`                   // opaque identifier assigned by the backend
	Message   string  `json:"message"`              // content of the notification
	SendAt    string  `json:"send_at"`              // "YYYY-MM-DD HH:mm:ss", shown as received
	Retries   int     `json:"retries"`              // maximum re-attempts on delivery failure
	To        string  `json:"to"`                   // chat id or email address, depending on Channel
	Channel   Channel `json:"channel"`              // delivery method
	Status    Status  `json:"status"`               // current state, never written by the client
	CreatedAt string  `json:"created_at,omitempty"` // backend audit timestamp
	UpdatedAt string  `json:"updated_at,omitempty"` // backend audit timestamp
}

// Cancellable reports whether cancellation may be offered for n.
func (n Notification) Cancellable() bool {
	return n.Status.CanCancel()
}
