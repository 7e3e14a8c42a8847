package ports

import "github.com/google/uuid"

// Broadcaster is the only outbound path from the engine to connections.
// Deliveries are fire-and-forget; a failed send to one connection must not
// abort delivery to the rest.
type Broadcaster interface {
	BroadcastAll(event string, payload any)
	SendTo(conn uuid.UUID, event string, payload any)
}
