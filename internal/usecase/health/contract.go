package health

import "context"

// Pinger checks component availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
