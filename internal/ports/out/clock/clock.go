package clock

import "time"

// Clock is the time source for services, token expiry and idempotency TTLs.
// Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}
