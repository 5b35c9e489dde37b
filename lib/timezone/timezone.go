package timezone

import "time"

// Location is Torn City Time, the game's clock. It is UTC.
var Location = time.UTC

// Now is used for every timestamp that ends up persisted or compared
// against in-game ages (spy records, confidence tiers) so that the host's
// local zone never leaks into stored data.
func Now() time.Time {
	return time.Now().In(Location)
}

// Age returns how long ago t was, never negative.
func Age(now, t time.Time) time.Duration {
	age := now.Sub(t)
	if age < 0 {
		return 0
	}
	return age
}
