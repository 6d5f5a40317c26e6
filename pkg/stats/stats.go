package stats

import (
	"encoding/json"
	"sync"
	"time"
)

// RoundTrip records a single HTTP round trip made to a remote endpoint.
type RoundTrip struct {
	Method  string        `json:"method"`
	URL     string        `json:"url"`
	Code    int           `json:"code"`
	Bytes   int64         `json:"bytes"`
	Elapsed time.Duration `json:"elapsed"`
	Error   string        `json:"error,omitempty"`
}

// Observations accumulates round trips recorded during program execution.
// Safe for concurrent use.
type Observations struct {
	lock  sync.Mutex
	trips []RoundTrip
}

// Record records a round trip.
func (o *Observations) Record(trip RoundTrip) {
	o.lock.Lock()
	defer o.lock.Unlock()

	o.trips = append(o.trips, trip)
}

// Count returns the number of round trips recorded so far.
func (o *Observations) Count() int {
	o.lock.Lock()
	defer o.lock.Unlock()

	return len(o.trips)
}

// Marshal marshals all recorded round trips.
func (o *Observations) Marshal() (string, error) {
	o.lock.Lock()
	defer o.lock.Unlock()

	if o.trips == nil {
		return "", nil
	}
	bytes, err := json.Marshal(o.trips)
	return string(bytes), err
}
