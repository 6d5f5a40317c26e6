package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservations(t *testing.T) {
	obs := &Observations{}
	assert.Zero(t, obs.Count())

	logs, err := obs.Marshal()
	require.NoError(t, err)
	assert.Empty(t, logs)

	obs.Record(RoundTrip{Method: "GET", URL: "https://registry.example.com/v2/", Code: 200, Elapsed: time.Millisecond})
	obs.Record(RoundTrip{Method: "HEAD", URL: "https://registry.example.com/v2/", Code: 401})

	assert.Equal(t, 2, obs.Count())

	logs, err = obs.Marshal()
	require.NoError(t, err)
	assert.Contains(t, logs, `"method":"HEAD"`)
	assert.Contains(t, logs, `"code":401`)
}

func TestObservationsConcurrentRecord(t *testing.T) {
	obs := &Observations{}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obs.Record(RoundTrip{Method: "GET", Code: 200})
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, obs.Count())
}
