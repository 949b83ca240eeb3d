package heartbeat

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"netwatch/observation"
	"netwatch/obsqueue"
)

func TestLoopEnqueuesLivenessObservation(t *testing.T) {
	assert := require.New(t)

	q := obsqueue.New(10, nil)
	done := make(chan struct{})
	l := Loop{Enqueuer: QueueEnqueuer{Queue: q}, Interval: 10 * time.Millisecond}

	go l.Run(done)
	defer close(done)

	obs, ok := q.DequeueTimeout(time.Second)
	assert.True(ok)
	assert.Equal(observation.Observation{
		Source:   observation.SourceKaliAgent,
		Hostname: observation.SourceKaliAgent,
		TypeHint: "defensive-sensor",
	}, obs)
}

type failingEnqueuer struct {
	failures int32
}

func (f *failingEnqueuer) Enqueue(observation.Observation) error {
	atomic.AddInt32(&f.failures, 1)
	return errBoom
}

type boomErr struct{}

func (*boomErr) Error() string { return "boom" }

var errBoom = &boomErr{}

func TestLoopCallsOnErrorAndBacksOff(t *testing.T) {
	assert := require.New(t)

	fe := &failingEnqueuer{}
	var errCount int32
	done := make(chan struct{})
	l := Loop{
		Enqueuer: fe,
		Interval: 5 * time.Millisecond,
		OnError:  func() { atomic.AddInt32(&errCount, 1) },
	}

	go l.Run(done)
	time.Sleep(50 * time.Millisecond)
	close(done)

	assert.True(atomic.LoadInt32(&errCount) > 0)
	assert.Equal(atomic.LoadInt32(&fe.failures), atomic.LoadInt32(&errCount))
}
