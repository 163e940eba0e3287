package monitor

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/devinventory/pkg/errors"
)

// sampleTimeout bounds a single read so a hung source cannot wedge Stop.
const sampleTimeout = 5 * time.Second

// Session is one monitoring run.
type Session struct {
	ID       uuid.UUID
	Source   Source
	Interval time.Duration
	Buffer   *Buffer
	Limit    int // stop after this many samples; 0 runs until stopped
	Logger   *log.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSession returns a session with a DefaultCapacity buffer.
func NewSession(src Source, interval time.Duration) *Session {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Session{
		ID:       uuid.New(),
		Source:   src,
		Interval: interval,
		Buffer:   NewBuffer(DefaultCapacity),
	}
}

// Run starts the producer and returns its sample channel, which is closed
// when the session stops. Stop is checked before each sample; a sample
// already being read completes and is buffered, but may not be delivered.
//
// Run fails if the session is already running.
func (s *Session) Run(ctx context.Context) (<-chan Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil, errs.New(errs.ErrCodeInvalidInput, "monitor session %s already running", s.ID)
	}
	if s.Buffer == nil {
		s.Buffer = NewBuffer(DefaultCapacity)
	}
	if s.Interval <= 0 {
		s.Interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})

	out := make(chan Sample, 1)
	go s.loop(ctx, out, s.done)
	return out, nil
}

func (s *Session) loop(ctx context.Context, out chan<- Sample, done chan struct{}) {
	logger := s.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	defer func() {
		s.mu.Lock()
		s.running = false
		s.cancel()
		s.mu.Unlock()
		close(out)
		close(done)
	}()

	logger.Debug("monitor started", "session", s.ID, "interval", s.Interval)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for n := 0; s.Limit == 0 || n < s.Limit; n++ {
		if ctx.Err() != nil {
			break
		}

		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sampleTimeout)
		sample, err := s.Source.Sample(readCtx)
		cancel()
		if err != nil {
			logger.Warn("monitor sample failed", "session", s.ID, "error", err)
		} else {
			s.Buffer.Add(sample)
			select {
			case out <- sample:
			case <-ctx.Done():
			}
		}

		if s.Limit != 0 && n+1 == s.Limit {
			break
		}
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}
	logger.Debug("monitor stopped", "session", s.ID, "samples", s.Buffer.Len())
}

// Stop ends the session. It is safe to call from any goroutine, and more
// than once.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the producer has exited.
func (s *Session) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Running reports whether the producer is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
