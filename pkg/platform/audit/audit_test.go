package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type AuditSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *AuditSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestAuditSuite(t *testing.T) {
	suite.Run(t, new(AuditSuite))
}

func (s *AuditSuite) event(action Action) Event {
	return Event{
		Category:   CategoryCompliance,
		Timestamp:  time.Now(),
		ManifestID: "m-1",
		Action:     action,
	}
}

func (s *AuditSuite) TestRecorder() {
	s.Run("emitted events reach the read side in order", func() {
		r := NewRecorder(4)
		r.Emit(s.ctx, s.event(ActionManifestCreated))
		r.Emit(s.ctx, s.event(ActionStatusChanged))

		s.Equal(ActionManifestCreated, (<-r.Events()).Action)
		s.Equal(ActionStatusChanged, (<-r.Events()).Action)
	})

	s.Run("a full buffer drops instead of blocking", func() {
		r := NewRecorder(1)
		r.Emit(s.ctx, s.event(ActionManifestCreated))

		done := make(chan struct{})
		go func() {
			r.Emit(s.ctx, s.event(ActionStatusChanged))
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			s.Fail("Emit blocked on a full buffer")
		}

		select {
		case <-r.Dropped():
		default:
			s.Fail("drop was not signalled")
		}
	})
}

func (s *AuditSuite) TestWorker() {
	s.Run("drains events into the store", func() {
		r := NewRecorder(4)
		store := NewInMemoryStore()
		w := NewWorker(store, r.Events(), discardLogger())

		ctx, cancel := context.WithCancel(s.ctx)
		done := make(chan struct{})
		go func() {
			_ = w.Run(ctx)
			close(done)
		}()

		r.Emit(s.ctx, s.event(ActionManifestSigned))
		s.Eventually(func() bool {
			return len(store.Events()) == 1
		}, time.Second, 5*time.Millisecond)

		cancel()
		<-done
		s.Equal(ActionManifestSigned, store.Events()[0].Action)
	})

	s.Run("a failing store does not stop the drain", func() {
		r := NewRecorder(4)
		failing := &failingStore{fail: 1, next: NewInMemoryStore()}
		w := NewWorker(failing, r.Events(), discardLogger())

		ctx, cancel := context.WithCancel(s.ctx)
		defer cancel()
		go func() { _ = w.Run(ctx) }()

		r.Emit(s.ctx, s.event(ActionManifestCreated))
		r.Emit(s.ctx, s.event(ActionStatusChanged))

		s.Eventually(func() bool {
			return len(failing.next.Events()) == 1
		}, time.Second, 5*time.Millisecond)
		s.Equal(ActionStatusChanged, failing.next.Events()[0].Action)
	})
}

type failingStore struct {
	fail int
	next *InMemoryStore
}

func (f *failingStore) Append(ctx context.Context, event Event) error {
	if f.fail > 0 {
		f.fail--
		return errors.New("sink unavailable")
	}
	return f.next.Append(ctx, event)
}
