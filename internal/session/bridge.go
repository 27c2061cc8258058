package session

import (
	"log/slog"
	"sync"
)

// Bridge decouples the possibly-concurrent protocol front end from the
// strictly sequential analysis worker. Requests travel over one unbounded
// queue, responses over another; the queue endpoints are the only objects
// shared across goroutines.
//
// The protocol carries no correlation identifier, so a send/recv pair is
// only matched with its own response when no other caller interleaves.
// Call takes an exclusive turn for exactly that reason; Send and Recv stay
// exposed for callers that manage pairing themselves.
type Bridge struct {
	requests  *queue[Request]
	responses *queue[Response]
	logger    *slog.Logger
	done      chan struct{}

	turn sync.Mutex // serializes Call pairs

	mu     sync.Mutex
	closed bool
}

// NewBridge starts the analysis worker on its own goroutine and returns
// the bridge connected to it.
func NewBridge(parser Parser, logger *slog.Logger) *Bridge {
	b := &Bridge{
		requests:  newQueue[Request](),
		responses: newQueue[Response](),
		logger:    logger,
		done:      make(chan struct{}),
	}
	w := &worker{
		parser: parser,
		store:  NewStore(),
		logger: logger,
	}
	go func() {
		defer close(b.done)
		defer b.responses.Close()
		w.run(b.requests.Out(), b.responses.Push)
	}()
	return b
}

// Send enqueues a request for the worker. It never blocks on worker
// progress. A send after shutdown is dropped and logged, not an error:
// the exchange degrades to "no response".
func (b *Bridge) Send(req Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		b.logger.Error("session: send on closed bridge", "request", typeName(req))
		return
	}
	b.requests.Push(req)
}

// Recv blocks for the next response. ok is false when the worker is gone
// and every buffered response has been delivered.
func (b *Bridge) Recv() (Response, bool) {
	resp, ok := <-b.responses.Out()
	if !ok {
		b.logger.Error("session: recv on closed bridge")
		return nil, false
	}
	return resp, true
}

// Call performs one send/recv exchange under an exclusive turn, so
// concurrent callers cannot steal each other's responses.
func (b *Bridge) Call(req Request) (Response, bool) {
	b.turn.Lock()
	defer b.turn.Unlock()
	b.Send(req)
	return b.Recv()
}

// Shutdown sends the termination request and joins the worker. It returns
// once the worker goroutine has fully stopped; later Sends are dropped.
// Safe to call more than once.
func (b *Bridge) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		<-b.done
		return
	}
	b.closed = true
	b.requests.Push(Shutdown{})
	b.requests.Close()
	b.mu.Unlock()
	<-b.done
}

func typeName(req Request) string {
	switch req.(type) {
	case ComposerFiles:
		return "ComposerFiles"
	case DidOpen:
		return "DidOpen"
	case DocumentSymbol:
		return "DocumentSymbol"
	case Shutdown:
		return "Shutdown"
	default:
		return "unknown"
	}
}
