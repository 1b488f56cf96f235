package bot

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/holdem-tourney/internal/game"
	"github.com/lox/holdem-tourney/internal/protocol"
)

// Remote forwards decisions to a bot server over a websocket. The connection
// is dialled lazily and redialled after any failure.
type Remote struct {
	url    string
	dialer *websocket.Dialer
	logger *log.Logger

	mu   sync.Mutex
	conn *websocket.Conn
	seq  uint64
}

// NewRemote creates a provider for the websocket at url. A nil dialer uses
// websocket.DefaultDialer.
func NewRemote(url string, dialer *websocket.Dialer, logger *log.Logger) *Remote {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	return &Remote{
		url:    url,
		dialer: dialer,
		logger: discardIfNil(logger).With("url", url),
	}
}

// Decide sends an action request and waits for the matching response.
// Cancelling ctx interrupts the exchange and drops the connection.
func (r *Remote) Decide(ctx context.Context, req game.DecisionRequest) (game.Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, err := r.connect(ctx)
	if err != nil {
		return game.Decision{}, err
	}

	r.seq++
	id := strconv.FormatUint(r.seq, 10)
	deadline, _ := ctx.Deadline()

	stop := context.AfterFunc(ctx, func() {
		now := time.Now()
		_ = conn.SetWriteDeadline(now)
		_ = conn.SetReadDeadline(now)
	})
	defer stop()

	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteJSON(protocol.NewActionRequest(id, req, deadline)); err != nil {
		return game.Decision{}, r.fail(ctx, "write action request", err)
	}

	_ = conn.SetReadDeadline(deadline)
	if ctx.Err() != nil {
		return game.Decision{}, r.fail(ctx, "read action response", ctx.Err())
	}
	var resp protocol.ActionResponse
	if err := conn.ReadJSON(&resp); err != nil {
		return game.Decision{}, r.fail(ctx, "read action response", err)
	}

	d, err := resp.Decision(id)
	if err != nil {
		if errors.Is(err, protocol.ErrUnexpectedMessage) {
			r.drop()
		}
		return game.Decision{}, err
	}
	return d, nil
}

// Close sends a close frame and closes the connection, if any.
func (r *Remote) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	_ = r.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := r.conn.Close()
	r.conn = nil
	return err
}

func (r *Remote) connect(ctx context.Context) (*websocket.Conn, error) {
	if r.conn != nil {
		return r.conn, nil
	}
	conn, _, err := r.dialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", r.url, err)
	}
	r.logger.Debug("Connected to remote provider")
	r.conn = conn
	return conn, nil
}

// fail drops the connection; it is out of step with the remote side.
func (r *Remote) fail(ctx context.Context, op string, err error) error {
	r.drop()
	switch {
	case ctx.Err() != nil:
		err = ctx.Err()
	case isTimeout(err):
		// The socket deadline can fire just before the context's.
		err = context.DeadlineExceeded
	}
	r.logger.Warn("Remote provider failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func (r *Remote) drop() {
	if r.conn != nil {
		_ = r.conn.Close()
		r.conn = nil
	}
}
