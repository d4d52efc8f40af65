package gate

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"
)

// ErrInvalidPIN is returned by a Verifier when the PIN does not match.
var ErrInvalidPIN = errors.New("invalid PIN")

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// Verifier checks a PIN, locally or against the server.
type Verifier func(ctx context.Context, pin string) error

// LocalPIN verifies against a fixed PIN in constant time.
func LocalPIN(pin string) Verifier {
	return func(ctx context.Context, candidate string) error {
		if subtle.ConstantTimeCompare([]byte(pin), []byte(candidate)) != 1 {
			return ErrInvalidPIN
		}
		return nil
	}
}

// Gate decides whether edit controls are shown. It starts logged out on every
// load and never persists its state.
type Gate struct {
	mu     sync.Mutex
	verify Verifier
	state  State
	input  string
	errMsg string
}

func New(verify Verifier) *Gate {
	return &Gate{verify: verify}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate) CanEdit() bool {
	return g.State() == LoggedIn
}

// SetInput records what is typed into the PIN field.
func (g *Gate) SetInput(pin string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.input = pin
}

func (g *Gate) Input() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.input
}

// Error is the inline message shown under the PIN field, "" when there is none.
func (g *Gate) Error() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errMsg
}

// Submit tries pin. On a match the gate opens and the error clears; otherwise
// it stays logged out, shows the error and clears the input.
func (g *Gate) Submit(ctx context.Context, pin string) bool {
	err := g.verify(ctx, pin)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.input = ""
	if err != nil {
		g.state = LoggedOut
		if errors.Is(err, ErrInvalidPIN) {
			g.errMsg = ErrInvalidPIN.Error()
		} else {
			g.errMsg = "login failed, try again"
		}
		return false
	}

	g.state = LoggedIn
	g.errMsg = ""
	return true
}

// SubmitInput submits the recorded input.
func (g *Gate) SubmitInput(ctx context.Context) bool {
	return g.Submit(ctx, g.Input())
}

func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = LoggedOut
	g.input = ""
	g.errMsg = ""
}
