package infra

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// ── Circuit Breaker ───────────────────────────────────────────────────────────
// Closed → Open → Half-Open state machine guarding the blob store, so a dead
// S3 endpoint fails uploads fast instead of holding every request open.
//
// States:
//   - Closed:    normal operation, calls pass through
//   - Open:      every call fails immediately with ErrCircuitOpen
//   - Half-Open: calls are let through to probe recovery

// CBState represents the current circuit breaker state.
type CBState int

const (
	CBClosed   CBState = iota // normal
	CBOpen                    // tripped
	CBHalfOpen                // probing
)

// String returns the state name used by /health and logs.
func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned when Execute is called while the CB is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig holds tunable parameters.
type CircuitBreakerConfig struct {
	FailureThreshold int           // consecutive failures to trip open (default: 5)
	SuccessThreshold int           // consecutive successes in half-open to close (default: 2)
	OpenTimeout      time.Duration // how long to stay open before probing (default: 30s)
	// Ignorar reports errors that are answers, not outages. Nil means
	// ErrorDeNegocio.
	Ignorar func(error) bool
}

// ErrorDeNegocio reports the store errors caused by the request itself: a
// missing or malformed key, or a cancelled caller.
func ErrorDeNegocio(err error) bool {
	return errors.Is(err, ErrArchivoNoEncontrado) || errors.Is(err, ErrClaveInvalida) ||
		errors.Is(err, context.Canceled)
}

// DefaultCBConfig returns the defaults used for the blob store.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
		Ignorar:          ErrorDeNegocio,
	}
}

// CircuitBreaker implements the pattern with thread-safe state transitions.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            CBState
	failureCount     int
	successCount     int
	lastFailureTime  time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
	ignorar          func(error) bool
	now              func() time.Time
}

// NewCircuitBreaker creates a CB in Closed state.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.Ignorar == nil {
		cfg.Ignorar = ErrorDeNegocio
	}
	return &CircuitBreaker{
		state:            CBClosed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		openTimeout:      cfg.OpenTimeout,
		ignorar:          cfg.Ignorar,
		now:              time.Now,
	}
}

// State returns the current CB state (safe for concurrent reads).
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	// open → half-open once the timeout elapsed
	if cb.state == CBOpen && cb.now().Sub(cb.lastFailureTime) >= cb.openTimeout {
		cb.state = CBHalfOpen
		cb.successCount = 0
	}
	return cb.state
}

// Execute runs fn through the circuit breaker.
// Returns ErrCircuitOpen immediately if the CB is open.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil && !cb.ignorar(err) {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return err
}

// onFailure records a failure (must be called under lock).
func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.lastFailureTime = cb.now()

	switch cb.state {
	case CBClosed:
		if cb.failureCount >= cb.failureThreshold {
			cb.state = CBOpen
			cb.successCount = 0
		}
	case CBHalfOpen:
		// probe failed
		cb.state = CBOpen
		cb.failureCount = 0
	}
}

// onSuccess records a success (must be called under lock).
func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case CBClosed:
		cb.failureCount = 0
	case CBHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = CBClosed
			cb.failureCount = 0
			cb.successCount = 0
		}
	}
}

// ── Almacenamiento protegido ──────────────────────────────────────────────────

// AlmacenamientoProtegido routes every call to the wrapped store through a
// CircuitBreaker.
type AlmacenamientoProtegido struct {
	inner Almacenamiento
	cb    *CircuitBreaker
}

func NewAlmacenamientoProtegido(inner Almacenamiento, cb *CircuitBreaker) *AlmacenamientoProtegido {
	return &AlmacenamientoProtegido{inner: inner, cb: cb}
}

func (a *AlmacenamientoProtegido) Guardar(ctx context.Context, categoria, nombre string, contenido io.Reader, tamano int64, contentType string) (string, error) {
	var clave string
	err := a.cb.Execute(func() error {
		var err error
		clave, err = a.inner.Guardar(ctx, categoria, nombre, contenido, tamano, contentType)
		return err
	})
	return clave, err
}

func (a *AlmacenamientoProtegido) Obtener(ctx context.Context, clave string) (*Descarga, error) {
	var d *Descarga
	err := a.cb.Execute(func() error {
		var err error
		d, err = a.inner.Obtener(ctx, clave)
		return err
	})
	return d, err
}

func (a *AlmacenamientoProtegido) Eliminar(ctx context.Context, clave string) error {
	return a.cb.Execute(func() error { return a.inner.Eliminar(ctx, clave) })
}
