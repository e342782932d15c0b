package signup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/partner-portal/internal/domain"
)

// Messages surfaced to the partner.
const (
	FallbackErrorMessage = "Signup failed"
	MissingTokenMessage  = "Signup response did not include a token"
)

// ErrSubmissionPending rejects a Submit while another one is in flight.
var ErrSubmissionPending = errors.New("signup: submission already pending")

// Gateway performs the single request/response exchange with the signup service.
type Gateway interface {
	Signup(ctx context.Context, req domain.SignupRequest) (domain.SignupResponse, error)
}

// Storage persists the credential token issued on success.
type Storage interface {
	Set(ctx context.Context, key, value string) error
}

// State of the submission handler.
type State int

const (
	StateIdle State = iota
	StatePending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Effect is what the caller should do after a submission settles.
type Effect interface {
	effect()
}

// NavigateTo moves the partner to another route.
type NavigateTo struct {
	Route string
}

// ShowError keeps the form and displays Message.
type ShowError struct {
	Message string
}

func (NavigateTo) effect() {}
func (ShowError) effect()  {}

// Snapshot is a consistent view of the machine for rendering.
type Snapshot struct {
	Request        domain.SignupRequest
	State          State
	Error          string
	UpstreamStatus int
}

// Loading reports whether a submission is in flight.
func (s Snapshot) Loading() bool {
	return s.State == StatePending
}

// Option configures a Machine.
type Option func(*Machine)

// WithRequireToken turns a successful response without a token into an error.
func WithRequireToken(require bool) Option {
	return func(m *Machine) {
		m.requireToken = require
	}
}

// WithLogger sets the logger used for settled submissions.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides time.Now for activity tracking.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// Machine is the signup form state holder and submission handler for one session.
type Machine struct {
	gateway      Gateway
	storage      Storage
	requireToken bool
	logger       *zap.Logger
	now          func() time.Time

	mu             sync.Mutex
	form           Form
	state          State
	errMsg         string
	upstreamStatus int
	lastActivity   time.Time
}

// NewMachine builds an idle machine with an empty form.
func NewMachine(gateway Gateway, storage Storage, opts ...Option) *Machine {
	m := &Machine{
		gateway: gateway,
		storage: storage,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastActivity = m.now()
	return m
}

// SetField updates one form field.
func (m *Machine) SetField(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.form.SetField(name, value); err != nil {
		return err
	}
	m.lastActivity = m.now()
	return nil
}

// Request returns the current form values.
func (m *Machine) Request() domain.SignupRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form.Value()
}

// Loading reports whether a submission is in flight.
func (m *Machine) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StatePending
}

// Err returns the visible error, empty when there is none.
func (m *Machine) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Snapshot returns form values and flags read under one lock.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Request:        m.form.Value(),
		State:          m.state,
		Error:          m.errMsg,
		UpstreamStatus: m.upstreamStatus,
	}
}

// LastActivity is the time of the last field edit or submission.
func (m *Machine) LastActivity() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastActivity
}

// Submit sends the current form to the signup service.
//
// It returns ErrSubmissionPending without side effects when a submission is
// already in flight. Otherwise every failure is folded into a ShowError
// effect and the returned error is nil.
func (m *Machine) Submit(ctx context.Context) (effect Effect, err error) {
	m.mu.Lock()
	if m.state == StatePending {
		m.mu.Unlock()
		return nil, ErrSubmissionPending
	}
	m.state = StatePending
	m.errMsg = ""
	m.upstreamStatus = 0
	m.lastActivity = m.now()
	req := m.form.Value()
	m.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			effect = ShowError{Message: fmt.Sprint(r)}
		}
		m.settle(req, effect)
	}()

	return m.exchange(ctx, req), nil
}

func (m *Machine) exchange(ctx context.Context, req domain.SignupRequest) Effect {
	resp, err := m.gateway.Signup(ctx, req)
	if err != nil {
		return failure(err.Error())
	}

	m.mu.Lock()
	m.upstreamStatus = resp.Status
	m.mu.Unlock()

	rec, err := parseRecord(resp.Body)
	if err != nil {
		return failure("malformed signup response: " + err.Error())
	}

	if !resp.OK() {
		if msg := rec.text("error"); msg != "" {
			return ShowError{Message: msg}
		}
		return ShowError{Message: FallbackErrorMessage}
	}

	if rec == nil {
		return failure("malformed signup response: body is not a JSON object")
	}

	token := rec.text("token")
	if token == "" {
		if m.requireToken {
			return ShowError{Message: MissingTokenMessage}
		}
		m.logger.Warn("signup succeeded without a token", zap.String("email", req.Email), zap.Int("status", resp.Status))
	}

	if err := m.storage.Set(ctx, domain.TokenStorageKey, token); err != nil {
		return failure(err.Error())
	}
	return NavigateTo{Route: domain.RouteSettings}
}

func (m *Machine) settle(req domain.SignupRequest, effect Effect) {
	m.mu.Lock()
	m.state = StateIdle
	m.lastActivity = m.now()
	if e, ok := effect.(ShowError); ok {
		m.errMsg = e.Message
	}
	status := m.upstreamStatus
	m.mu.Unlock()

	switch e := effect.(type) {
	case NavigateTo:
		m.logger.Info("signup succeeded", zap.String("email", req.Email), zap.Int("status", status), zap.String("route", e.Route))
	case ShowError:
		m.logger.Info("signup failed", zap.String("email", req.Email), zap.Int("status", status), zap.String("error", e.Message))
	}
}

func failure(msg string) ShowError {
	if msg == "" {
		msg = FallbackErrorMessage
	}
	return ShowError{Message: msg}
}

type record map[string]any

// parseRecord treats an empty body as an empty record. Valid JSON that is
// not an object yields a nil record.
func parseRecord(body []byte) (record, error) {
	if len(body) == 0 {
		return record{}, nil
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	obj, _ := v.(map[string]any)
	return record(obj), nil
}

// text returns the field when it holds a JSON string.
func (r record) text(key string) string {
	s, _ := r[key].(string)
	return s
}
