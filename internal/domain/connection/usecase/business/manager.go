package business

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain/audit"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/entities"
	connerrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/errors"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/policy"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
)

const (
	// clientCloseTimeout bounds how long a finished attempt may take to release the client
	clientCloseTimeout = 10 * time.Second
	presenceTimeout    = 5 * time.Second
	eventBuffer        = 16
)

// Config holds connection manager settings
type Config struct {
	SessionID        string
	InitTimeout      time.Duration
	PresenceInterval time.Duration
	AlwaysOnline     bool
}

// Manager owns the single live connection. All state transitions happen on
// one event loop goroutine; Start and Status may be called concurrently.
type Manager struct {
	cfg      Config
	provider deps.SessionProvider
	client   deps.Client
	decide   func(entities.Reason) entities.Decision
	audit    audit.Publisher
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	mu          sync.Mutex
	status      entities.Status
	lastQR      string
	terminated  bool
	stopped     bool
	transitions []audit.Event

	baseCtx    context.Context
	baseCancel context.CancelFunc
	events     chan entities.Event
	startCh    chan struct{}
	stopCh     chan struct{}
	loopDone   chan struct{}
	stopOnce   sync.Once
	fatal      chan error
	bg         sync.WaitGroup

	// owned by the event loop
	attempt        int
	active         int
	runCancel      context.CancelFunc
	runDone        chan struct{}
	initTimer      *time.Timer
	reconnectTimer *time.Timer
	presence       *time.Ticker
}

var _ deps.ConnectionManager = (*Manager)(nil)

// NewManager creates a connection manager and starts its event loop
func NewManager(
	cfg Config,
	provider deps.SessionProvider,
	client deps.Client,
	publisher audit.Publisher,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Manager {
	if publisher == nil {
		publisher = audit.NopPublisher{}
	}

	baseCtx, baseCancel := context.WithCancel(context.Background())

	mgr := &Manager{
		cfg:        cfg,
		provider:   provider,
		client:     client,
		decide:     policy.Decide,
		audit:      publisher,
		metrics:    m,
		logger:     logger.With().Str("component", "connection_manager").Str("session_id", cfg.SessionID).Logger(),
		status:     entities.Status{State: entities.StateIdle, SessionID: cfg.SessionID, StateChangedAt: time.Now()},
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
		events:     make(chan entities.Event, eventBuffer),
		startCh:    make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
		loopDone:   make(chan struct{}),
		fatal:      make(chan error, 1),
	}

	go mgr.loop()

	return mgr
}

// Start begins a connection attempt. It is rejected while another attempt
// is in flight, after a terminal failure, or after Stop.
func (m *Manager) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.admit(); err != nil {
		return err
	}

	m.startCh <- struct{}{}
	return nil
}

// admit moves the state to connecting if a new attempt is allowed
func (m *Manager) admit() error {
	m.mu.Lock()
	defer m.unlock()

	switch {
	case m.stopped:
		return connerrors.ErrManagerStopped
	case m.terminated:
		return connerrors.ErrTerminated
	case m.status.State != entities.StateIdle && m.status.State != entities.StateClosed:
		return connerrors.ErrAttemptInFlight
	}

	m.setStateLocked(entities.StateConnecting)
	return nil
}

// Stop tears the connection down and releases every timer
func (m *Manager) Stop(ctx context.Context) error {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		m.stopped = true
		m.mu.Unlock()

		close(m.stopCh)
		m.baseCancel()
	})

	select {
	case <-m.loopDone:
	case <-ctx.Done():
		return fmt.Errorf("connection manager stop: %w", ctx.Err())
	}

	pushDone := make(chan struct{})
	go func() {
		m.bg.Wait()
		close(pushDone)
	}()

	select {
	case <-pushDone:
	case <-ctx.Done():
		return fmt.Errorf("connection manager stop: %w", ctx.Err())
	}

	m.logger.Info().Msg("Connection manager stopped")
	return nil
}

// Status returns a snapshot of the connection state
func (m *Manager) Status() entities.Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := m.status
	status.QRAvailable = m.status.State == entities.StateQRPending && m.lastQR != ""
	return status
}

// CurrentQR returns the pending login code payload
func (m *Manager) CurrentQR() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status.State != entities.StateQRPending || m.lastQR == "" {
		return "", connerrors.ErrNoQRCode
	}
	return m.lastQR, nil
}

// Fatal delivers the error that ended this process instance's connection
func (m *Manager) Fatal() <-chan error {
	return m.fatal
}

// HealthCheck reports whether messages can currently flow
func (m *Manager) HealthCheck(_ context.Context) (bool, string) {
	status := m.Status()
	if status.State == entities.StateReady {
		return true, ""
	}
	return false, fmt.Sprintf("connection is %s", status.State)
}

func (m *Manager) loop() {
	defer close(m.loopDone)

	for {
		select {
		case <-m.stopCh:
			m.teardown()
			return
		case <-m.startCh:
			m.beginAttempt()
		case ev := <-m.events:
			m.handle(ev)
		case <-timerC(m.initTimer):
			m.initTimer = nil
			m.onInitTimeout()
		case <-timerC(m.reconnectTimer):
			m.reconnectTimer = nil
			m.restart()
		case <-tickerC(m.presence):
			m.keepOnline()
		}
	}
}

func (m *Manager) beginAttempt() {
	stopTimer(&m.reconnectTimer)

	m.attempt++
	attempt := m.attempt

	m.mu.Lock()
	m.status.Attempts++
	m.lastQR = ""
	m.mu.Unlock()

	restored := m.resolveSession(m.baseCtx)
	if m.baseCtx.Err() != nil {
		return
	}

	m.mu.Lock()
	m.status.RestoredLogin = restored
	m.mu.Unlock()

	runCtx, cancel := context.WithCancel(m.baseCtx)
	done := make(chan struct{})

	m.active = attempt
	m.runCancel = cancel
	m.runDone = done
	m.initTimer = time.NewTimer(m.cfg.InitTimeout)

	emit := func(ev entities.Event) {
		select {
		case m.events <- ev.WithAttempt(attempt):
		case <-m.stopCh:
		}
	}

	m.logger.Info().
		Int("attempt", attempt).
		Bool("restored", restored).
		Msg("Connecting")

	go func() {
		defer close(done)
		err := m.client.Run(runCtx, m.cfg.SessionID, emit)
		if runCtx.Err() != nil {
			return
		}
		emit(entities.Disconnected(entities.ReasonOf(err), err))
	}()
}

// resolveSession restores the scanner's credential into the local store.
// It reports whether a credential was restored.
func (m *Manager) resolveSession(ctx context.Context) bool {
	session, err := m.provider.Fetch(ctx, m.cfg.SessionID)
	if err != nil {
		var invalid *pkgerrors.CredentialInvalidError
		if errors.As(err, &invalid) {
			m.logger.Warn().Err(err).Msg("No usable session, QR login required")
			m.provider.DeleteLocal(ctx, m.cfg.SessionID)
			return false
		}

		m.logger.Warn().Err(err).Msg("Scanner unavailable, continuing with local credential store")
		return false
	}

	if err := m.provider.PersistLocally(ctx, session); err != nil {
		// A credential left over from an earlier run must not be picked up instead.
		m.logger.Error().Err(err).Msg("Failed to restore session locally, QR login required")
		m.provider.DeleteLocal(ctx, m.cfg.SessionID)
		return false
	}

	return true
}

func (m *Manager) handle(ev entities.Event) {
	if ev.Attempt() != m.active || m.active == 0 {
		m.logger.Debug().
			Str("event", string(ev.Kind)).
			Int("attempt", ev.Attempt()).
			Msg("Dropping event from finished attempt")
		return
	}

	switch ev.Kind {
	case entities.EventQR:
		m.onQR(ev)
	case entities.EventAuthenticated:
		m.onAuthenticated(ev)
	case entities.EventReady:
		m.onReady(ev)
	case entities.EventDisconnected:
		m.onDisconnected(ev)
	case entities.EventAuthFailure:
		m.onAuthFailure(ev)
	default:
		m.logger.Warn().Str("event", string(ev.Kind)).Msg("Unknown lifecycle event")
	}
}

func (m *Manager) onQR(ev entities.Event) {
	m.mu.Lock()
	m.lastQR = ev.QR
	restored := m.status.RestoredLogin
	m.setStateLocked(entities.StateQRPending)
	m.unlock()

	if m.metrics != nil {
		m.metrics.QRPrompts.Inc()
	}

	if restored {
		m.logger.Warn().Msg("Restored session was not accepted, scan the QR code to log in")
	} else {
		m.logger.Info().Msg("Scan the QR code to log in")
	}
	m.logger.Info().Str("qr", ev.QR).Msg("QR code received")
}

func (m *Manager) onAuthenticated(ev entities.Event) {
	m.setState(entities.StateAuthenticating)
	m.logger.Info().Msg("Authentication successful")

	if len(ev.Credential) == 0 {
		return
	}

	m.bg.Add(1)
	go func(credential []byte) {
		defer m.bg.Done()
		if err := m.provider.Push(m.baseCtx, m.cfg.SessionID, credential); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to push credentials to scanner")
		}
	}(ev.Credential)
}

func (m *Manager) onReady(ev entities.Event) {
	stopTimer(&m.initTimer)

	m.mu.Lock()
	m.status.Identity = ev.Identity
	m.status.ReadySince = time.Now()
	m.status.LastError = ""
	m.setStateLocked(entities.StateReady)
	m.unlock()

	m.logger.Info().Str("identity", ev.Identity).Msg("Connection ready")

	if m.cfg.AlwaysOnline && m.cfg.PresenceInterval > 0 {
		m.presence = time.NewTicker(m.cfg.PresenceInterval)
		m.keepOnline()
	}
}

func (m *Manager) onDisconnected(ev entities.Event) {
	m.endAttempt()
	m.setClosed(ev.Reason, ev.Err)

	if m.metrics != nil {
		m.metrics.RecordDisconnect(string(ev.Reason))
	}

	decision := m.decide(ev.Reason)

	m.logger.Warn().
		Err(ev.Err).
		Str("reason", string(ev.Reason)).
		Str("action", string(decision.Action)).
		Dur("delay", decision.Delay).
		Msg("Disconnected")

	switch decision.Action {
	case entities.ActionTerminal:
		m.provider.DeleteLocal(m.baseCtx, m.cfg.SessionID)
		m.terminate(fmt.Errorf("%w: %s", connerrors.ErrLoggedOut, ev.Reason))
	case entities.ActionDeleteCredentialAndRetry:
		m.provider.DeleteLocal(m.baseCtx, m.cfg.SessionID)
		m.scheduleReconnect(0)
	default:
		m.scheduleReconnect(decision.Delay)
	}
}

func (m *Manager) onAuthFailure(ev entities.Event) {
	m.endAttempt()
	m.setClosed("", errors.New(ev.Message))

	m.logger.Error().Str("message", ev.Message).Msg("Authentication failure, deleting local session")

	m.provider.DeleteLocal(m.baseCtx, m.cfg.SessionID)
	m.terminate(fmt.Errorf("%w: %s", connerrors.ErrAuthFailure, ev.Message))
}

func (m *Manager) onInitTimeout() {
	if m.active == 0 {
		return
	}

	m.endAttempt()
	m.setClosed("", connerrors.ErrInitializationTimeout)
	m.terminate(fmt.Errorf("%w after %s", connerrors.ErrInitializationTimeout, m.cfg.InitTimeout))
}

func (m *Manager) scheduleReconnect(delay time.Duration) {
	if delay <= 0 {
		m.restart()
		return
	}
	m.reconnectTimer = time.NewTimer(delay)
}

// restart re-enters the same admission path as Start
func (m *Manager) restart() {
	if err := m.admit(); err != nil {
		m.logger.Debug().Err(err).Msg("Reconnect skipped")
		return
	}
	m.beginAttempt()
}

// endAttempt cancels the running client and clears attempt timers
func (m *Manager) endAttempt() {
	m.active = 0
	stopTimer(&m.initTimer)
	if m.presence != nil {
		m.presence.Stop()
		m.presence = nil
	}

	if m.runCancel != nil {
		m.runCancel()
		m.runCancel = nil
	}

	if m.runDone != nil {
		select {
		case <-m.runDone:
		case <-time.After(clientCloseTimeout):
			m.logger.Warn().Msg("Timeout waiting for client to close")
		}
		m.runDone = nil
	}
}

func (m *Manager) teardown() {
	m.endAttempt()
	stopTimer(&m.reconnectTimer)
	m.setState(entities.StateClosed)
}

func (m *Manager) keepOnline() {
	ctx, cancel := context.WithTimeout(m.baseCtx, presenceTimeout)
	defer cancel()

	if err := m.client.SetOnline(ctx); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to update online presence")
	}
}

func (m *Manager) terminate(err error) {
	m.mu.Lock()
	m.terminated = true
	m.status.LastError = err.Error()
	m.mu.Unlock()

	m.logger.Error().Err(err).Msg("Connection terminated, process restart required")

	select {
	case m.fatal <- err:
	default:
	}
}

func (m *Manager) setClosed(reason entities.Reason, err error) {
	m.mu.Lock()
	defer m.unlock()

	m.status.LastReason = reason
	if err != nil {
		m.status.LastError = err.Error()
	}
	m.status.Identity = ""
	m.setStateLocked(entities.StateClosed)
}

func (m *Manager) setState(state entities.State) {
	m.mu.Lock()
	defer m.unlock()
	m.setStateLocked(state)
}

// unlock releases m.mu and then publishes the transitions recorded while it
// was held, so a slow audit sink never blocks Status readers.
func (m *Manager) unlock() {
	pending := m.transitions
	m.transitions = nil
	m.mu.Unlock()

	for _, event := range pending {
		m.audit.Publish(m.baseCtx, event)
	}
}

func (m *Manager) setStateLocked(state entities.State) {
	if m.status.State == state {
		return
	}

	previous := m.status.State
	m.status.State = state
	m.status.StateChangedAt = time.Now()

	if m.metrics != nil {
		m.metrics.SetConnectionState(string(state), entities.StateNames())
	}

	event := audit.NewEvent(audit.EventConnection, "", "")
	event.Attributes = map[string]string{"from": string(previous), "to": string(state)}
	m.transitions = append(m.transitions, event)

	m.logger.Debug().
		Str("from", string(previous)).
		Str("to", string(state)).
		Msg("Connection state changed")
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func tickerC(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func stopTimer(t **time.Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
