package telegram

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth/qrlogin"
	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/updates"
	updhook "github.com/gotd/td/telegram/updates/hook"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/connection/entities"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
)

// Config holds MTProto client settings
type Config struct {
	APIID     int
	APIHash   string
	Password  string
	RateLimit float64
	RateBurst int
}

// Client drives one MTProto user session. It implements the connection
// manager's client boundary and the chat operations used by the pipeline.
type Client struct {
	cfg      Config
	store    CredentialStore
	peers    *peerCache
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	handler  atomic.Pointer[domain.MessageHandler]
	inflight sync.WaitGroup

	mu       sync.RWMutex
	api      *tg.Client
	sender   *message.Sender
	uploader *uploader.Uploader
	self     string
}

var (
	_ deps.Client          = (*Client)(nil)
	_ domain.ChatClient    = (*Client)(nil)
	_ domain.ChatDirectory = (*Client)(nil)
)

// NewClient creates a new MTProto client
func NewClient(cfg Config, store CredentialStore, m *metrics.Metrics, logger zerolog.Logger) (*Client, error) {
	if cfg.APIID == 0 {
		return nil, fmt.Errorf("APIID is required")
	}
	if cfg.APIHash == "" {
		return nil, fmt.Errorf("APIHash is required")
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 20
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 5
	}

	return &Client{
		cfg:     cfg,
		store:   store,
		peers:   newPeerCache(),
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		metrics: m,
		logger:  logger.With().Str("component", "mtproto_client").Logger(),
	}, nil
}

// SetHandler registers the receiver of inbound messages
func (c *Client) SetHandler(h domain.MessageHandler) {
	c.handler.Store(&h)
}

// SelfIdentity returns the logged-in account identity
func (c *Client) SelfIdentity() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.self
}

// Run connects, logs in by stored session or QR code, and blocks until ctx
// is cancelled or the connection fails. Lifecycle signals go to emit.
func (c *Client) Run(ctx context.Context, sessionID string, emit deps.Emitter) error {
	dispatcher := tg.NewUpdateDispatcher()
	loggedIn := qrlogin.OnLoginToken(dispatcher)
	c.registerHandlers(dispatcher)

	gaps := updates.New(updates.Config{Handler: dispatcher})

	client := telegram.NewClient(c.cfg.APIID, c.cfg.APIHash, telegram.Options{
		SessionStorage: c.store.Storage(sessionID),
		UpdateHandler:  routeUpdates(dispatcher, gaps),
		Middlewares: []telegram.Middleware{
			c.throttle(),
			updhook.UpdateHook(gaps.Handle),
		},
	})

	c.logger.Info().Str("session_id", sessionID).Msg("Connecting to Telegram")

	err := client.Run(ctx, func(ctx context.Context) error {
		if err := c.authorize(ctx, client, sessionID, loggedIn, emit); err != nil {
			return err
		}

		self, err := client.Self(ctx)
		if err != nil {
			return fmt.Errorf("failed to get self: %w", err)
		}

		c.attach(client.API(), self)
		defer c.detach()

		return gaps.Run(ctx, client.API(), self.ID, updates.AuthOptions{
			OnStart: func(ctx context.Context) {
				emit(entities.Ready(domain.Identity(domain.KindUser, self.ID)))
			},
		})
	})

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return classify(err)
}

func (c *Client) authorize(
	ctx context.Context,
	client *telegram.Client,
	sessionID string,
	loggedIn qrlogin.LoggedIn,
	emit deps.Emitter,
) error {
	status, err := client.Auth().Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to check auth status: %w", err)
	}

	if status.Authorized {
		c.logger.Info().Msg("Session restored from storage")
	} else {
		c.logger.Info().Msg("Not authorized, starting QR login")

		_, err := client.QR().Auth(ctx, loggedIn, func(ctx context.Context, token qrlogin.Token) error {
			emit(entities.QR(token.URL()))
			return nil
		})
		if tgerr.Is(err, "SESSION_PASSWORD_NEEDED") {
			err = c.submitPassword(ctx, client, emit)
		}
		if err != nil {
			return err
		}
	}

	credential, err := c.store.Load(ctx, sessionID)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Authenticated but credential could not be read back")
	}
	emit(entities.Authenticated(credential))

	return nil
}

func (c *Client) submitPassword(ctx context.Context, client *telegram.Client, emit deps.Emitter) error {
	if c.cfg.Password == "" {
		emit(entities.AuthFailure("two-factor password required but TELEGRAM_PASSWORD is not set"))
		return errAuthFailureReported
	}

	c.logger.Info().Msg("Submitting two-factor password")

	if _, err := client.Auth().Password(ctx, c.cfg.Password); err != nil {
		emit(entities.AuthFailure(fmt.Sprintf("two-factor login failed: %v", err)))
		return errAuthFailureReported
	}
	return nil
}

// SetOnline marks the account online
func (c *Client) SetOnline(ctx context.Context) error {
	api, _, err := c.conn()
	if err != nil {
		return err
	}
	_, err = api.AccountUpdateStatus(ctx, false)
	return err
}

func (c *Client) attach(api *tg.Client, self *tg.User) {
	c.peers.addUser(self)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.api = api
	c.sender = message.NewSender(api)
	c.uploader = uploader.NewUploader(api)
	c.self = domain.Identity(domain.KindUser, self.ID)
}

func (c *Client) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.api = nil
	c.sender = nil
	c.uploader = nil
}

func (c *Client) conn() (*tg.Client, *message.Sender, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.api == nil {
		return nil, nil, domain.ErrNotConnected
	}
	return c.api, c.sender, nil
}

// throttle bounds the outbound request rate
func (c *Client) throttle() telegram.Middleware {
	return telegram.MiddlewareFunc(func(next tg.Invoker) telegram.InvokeFunc {
		return func(ctx context.Context, input bin.Encoder, output bin.Decoder) error {
			if !c.limiter.Allow() {
				if c.metrics != nil {
					c.metrics.ChatAPIThrottled.Inc()
				}
				if err := c.limiter.Wait(ctx); err != nil {
					return fmt.Errorf("rate limit wait cancelled: %w", err)
				}
			}
			return next.Invoke(ctx, input, output)
		}
	})
}

// routeUpdates sends login tokens straight to the dispatcher, since the gap
// manager only starts after login, and everything else through the gap manager
func routeUpdates(d tg.UpdateDispatcher, gaps *updates.Manager) telegram.UpdateHandler {
	return telegram.UpdateHandlerFunc(func(ctx context.Context, u tg.UpdatesClass) error {
		if short, ok := u.(*tg.UpdateShort); ok {
			if _, ok := short.Update.(*tg.UpdateLoginToken); ok {
				return d.Handle(ctx, u)
			}
		}
		return gaps.Handle(ctx, u)
	})
}
