package business

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/audit"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/dto"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/entities"
	dispatcherrors "github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/errors"
	settingsentities "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
	pkgerrors "github.com/SAVX-BOY/dead-x-bot/pkg/errors"
)

const defaultFailure = "Command failed"

// Dispatcher implements deps.Dispatcher
type Dispatcher struct {
	chat       domain.ChatClient
	directory  domain.ChatDirectory
	executor   deps.Executor
	media      deps.MediaFetcher
	activity   deps.ActivityRecorder
	privileges domain.Privileges
	audit      audit.Publisher
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

var _ deps.Dispatcher = (*Dispatcher)(nil)

// Params groups dispatcher collaborators
type Params struct {
	Chat       domain.ChatClient
	Directory  domain.ChatDirectory
	Executor   deps.Executor
	Media      deps.MediaFetcher
	Activity   deps.ActivityRecorder
	Privileges domain.Privileges
	Audit      audit.Publisher
	Metrics    *metrics.Metrics
}

// NewDispatcher creates a new command dispatcher
func NewDispatcher(p Params, logger zerolog.Logger) *Dispatcher {
	if p.Audit == nil {
		p.Audit = audit.NopPublisher{}
	}
	return &Dispatcher{
		chat:       p.Chat,
		directory:  p.Directory,
		executor:   p.Executor,
		media:      p.Media,
		activity:   p.Activity,
		privileges: p.Privileges,
		audit:      p.Audit,
		metrics:    p.Metrics,
		logger:     logger.With().Str("component", "dispatcher").Logger(),
	}
}

// BuildContext gathers everything the executor may need about msg. Each
// lookup is optional; a failed lookup is logged and left out.
func (d *Dispatcher) BuildContext(ctx context.Context, msg domain.Message, settings settingsentities.Settings) entities.CommandContext {
	cc := entities.CommandContext{
		From:        msg.ChatID,
		Author:      msg.SenderID,
		Sender:      msg.SenderID,
		IsGroup:     msg.IsGroup,
		ChatID:      msg.ChatID,
		MessageID:   msg.ID,
		Timestamp:   msg.Timestamp.Unix(),
		HasMedia:    msg.HasMedia,
		HasQuoted:   msg.HasQuoted,
		IsForwarded: msg.IsForwarded,
		IsOwner:     d.privileges.Allows(msg.SenderID),
		Settings:    settings.Clone(),
	}
	if msg.IsGroup {
		groupID := msg.ChatID
		cc.GroupID = &groupID
	}

	log := d.logger.With().Str("chat", msg.ChatID).Str("sender", msg.SenderID).Logger()

	var g errgroup.Group

	if msg.IsGroup {
		g.Go(func() error {
			isAdmin, err := d.directory.IsAdmin(ctx, msg.ChatID, msg.SenderID)
			if err != nil {
				log.Debug().Err(err).Msg("admin lookup failed")
				return nil
			}
			cc.IsAdmin = isAdmin
			return nil
		})

		if self := d.directory.SelfIdentity(); self != "" {
			g.Go(func() error {
				isAdmin, err := d.directory.IsAdmin(ctx, msg.ChatID, self)
				if err != nil {
					log.Debug().Err(err).Msg("bot admin lookup failed")
					return nil
				}
				cc.BotIsAdmin = isAdmin
				return nil
			})
		}

		g.Go(func() error {
			group, err := d.directory.GetGroup(ctx, msg.ChatID)
			if err != nil {
				log.Debug().Err(err).Msg("group lookup failed")
				return nil
			}
			cc.Group = group
			return nil
		})
	}

	if msg.HasQuoted && msg.QuotedID != 0 {
		g.Go(func() error {
			quoted, err := d.directory.GetQuoted(ctx, msg.ChatID, msg.QuotedID)
			if err != nil {
				log.Debug().Err(err).Int("quoted_id", msg.QuotedID).Msg("quoted message lookup failed")
				return nil
			}
			cc.Quoted = quoted
			return nil
		})
	}

	if kind, _, err := domain.ParseIdentity(msg.SenderID); err == nil && kind == domain.KindUser {
		g.Go(func() error {
			contact, err := d.directory.GetContact(ctx, msg.SenderID)
			if err != nil {
				log.Debug().Err(err).Msg("contact lookup failed")
				return nil
			}
			cc.Contact = contact
			return nil
		})
	}

	_ = g.Wait()
	return cc
}

// Dispatch runs cmd on the executor and replies with the outcome
func (d *Dispatcher) Dispatch(ctx context.Context, cmd entities.Command) error {
	requestID := uuid.NewString()
	msg := cmd.Message

	log := d.logger.With().
		Str("request_id", requestID).
		Str("command", cmd.Name).
		Str("chat", msg.ChatID).
		Str("sender", msg.SenderID).
		Logger()

	args := cmd.Args
	if args == nil {
		args = []string{}
	}

	req := dto.ExecuteRequest{
		Function: cmd.Name,
		Args:     args,
		Context:  d.BuildContext(ctx, msg, cmd.Settings),
	}

	log.Info().Strs("args", args).Msg("Dispatching command")

	start := time.Now()
	result, err := d.executor.Execute(ctx, requestID, req)
	elapsed := time.Since(start)

	d.recordActivity(ctx, msg, log)

	if err != nil {
		d.record(outcomeOf(err), elapsed)
		log.Warn().Err(err).Dur("elapsed", elapsed).Msg("Command execution failed")
		d.publish(ctx, audit.EventDispatchFailure, cmd, err.Error())
		d.reply(ctx, msg, "❌ "+err.Error(), log)
		return err
	}

	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = defaultFailure
		}
		d.record("failure", elapsed)
		log.Info().Str("reason", reason).Dur("elapsed", elapsed).Msg("Command reported failure")
		d.publish(ctx, audit.EventDispatchFailure, cmd, reason)
		d.reply(ctx, msg, "❌ "+reason, log)
		return pkgerrors.NewRemoteApplicationError(reason)
	}

	d.record("success", elapsed)
	log.Info().Dur("elapsed", elapsed).Bool("media", result.HasMedia()).Msg("Command executed")
	d.publish(ctx, audit.EventDispatchSuccess, cmd, "")

	switch {
	case result.HasMedia():
		d.relayMedia(ctx, msg, result, log)
	case result.Message != "":
		d.reply(ctx, msg, result.Message, log)
	}

	return nil
}

// relayMedia sends the attachment of result. When that fails the text of the
// result is still delivered with a failure note.
func (d *Dispatcher) relayMedia(ctx context.Context, msg domain.Message, result *entities.Result, log zerolog.Logger) {
	media, err := d.media.Fetch(ctx, result)
	if err == nil {
		err = d.chat.SendMedia(ctx, msg.ChatID, *media, msg.ID)
	}
	if err == nil {
		return
	}

	if d.metrics != nil {
		d.metrics.MediaRelayErrors.Inc()
	}
	log.Error().Err(err).Msg("Failed to relay media")
	d.reply(ctx, msg, fmt.Sprintf("✅ %s\n\n❌ Failed to send media: %s", result.Message, err.Error()), log)
}

func (d *Dispatcher) reply(ctx context.Context, msg domain.Message, text string, log zerolog.Logger) {
	if err := d.chat.SendText(ctx, msg.ChatID, text, msg.ID); err != nil {
		log.Error().Err(err).Msg("Failed to send reply")
	}
}

func (d *Dispatcher) recordActivity(ctx context.Context, msg domain.Message, log zerolog.Logger) {
	if !msg.IsGroup || d.activity == nil {
		return
	}
	if err := d.activity.RecordActivity(ctx, msg.ChatID); err != nil {
		log.Warn().Err(err).Msg("Failed to record group activity")
	}
}

func (d *Dispatcher) publish(ctx context.Context, eventType audit.EventType, cmd entities.Command, detail string) {
	event := audit.NewEvent(eventType, cmd.Message.ChatID, cmd.Message.SenderID)
	event.Command = cmd.Name
	event.Detail = detail
	d.audit.Publish(ctx, event)
}

func (d *Dispatcher) record(outcome string, elapsed time.Duration) {
	if d.metrics != nil {
		d.metrics.RecordDispatch(outcome, elapsed.Seconds())
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, dispatcherrors.ErrExecutorTimeout):
		return "timeout"
	case errors.Is(err, dispatcherrors.ErrExecutorRefused):
		return "refused"
	}

	var remote *pkgerrors.RemoteApplicationError
	if errors.As(err, &remote) {
		return "remote_error"
	}
	return "transport_error"
}
