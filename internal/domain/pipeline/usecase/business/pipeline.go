package business

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/audit"
	dispatchdeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/dispatch/deps"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/pipeline/entities"
	"github.com/SAVX-BOY/dead-x-bot/internal/domain/pipeline/menu"
	ratelimitdeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/ratelimit/deps"
	settingsdeps "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/deps"
	settingsentities "github.com/SAVX-BOY/dead-x-bot/internal/domain/settings/entities"
	"github.com/SAVX-BOY/dead-x-bot/internal/infrastructure/metrics"
)

var (
	linkPattern  = regexp.MustCompile(`(?i)(https?://[^\s]+|www\.[^\s]+|\w+\.(com|net|org|io|co|app|gg|xyz|me|tv|cc)[^\s]*)`)
	spacePattern = regexp.MustCompile(` +`)
)

// Config holds pipeline behaviour that does not change per chat
type Config struct {
	Prefix    string
	SelfMode  bool
	BotName   string
	Developer string

	RateLimitEnabled bool
	RateLimitMessage string

	Privileges domain.Privileges

	// Menu banner images by period name; an empty URL sends text only
	MenuImages map[string]string
}

// Params groups pipeline collaborators
type Params struct {
	Chat       domain.ChatClient
	Settings   settingsdeps.Store
	Limiter    ratelimitdeps.Limiter
	Dispatcher dispatchdeps.Dispatcher
	Catalog    *menu.Catalog
	Images     dispatchdeps.MediaFetcher
	Audit      audit.Publisher
	Metrics    *metrics.Metrics
}

type stage struct {
	name string
	run  func(ctx context.Context, r *run) bool
}

// run is the state of one message travelling through the stages
type run struct {
	msg      domain.Message
	settings settingsentities.Settings
	command  string
	args     []string
	log      zerolog.Logger
}

// Pipeline routes every inbound message through the ordered stages.
// The first stage that returns true ends processing.
type Pipeline struct {
	cfg        Config
	chat       domain.ChatClient
	settings   settingsdeps.Store
	limiter    ratelimitdeps.Limiter
	dispatcher dispatchdeps.Dispatcher
	catalog    *menu.Catalog
	images     dispatchdeps.MediaFetcher
	audit      audit.Publisher
	metrics    *metrics.Metrics
	now        func() time.Time
	stages     []stage
	logger     zerolog.Logger
}

var _ domain.MessageHandler = (*Pipeline)(nil)

// NewPipeline creates a new message pipeline
func NewPipeline(cfg Config, p Params, logger zerolog.Logger) *Pipeline {
	if p.Audit == nil {
		p.Audit = audit.NopPublisher{}
	}

	pl := &Pipeline{
		cfg:        cfg,
		chat:       p.Chat,
		settings:   p.Settings,
		limiter:    p.Limiter,
		dispatcher: p.Dispatcher,
		catalog:    p.Catalog,
		images:     p.Images,
		audit:      p.Audit,
		metrics:    p.Metrics,
		now:        time.Now,
		logger:     logger.With().Str("component", "pipeline").Logger(),
	}

	pl.stages = []stage{
		{entities.StageSelfGate, pl.selfGate},
		{entities.StagePresence, pl.presence},
		{entities.StageLinkModeration, pl.linkModeration},
		{entities.StageBotModeration, pl.botModeration},
		{entities.StageBannedWords, pl.bannedWords},
		{entities.StageAutoRespond, pl.autoRespond},
		{entities.StageCommandGate, pl.commandGate},
		{entities.StageRateLimit, pl.rateLimit},
		{entities.StagePermission, pl.permission},
		{entities.StageMenu, pl.showMenu},
		{entities.StageDispatch, pl.dispatch},
	}

	return pl
}

// Stages returns the stage names in evaluation order
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// HandleMessage implements domain.MessageHandler
func (p *Pipeline) HandleMessage(ctx context.Context, msg domain.Message) {
	r := &run{
		msg: msg,
		log: p.logger.With().
			Str("chat_id", msg.ChatID).
			Str("sender_id", msg.SenderID).
			Int("message_id", msg.ID).
			Logger(),
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("Pipeline panicked")
		}
	}()

	if p.metrics != nil {
		p.metrics.PipelineMessages.Inc()
	}

	for i, s := range p.stages {
		// Settings are needed from the presence stage on.
		if i == 1 {
			r.settings = p.loadSettings(ctx, r)
		}

		stop := s.run(ctx, r)
		p.record(s.name, stop)
		if !stop {
			continue
		}

		r.log.Debug().Str("stage", s.name).Msg("Pipeline stopped")
		if i > 1 {
			p.clearState(ctx, r)
		}
		return
	}
}

func (p *Pipeline) loadSettings(ctx context.Context, r *run) settingsentities.Settings {
	s, err := p.settings.Get(ctx, r.msg.ChatID)
	if err != nil {
		// Get still returns usable defaults on failure.
		r.log.Error().Err(err).Msg("Failed to load chat settings, using defaults")
	}
	return s
}

func (p *Pipeline) record(name string, stop bool) {
	if p.metrics == nil {
		return
	}
	outcome := entities.OutcomeContinue
	if stop {
		outcome = entities.OutcomeStop
	}
	p.metrics.RecordStage(name, outcome)
}

func (p *Pipeline) selfGate(_ context.Context, r *run) bool {
	if r.msg.Body == "" {
		return true
	}
	return r.msg.FromMe && !p.cfg.SelfMode
}

func (p *Pipeline) presence(ctx context.Context, r *run) bool {
	if !p.isCommand(r.msg.Body) {
		return false
	}
	if r.settings.AutoTyping {
		p.setPresence(ctx, r, domain.PresenceTyping)
	}
	if r.settings.AutoRecording && r.msg.HasMedia {
		p.setPresence(ctx, r, domain.PresenceRecording)
	}
	return false
}

func (p *Pipeline) linkModeration(ctx context.Context, r *run) bool {
	if !r.settings.AntiLink || !r.msg.IsGroup || r.msg.FromMe {
		return false
	}
	if !linkPattern.MatchString(r.msg.Body) {
		return false
	}

	if err := p.chat.DeleteMessage(ctx, r.msg.ChatID, r.msg.ID); err != nil {
		r.log.Error().Err(err).Msg("Failed to delete message with link")
	}
	p.send(ctx, r, entities.ReplyLinkRemoved, 0)
	p.publish(ctx, r, audit.EventLinkRemoved, "")

	r.log.Info().Msg("Link removed")
	return true
}

func (p *Pipeline) botModeration(ctx context.Context, r *run) bool {
	if !r.settings.AntiBot || !r.msg.IsGroup || !r.msg.SenderIsLinkedDevice {
		return false
	}

	if err := p.chat.RemoveParticipant(ctx, r.msg.ChatID, r.msg.SenderID); err != nil {
		r.log.Error().Err(err).Msg("Failed to remove bot participant")
	}
	p.send(ctx, r, entities.ReplyBotRemoved, 0)
	p.publish(ctx, r, audit.EventBotRemoved, "")

	r.log.Info().Msg("Bot removed")
	return true
}

func (p *Pipeline) bannedWords(ctx context.Context, r *run) bool {
	if len(r.settings.BannedWords) == 0 || r.msg.FromMe {
		return false
	}

	body := strings.ToLower(r.msg.Body)
	matched := ""
	for _, word := range r.settings.BannedWords {
		w := strings.ToLower(word)
		if w != "" && strings.Contains(body, w) {
			matched = w
			break
		}
	}
	if matched == "" {
		return false
	}

	if err := p.chat.DeleteMessage(ctx, r.msg.ChatID, r.msg.ID); err != nil {
		r.log.Error().Err(err).Msg("Failed to delete message with banned word")
	}
	p.send(ctx, r, entities.ReplyBannedWord, 0)
	p.publish(ctx, r, audit.EventBannedWord, matched)

	r.log.Info().Str("word", matched).Msg("Banned word removed")
	return true
}

func (p *Pipeline) autoRespond(ctx context.Context, r *run) bool {
	if !r.settings.AutoRespond || len(r.settings.AutoRespondTriggers) == 0 {
		return false
	}

	body := strings.ToLower(strings.TrimSpace(r.msg.Body))
	for _, t := range r.settings.Triggers() {
		trigger := strings.ToLower(t.Trigger)
		if trigger == "" || !strings.Contains(body, trigger) {
			continue
		}

		p.send(ctx, r, t.Response, r.msg.ID)
		p.publish(ctx, r, audit.EventAutoResponded, trigger)
		return true
	}
	return false
}

func (p *Pipeline) commandGate(_ context.Context, r *run) bool {
	if !p.isCommand(r.msg.Body) {
		return true
	}

	fields := spacePattern.Split(strings.TrimSpace(r.msg.Body[len(p.cfg.Prefix):]), -1)
	r.command = strings.ToLower(fields[0])
	r.args = fields[1:]

	return r.command == ""
}

func (p *Pipeline) rateLimit(ctx context.Context, r *run) bool {
	if !p.cfg.RateLimitEnabled || !p.limiter.CheckAndRecord(r.msg.SenderID) {
		return false
	}

	if p.metrics != nil {
		p.metrics.RateLimited.Inc()
	}
	p.send(ctx, r, p.cfg.RateLimitMessage, r.msg.ID)
	p.publish(ctx, r, audit.EventCommandLimited, "")

	r.log.Warn().Str("command", r.command).Msg("Command rate limited")
	return true
}

func (p *Pipeline) permission(ctx context.Context, r *run) bool {
	if _, restricted := entities.OwnerOnly[r.command]; !restricted {
		return false
	}
	if p.cfg.Privileges.Allows(r.msg.SenderID) {
		return false
	}

	p.send(ctx, r, entities.ReplyOwnerOnly, r.msg.ID)
	p.publish(ctx, r, audit.EventCommandDenied, "")

	r.log.Warn().Str("command", r.command).Msg("Owner-only command denied")
	return true
}

func (p *Pipeline) showMenu(ctx context.Context, r *run) bool {
	name, ok := menu.Lookup(r.command)
	if !ok || p.catalog == nil || !p.catalog.Has(name) {
		return false
	}

	period := menu.PeriodAt(p.now())
	text, err := p.catalog.Render(name, menu.Data{
		Prefix:    p.cfg.Prefix,
		BotName:   p.cfg.BotName,
		Developer: p.cfg.Developer,
		Period:    period,
	})
	if err != nil {
		r.log.Error().Err(err).Str("menu", name).Msg("Failed to render menu")
		return true
	}

	if err := p.sendMenuImage(ctx, r, period, text); err != nil {
		r.log.Warn().Err(err).Str("menu", name).Msg("Menu image unavailable, sending text")
		p.send(ctx, r, text, r.msg.ID)
	}
	return true
}

func (p *Pipeline) sendMenuImage(ctx context.Context, r *run, period menu.Period, text string) error {
	url := p.cfg.MenuImages[period.Name]
	if url == "" || p.images == nil {
		return fmt.Errorf("no image for %s", period.Name)
	}

	media, err := p.images.Fetch(ctx, menuImage(url, text))
	if err != nil {
		return err
	}
	return p.chat.SendMedia(ctx, r.msg.ChatID, *media, r.msg.ID)
}

func (p *Pipeline) dispatch(ctx context.Context, r *run) bool {
	err := p.dispatcher.Dispatch(ctx, commandOf(r))
	if err != nil {
		r.log.Warn().Err(err).Str("command", r.command).Msg("Command failed")
	}
	return true
}

func (p *Pipeline) isCommand(body string) bool {
	return p.cfg.Prefix != "" && strings.HasPrefix(body, p.cfg.Prefix)
}

func (p *Pipeline) setPresence(ctx context.Context, r *run, presence domain.Presence) {
	if err := p.chat.SetPresence(ctx, r.msg.ChatID, presence); err != nil {
		r.log.Debug().Err(err).Str("presence", string(presence)).Msg("Failed to set presence")
	}
}

// clearState resets any chat action started by the presence stage
func (p *Pipeline) clearState(ctx context.Context, r *run) {
	if !r.settings.AutoTyping && !r.settings.AutoRecording {
		return
	}
	p.setPresence(ctx, r, domain.PresencePaused)
}

func (p *Pipeline) send(ctx context.Context, r *run, text string, replyTo int) {
	if text == "" {
		return
	}
	if err := p.chat.SendText(ctx, r.msg.ChatID, text, replyTo); err != nil {
		r.log.Error().Err(err).Msg("Failed to send reply")
	}
}

func (p *Pipeline) publish(ctx context.Context, r *run, eventType audit.EventType, detail string) {
	event := audit.NewEvent(eventType, r.msg.ChatID, r.msg.SenderID)
	event.Command = r.command
	event.Detail = detail
	p.audit.Publish(ctx, event)
}
