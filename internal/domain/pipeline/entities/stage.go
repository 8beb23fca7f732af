package entities

// Stage names in evaluation order
const (
	StageSelfGate       = "self_gate"
	StagePresence       = "presence"
	StageLinkModeration = "link_moderation"
	StageBotModeration  = "bot_moderation"
	StageBannedWords    = "banned_words"
	StageAutoRespond    = "auto_respond"
	StageCommandGate    = "command_gate"
	StageRateLimit      = "rate_limit"
	StagePermission     = "permission"
	StageMenu           = "menu"
	StageDispatch       = "dispatch"
)

// Outcome of a single stage
const (
	OutcomeContinue = "continue"
	OutcomeStop     = "stop"
)

// Fixed replies
const (
	ReplyLinkRemoved = "❌ Links are not allowed in this group!"
	ReplyBotRemoved  = "🤖 Bot detected and removed!"
	ReplyBannedWord  = "⚠️ Your message contains banned words!"
	ReplyOwnerOnly   = "❌ This command is owner-only!"
)

// OwnerOnly lists commands reserved for the owner and moderators
var OwnerOnly = map[string]struct{}{
	"broadcast": {},
	"ban":       {},
	"unban":     {},
	"eval":      {},
	"exec":      {},
}
