package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/gotd/td/tg"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
)

// Membership actions reported for group participant updates
const (
	memberJoined  = "join"
	memberLeft    = "leave"
	memberChanged = "update"
)

// memberChange is a participant joining or leaving a group
type memberChange struct {
	chatID string
	userID string
	action string
}

// registerHandlers routes new messages from the dispatcher to the message
// handler and logs group membership changes
func (c *Client) registerHandlers(d tg.UpdateDispatcher) {
	d.OnNewMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewMessage) error {
		c.onMessage(ctx, e, u.Message)
		return nil
	})
	d.OnNewChannelMessage(func(ctx context.Context, e tg.Entities, u *tg.UpdateNewChannelMessage) error {
		c.onMessage(ctx, e, u.Message)
		return nil
	})

	d.OnChatParticipantAdd(func(_ context.Context, e tg.Entities, u *tg.UpdateChatParticipantAdd) error {
		c.onMemberChange(e, memberChange{
			chatID: domain.Identity(domain.KindGroup, u.ChatID),
			userID: domain.Identity(domain.KindUser, u.UserID),
			action: memberJoined,
		})
		return nil
	})
	d.OnChatParticipantDelete(func(_ context.Context, e tg.Entities, u *tg.UpdateChatParticipantDelete) error {
		c.onMemberChange(e, memberChange{
			chatID: domain.Identity(domain.KindGroup, u.ChatID),
			userID: domain.Identity(domain.KindUser, u.UserID),
			action: memberLeft,
		})
		return nil
	})
	d.OnChannelParticipant(func(_ context.Context, e tg.Entities, u *tg.UpdateChannelParticipant) error {
		c.onMemberChange(e, channelMemberChange(u))
		return nil
	})
}

func channelMemberChange(u *tg.UpdateChannelParticipant) memberChange {
	_, hadPrev := u.GetPrevParticipant()
	next, hasNext := u.GetNewParticipant()

	action := memberChanged
	switch {
	case !hadPrev && hasNext:
		action = memberJoined
	case hadPrev && !hasNext:
		action = memberLeft
	case hasNext:
		switch next.(type) {
		case *tg.ChannelParticipantLeft, *tg.ChannelParticipantBanned:
			action = memberLeft
		}
	}

	return memberChange{
		chatID: domain.Identity(domain.KindChannel, u.ChannelID),
		userID: domain.Identity(domain.KindUser, u.UserID),
		action: action,
	}
}

func (c *Client) onMemberChange(e tg.Entities, change memberChange) {
	c.peers.apply(e)
	c.logger.Debug().
		Str("chat", change.chatID).
		Str("user", change.userID).
		Str("action", change.action).
		Msg("Group participants changed")
}

func (c *Client) onMessage(ctx context.Context, e tg.Entities, raw tg.MessageClass) {
	c.peers.apply(e)

	msg, ok := raw.(*tg.Message)
	if !ok {
		return
	}

	converted, ok := toMessage(c.peers, c.SelfIdentity(), msg)
	if !ok {
		c.logger.Debug().Int("message_id", msg.ID).Msg("Skipping message with unknown peer")
		return
	}

	handler := c.handler.Load()
	if handler == nil {
		c.logger.Debug().Msg("No message handler registered, dropping message")
		return
	}

	// Messages are processed concurrently; the update loop never waits on a
	// pipeline run. Drain waits for the runs still in flight at shutdown.
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error().
					Interface("panic", r).
					Str("chat", converted.ChatID).
					Int("message_id", converted.ID).
					Msg("Message handler panicked")
			}
		}()
		(*handler).HandleMessage(context.WithoutCancel(ctx), converted)
	}()
}

// Drain waits for in-flight message handlers to return
func (c *Client) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Debug().Msg("Message handlers drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to drain message handlers: %w", ctx.Err())
	}
}

// toMessage converts a network message into a domain message
func toMessage(peers *peerCache, self string, msg *tg.Message) (domain.Message, bool) {
	chatID, isGroup := peers.chatIdentity(msg.PeerID)
	if chatID == "" {
		return domain.Message{}, false
	}

	m := domain.Message{
		ID:        msg.ID,
		ChatID:    chatID,
		Body:      msg.Message,
		FromMe:    msg.Out,
		IsGroup:   isGroup,
		HasMedia:  msg.Media != nil,
		Timestamp: time.Unix(int64(msg.Date), 0),
	}

	if reply, ok := msg.GetReplyTo(); ok {
		if header, ok := reply.(*tg.MessageReplyHeader); ok && header.ReplyToMsgID != 0 {
			m.HasQuoted = true
			m.QuotedID = header.ReplyToMsgID
		}
	}

	if _, ok := msg.GetFwdFrom(); ok {
		m.IsForwarded = true
	}

	m.SenderID = senderOf(msg, chatID, self)

	if _, id, err := domain.ParseIdentity(m.SenderID); err == nil {
		if u, ok := peers.user(id); ok && u.Bot {
			m.SenderIsLinkedDevice = true
		}
	}

	return m, true
}

func senderOf(msg *tg.Message, chatID, self string) string {
	if from, ok := msg.GetFromID(); ok {
		switch v := from.(type) {
		case *tg.PeerUser:
			return domain.Identity(domain.KindUser, v.UserID)
		case *tg.PeerChannel:
			return domain.Identity(domain.KindChannel, v.ChannelID)
		case *tg.PeerChat:
			return domain.Identity(domain.KindGroup, v.ChatID)
		}
	}

	if msg.Out && self != "" {
		return self
	}
	return chatID
}
