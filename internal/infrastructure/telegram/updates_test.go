package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
)

func TestToMessage_Direct(t *testing.T) {
	peers := newPeerCache()
	peers.apply(testEntities())

	msg := &tg.Message{
		ID:      5,
		PeerID:  &tg.PeerUser{UserID: 10},
		Message: "!ping",
		Date:    1700000000,
	}

	m, ok := toMessage(peers, "user:1", msg)
	require.True(t, ok)

	assert.Equal(t, 5, m.ID)
	assert.Equal(t, "user:10", m.ChatID)
	assert.Equal(t, "user:10", m.SenderID)
	assert.Equal(t, "!ping", m.Body)
	assert.False(t, m.IsGroup)
	assert.False(t, m.FromMe)
	assert.False(t, m.HasQuoted)
	assert.Equal(t, int64(1700000000), m.Timestamp.Unix())
}

func TestToMessage_OutgoingUsesSelf(t *testing.T) {
	peers := newPeerCache()
	peers.apply(testEntities())

	msg := &tg.Message{ID: 6, Out: true, PeerID: &tg.PeerUser{UserID: 10}, Message: "hi"}

	m, ok := toMessage(peers, "user:1", msg)
	require.True(t, ok)
	assert.True(t, m.FromMe)
	assert.Equal(t, "user:1", m.SenderID)
}

func TestToMessage_GroupWithReplyAndBotSender(t *testing.T) {
	peers := newPeerCache()
	peers.apply(testEntities())

	msg := &tg.Message{
		ID:      7,
		PeerID:  &tg.PeerChannel{ChannelID: 30},
		Message: "hello",
		Media:   &tg.MessageMediaPhoto{},
	}
	msg.SetFromID(&tg.PeerUser{UserID: 11})
	msg.SetReplyTo(&tg.MessageReplyHeader{ReplyToMsgID: 3})
	msg.SetFwdFrom(tg.MessageFwdHeader{})

	m, ok := toMessage(peers, "user:1", msg)
	require.True(t, ok)

	assert.Equal(t, "channel:30", m.ChatID)
	assert.Equal(t, "user:11", m.SenderID)
	assert.True(t, m.IsGroup)
	assert.True(t, m.HasMedia)
	assert.True(t, m.HasQuoted)
	assert.Equal(t, 3, m.QuotedID)
	assert.True(t, m.IsForwarded)
	assert.True(t, m.SenderIsLinkedDevice)
}

func TestToMessage_UnknownPeer(t *testing.T) {
	_, ok := toMessage(newPeerCache(), "", &tg.Message{ID: 1})
	assert.False(t, ok)
}

func TestChannelMemberChange(t *testing.T) {
	tests := []struct {
		name   string
		update func() *tg.UpdateChannelParticipant
		want   string
	}{
		{
			name: "joined",
			update: func() *tg.UpdateChannelParticipant {
				u := &tg.UpdateChannelParticipant{ChannelID: 30, UserID: 10}
				u.SetNewParticipant(&tg.ChannelParticipant{UserID: 10})
				return u
			},
			want: memberJoined,
		},
		{
			name: "left",
			update: func() *tg.UpdateChannelParticipant {
				u := &tg.UpdateChannelParticipant{ChannelID: 30, UserID: 10}
				u.SetPrevParticipant(&tg.ChannelParticipant{UserID: 10})
				return u
			},
			want: memberLeft,
		},
		{
			name: "banned",
			update: func() *tg.UpdateChannelParticipant {
				u := &tg.UpdateChannelParticipant{ChannelID: 30, UserID: 10}
				u.SetPrevParticipant(&tg.ChannelParticipant{UserID: 10})
				u.SetNewParticipant(&tg.ChannelParticipantBanned{Peer: &tg.PeerUser{UserID: 10}})
				return u
			},
			want: memberLeft,
		},
		{
			name: "promoted",
			update: func() *tg.UpdateChannelParticipant {
				u := &tg.UpdateChannelParticipant{ChannelID: 30, UserID: 10}
				u.SetPrevParticipant(&tg.ChannelParticipant{UserID: 10})
				u.SetNewParticipant(&tg.ChannelParticipantAdmin{UserID: 10})
				return u
			},
			want: memberChanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			change := channelMemberChange(tt.update())
			assert.Equal(t, "channel:30", change.chatID)
			assert.Equal(t, "user:10", change.userID)
			assert.Equal(t, tt.want, change.action)
		})
	}
}

type blockingHandler struct {
	release chan struct{}
	handled chan domain.Message
}

func (h *blockingHandler) HandleMessage(_ context.Context, msg domain.Message) {
	h.handled <- msg
	<-h.release
}

func TestClient_DrainWaitsForHandlers(t *testing.T) {
	c, err := NewClient(Config{APIID: 1, APIHash: "hash"}, nil, nil, zerolog.Nop())
	require.NoError(t, err)

	h := &blockingHandler{release: make(chan struct{}), handled: make(chan domain.Message, 1)}
	c.SetHandler(h)

	c.onMessage(context.Background(), testEntities(), &tg.Message{ID: 9, PeerID: &tg.PeerUser{UserID: 10}, Message: "!ping"})

	select {
	case msg := <-h.handled:
		assert.Equal(t, 9, msg.ID)
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Drain(ctx), context.DeadlineExceeded)

	close(h.release)
	require.NoError(t, c.Drain(context.Background()))
}
