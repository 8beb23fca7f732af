package telegram

import (
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
)

func testEntities() tg.Entities {
	return tg.Entities{
		Users: map[int64]*tg.User{
			10: {ID: 10, AccessHash: 111, FirstName: "Ann"},
			11: {ID: 11, AccessHash: 222, Bot: true},
		},
		Chats: map[int64]*tg.Chat{
			20: {ID: 20, Title: "Basic"},
		},
		Channels: map[int64]*tg.Channel{
			30: {ID: 30, AccessHash: 333, Megagroup: true, Title: "Super"},
			31: {ID: 31, AccessHash: 444, Broadcast: true, Title: "News"},
		},
	}
}

func TestPeerCache_InputPeer(t *testing.T) {
	p := newPeerCache()
	p.apply(testEntities())

	peer, err := p.inputPeer("user:10")
	require.NoError(t, err)
	assert.Equal(t, &tg.InputPeerUser{UserID: 10, AccessHash: 111}, peer)

	peer, err = p.inputPeer("group:20")
	require.NoError(t, err)
	assert.Equal(t, &tg.InputPeerChat{ChatID: 20}, peer)

	peer, err = p.inputPeer("channel:30")
	require.NoError(t, err)
	assert.Equal(t, &tg.InputPeerChannel{ChannelID: 30, AccessHash: 333}, peer)

	_, err = p.inputPeer("user:99")
	assert.ErrorIs(t, err, domain.ErrPeerNotFound)

	_, err = p.inputPeer("nonsense")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

func TestPeerCache_ChatIdentity(t *testing.T) {
	p := newPeerCache()
	p.apply(testEntities())

	id, group := p.chatIdentity(&tg.PeerUser{UserID: 10})
	assert.Equal(t, "user:10", id)
	assert.False(t, group)

	id, group = p.chatIdentity(&tg.PeerChat{ChatID: 20})
	assert.Equal(t, "group:20", id)
	assert.True(t, group)

	id, group = p.chatIdentity(&tg.PeerChannel{ChannelID: 30})
	assert.Equal(t, "channel:30", id)
	assert.True(t, group)

	_, group = p.chatIdentity(&tg.PeerChannel{ChannelID: 31})
	assert.False(t, group)
}
