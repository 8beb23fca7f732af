package telegram

import (
	"sync"

	"github.com/gotd/td/tg"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
)

// peerCache remembers entities seen in updates so identities can be
// turned back into input peers with their access hashes
type peerCache struct {
	mu       sync.RWMutex
	users    map[int64]*tg.User
	chats    map[int64]*tg.Chat
	channels map[int64]*tg.Channel
}

func newPeerCache() *peerCache {
	return &peerCache{
		users:    make(map[int64]*tg.User),
		chats:    make(map[int64]*tg.Chat),
		channels: make(map[int64]*tg.Channel),
	}
}

func (p *peerCache) apply(e tg.Entities) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, u := range e.Users {
		p.users[id] = u
	}
	for id, c := range e.Chats {
		p.chats[id] = c
	}
	for id, c := range e.Channels {
		p.channels[id] = c
	}
}

func (p *peerCache) addUser(u *tg.User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[u.ID] = u
}

func (p *peerCache) user(id int64) (*tg.User, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.users[id]
	return u, ok
}

func (p *peerCache) chat(id int64) (*tg.Chat, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.chats[id]
	return c, ok
}

func (p *peerCache) channel(id int64) (*tg.Channel, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.channels[id]
	return c, ok
}

// inputPeer resolves an identity to an input peer
func (p *peerCache) inputPeer(identity string) (tg.InputPeerClass, error) {
	kind, id, err := domain.ParseIdentity(identity)
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.KindUser:
		u, ok := p.user(id)
		if !ok {
			return nil, domain.ErrPeerNotFound
		}
		if u.Self {
			return &tg.InputPeerSelf{}, nil
		}
		return &tg.InputPeerUser{UserID: u.ID, AccessHash: u.AccessHash}, nil
	case domain.KindGroup:
		return &tg.InputPeerChat{ChatID: id}, nil
	default:
		c, ok := p.channel(id)
		if !ok {
			return nil, domain.ErrPeerNotFound
		}
		return &tg.InputPeerChannel{ChannelID: c.ID, AccessHash: c.AccessHash}, nil
	}
}

// inputUser resolves a user identity
func (p *peerCache) inputUser(identity string) (*tg.InputUser, error) {
	kind, id, err := domain.ParseIdentity(identity)
	if err != nil {
		return nil, err
	}
	if kind != domain.KindUser {
		return nil, domain.ErrInvalidIdentity
	}

	u, ok := p.user(id)
	if !ok {
		return nil, domain.ErrPeerNotFound
	}
	return &tg.InputUser{UserID: u.ID, AccessHash: u.AccessHash}, nil
}

// inputChannel resolves a channel identity
func (p *peerCache) inputChannel(id int64) (*tg.InputChannel, error) {
	c, ok := p.channel(id)
	if !ok {
		return nil, domain.ErrPeerNotFound
	}
	return &tg.InputChannel{ChannelID: c.ID, AccessHash: c.AccessHash}, nil
}

// chatIdentity returns the identity of a message peer and whether it is a group
func (p *peerCache) chatIdentity(peer tg.PeerClass) (string, bool) {
	switch v := peer.(type) {
	case *tg.PeerUser:
		return domain.Identity(domain.KindUser, v.UserID), false
	case *tg.PeerChat:
		return domain.Identity(domain.KindGroup, v.ChatID), true
	case *tg.PeerChannel:
		c, ok := p.channel(v.ChannelID)
		return domain.Identity(domain.KindChannel, v.ChannelID), ok && c.Megagroup
	default:
		return "", false
	}
}
