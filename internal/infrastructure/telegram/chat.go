package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/gotd/td/telegram/message"
	"github.com/gotd/td/telegram/message/styling"
	"github.com/gotd/td/tg"

	"github.com/SAVX-BOY/dead-x-bot/internal/domain"
)

// SendText implements domain.ChatClient
func (c *Client) SendText(ctx context.Context, chatID, text string, replyTo int) error {
	_, sender, err := c.conn()
	if err != nil {
		return err
	}

	peer, err := c.peers.inputPeer(chatID)
	if err != nil {
		return err
	}

	to := sender.To(peer)
	if replyTo != 0 {
		_, err = to.Reply(replyTo).Text(ctx, text)
	} else {
		_, err = to.Text(ctx, text)
	}
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendMedia implements domain.ChatClient
func (c *Client) SendMedia(ctx context.Context, chatID string, media domain.Media, replyTo int) error {
	_, sender, err := c.conn()
	if err != nil {
		return err
	}

	peer, err := c.peers.inputPeer(chatID)
	if err != nil {
		return err
	}

	c.mu.RLock()
	up := c.uploader
	c.mu.RUnlock()
	if up == nil {
		return domain.ErrNotConnected
	}

	file, err := up.FromBytes(ctx, media.Filename, media.Data)
	if err != nil {
		return fmt.Errorf("failed to upload media: %w", err)
	}

	var caption []styling.StyledTextOption
	if media.Caption != "" {
		caption = append(caption, styling.Plain(media.Caption))
	}

	var option message.MediaOption
	if media.IsImage() {
		option = message.UploadedPhoto(file, caption...)
	} else {
		option = message.UploadedDocument(file, caption...).
			MIME(media.MimeType).
			Filename(media.Filename)
	}

	to := sender.To(peer)
	if replyTo != 0 {
		_, err = to.Reply(replyTo).Media(ctx, option)
	} else {
		_, err = to.Media(ctx, option)
	}
	if err != nil {
		return fmt.Errorf("failed to send media: %w", err)
	}
	return nil
}

// DeleteMessage implements domain.ChatClient
func (c *Client) DeleteMessage(ctx context.Context, chatID string, messageID int) error {
	api, _, err := c.conn()
	if err != nil {
		return err
	}

	kind, id, err := domain.ParseIdentity(chatID)
	if err != nil {
		return err
	}

	if kind == domain.KindChannel {
		channel, err := c.peers.inputChannel(id)
		if err != nil {
			return err
		}
		_, err = api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: channel,
			ID:      []int{messageID},
		})
		return err
	}

	_, err = api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
		Revoke: true,
		ID:     []int{messageID},
	})
	return err
}

// SetPresence implements domain.ChatClient
func (c *Client) SetPresence(ctx context.Context, chatID string, presence domain.Presence) error {
	api, _, err := c.conn()
	if err != nil {
		return err
	}

	peer, err := c.peers.inputPeer(chatID)
	if err != nil {
		return err
	}

	var action tg.SendMessageActionClass
	switch presence {
	case domain.PresenceTyping:
		action = &tg.SendMessageTypingAction{}
	case domain.PresenceRecording:
		action = &tg.SendMessageRecordAudioAction{}
	default:
		action = &tg.SendMessageCancelAction{}
	}

	_, err = api.MessagesSetTyping(ctx, &tg.MessagesSetTypingRequest{Peer: peer, Action: action})
	return err
}

// RemoveParticipant implements domain.ChatClient
func (c *Client) RemoveParticipant(ctx context.Context, chatID, userID string) error {
	api, _, err := c.conn()
	if err != nil {
		return err
	}

	kind, id, err := domain.ParseIdentity(chatID)
	if err != nil {
		return err
	}

	user, err := c.peers.inputUser(userID)
	if err != nil {
		return err
	}

	switch kind {
	case domain.KindChannel:
		channel, err := c.peers.inputChannel(id)
		if err != nil {
			return err
		}
		_, err = api.ChannelsEditBanned(ctx, &tg.ChannelsEditBannedRequest{
			Channel:      channel,
			Participant:  &tg.InputPeerUser{UserID: user.UserID, AccessHash: user.AccessHash},
			BannedRights: tg.ChatBannedRights{ViewMessages: true},
		})
		return err
	case domain.KindGroup:
		_, err = api.MessagesDeleteChatUser(ctx, &tg.MessagesDeleteChatUserRequest{
			ChatID: id,
			UserID: user,
		})
		return err
	default:
		return domain.ErrNotGroup
	}
}

// IsAdmin implements domain.ChatDirectory
func (c *Client) IsAdmin(ctx context.Context, chatID, userID string) (bool, error) {
	api, _, err := c.conn()
	if err != nil {
		return false, err
	}

	kind, id, err := domain.ParseIdentity(chatID)
	if err != nil {
		return false, err
	}
	_, uid, err := domain.ParseIdentity(userID)
	if err != nil {
		return false, err
	}

	switch kind {
	case domain.KindChannel:
		channel, err := c.peers.inputChannel(id)
		if err != nil {
			return false, err
		}
		participant, err := c.peers.inputPeer(userID)
		if err != nil {
			return false, err
		}
		res, err := api.ChannelsGetParticipant(ctx, &tg.ChannelsGetParticipantRequest{
			Channel:     channel,
			Participant: participant,
		})
		if err != nil {
			return false, err
		}
		switch res.Participant.(type) {
		case *tg.ChannelParticipantCreator, *tg.ChannelParticipantAdmin:
			return true, nil
		}
		return false, nil
	case domain.KindGroup:
		full, err := api.MessagesGetFullChat(ctx, id)
		if err != nil {
			return false, err
		}
		return chatAdmin(full, uid), nil
	default:
		return false, nil
	}
}

func chatAdmin(full *tg.MessagesChatFull, userID int64) bool {
	chatFull, ok := full.FullChat.(*tg.ChatFull)
	if !ok {
		return false
	}
	participants, ok := chatFull.Participants.(*tg.ChatParticipants)
	if !ok {
		return false
	}

	for _, p := range participants.Participants {
		switch v := p.(type) {
		case *tg.ChatParticipantCreator:
			if v.UserID == userID {
				return true
			}
		case *tg.ChatParticipantAdmin:
			if v.UserID == userID {
				return true
			}
		}
	}
	return false
}

// GetQuoted implements domain.ChatDirectory
func (c *Client) GetQuoted(ctx context.Context, chatID string, messageID int) (*domain.QuotedMessage, error) {
	api, _, err := c.conn()
	if err != nil {
		return nil, err
	}

	kind, id, err := domain.ParseIdentity(chatID)
	if err != nil {
		return nil, err
	}

	ids := []tg.InputMessageClass{&tg.InputMessageID{ID: messageID}}

	var res tg.MessagesMessagesClass
	if kind == domain.KindChannel {
		channel, err := c.peers.inputChannel(id)
		if err != nil {
			return nil, err
		}
		res, err = api.ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{Channel: channel, ID: ids})
		if err != nil {
			return nil, err
		}
	} else {
		res, err = api.MessagesGetMessages(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	for _, raw := range messagesOf(res) {
		msg, ok := raw.(*tg.Message)
		if !ok || msg.ID != messageID {
			continue
		}
		return &domain.QuotedMessage{
			Body:     msg.Message,
			From:     senderOf(msg, chatID, c.SelfIdentity()),
			HasMedia: msg.Media != nil,
		}, nil
	}

	return nil, domain.ErrMessageNotFound
}

func messagesOf(res tg.MessagesMessagesClass) []tg.MessageClass {
	switch v := res.(type) {
	case *tg.MessagesMessages:
		return v.Messages
	case *tg.MessagesMessagesSlice:
		return v.Messages
	case *tg.MessagesChannelMessages:
		return v.Messages
	default:
		return nil
	}
}

// GetContact implements domain.ChatDirectory
func (c *Client) GetContact(ctx context.Context, userID string) (*domain.Contact, error) {
	api, _, err := c.conn()
	if err != nil {
		return nil, err
	}

	input, err := c.peers.inputUser(userID)
	if err != nil {
		return nil, err
	}

	users, err := api.UsersGetUsers(ctx, []tg.InputUserClass{input})
	if err != nil {
		return nil, err
	}

	for _, raw := range users {
		if u, ok := raw.(*tg.User); ok && u.ID == input.UserID {
			c.peers.addUser(u)
			return contactOf(u), nil
		}
	}

	return nil, domain.ErrPeerNotFound
}

func contactOf(u *tg.User) *domain.Contact {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return &domain.Contact{
		Name:        name,
		Number:      u.Phone,
		IsMyContact: u.Contact,
	}
}

// GetGroup implements domain.ChatDirectory
func (c *Client) GetGroup(ctx context.Context, chatID string) (*domain.GroupInfo, error) {
	api, _, err := c.conn()
	if err != nil {
		return nil, err
	}

	kind, id, err := domain.ParseIdentity(chatID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case domain.KindChannel:
		channel, err := c.peers.inputChannel(id)
		if err != nil {
			return nil, err
		}
		full, err := api.ChannelsGetFullChannel(ctx, channel)
		if err != nil {
			return nil, err
		}

		info := &domain.GroupInfo{}
		if cf, ok := full.FullChat.(*tg.ChannelFull); ok {
			info.Description = cf.About
			if n, ok := cf.GetParticipantsCount(); ok {
				info.ParticipantsCount = n
			}
		}
		if ch, ok := c.peers.channel(id); ok {
			info.Name = ch.Title
		}
		return info, nil
	case domain.KindGroup:
		full, err := api.MessagesGetFullChat(ctx, id)
		if err != nil {
			return nil, err
		}
		return groupInfoOf(full, id), nil
	default:
		return nil, domain.ErrNotGroup
	}
}

func groupInfoOf(full *tg.MessagesChatFull, chatID int64) *domain.GroupInfo {
	info := &domain.GroupInfo{}

	if cf, ok := full.FullChat.(*tg.ChatFull); ok {
		info.Description = cf.About
		if participants, ok := cf.Participants.(*tg.ChatParticipants); ok {
			info.ParticipantsCount = len(participants.Participants)
		}
	}

	for _, raw := range full.Chats {
		if chat, ok := raw.(*tg.Chat); ok && chat.ID == chatID {
			info.Name = chat.Title
			if info.ParticipantsCount == 0 {
				info.ParticipantsCount = chat.ParticipantsCount
			}
		}
	}

	return info
}
