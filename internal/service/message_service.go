package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"socialnet/internal/events"
	"socialnet/internal/ids"
	"socialnet/internal/models"
	"socialnet/internal/pagination"
)

type MessageService struct {
	users    UserRepository
	messages MessageRepository
	notifier *events.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewMessageService(users UserRepository, messages MessageRepository, notifier *events.Notifier, log zerolog.Logger) *MessageService {
	return &MessageService{
		users:    users,
		messages: messages,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type Unviewed struct {
	Count    int64
	Messages []models.MessageView
}

func (s *MessageService) Send(ctx context.Context, emitterID, receiverID, text string) (models.Message, error) {
	receiverID = strings.TrimSpace(receiverID)
	text = strings.TrimSpace(text)
	if receiverID == "" || text == "" {
		return models.Message{}, ErrMissingFields
	}

	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return models.Message{}, fmt.Errorf("load receiver: %w", err)
	}

	msg := models.Message{
		ID:         ids.New(),
		EmitterID:  emitterID,
		ReceiverID: receiverID,
		Text:       text,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return models.Message{}, fmt.Errorf("create message: %w", err)
	}

	s.notifier.Notify(ctx, events.New(events.MessageSent, emitterID, map[string]string{
		events.KeyMessageID:  msg.ID,
		events.KeyReceiverID: receiverID,
	}))
	return msg, nil
}

func (s *MessageService) Received(ctx context.Context, userID string, page pagination.Page) (pagination.Result[models.MessageView], error) {
	return s.page(ctx, userID, page, s.messages.ListReceived, s.messages.CountReceived)
}

func (s *MessageService) Sent(ctx context.Context, userID string, page pagination.Page) (pagination.Result[models.MessageView], error) {
	return s.page(ctx, userID, page, s.messages.ListSent, s.messages.CountSent)
}

func (s *MessageService) page(
	ctx context.Context,
	userID string,
	page pagination.Page,
	list func(context.Context, string, int, int) ([]models.MessageView, error),
	count func(context.Context, string) (int64, error),
) (pagination.Result[models.MessageView], error) {
	total, err := count(ctx, userID)
	if err != nil {
		return pagination.Result[models.MessageView]{}, fmt.Errorf("count messages: %w", err)
	}
	items, err := list(ctx, userID, page.Limit(), page.Offset())
	if err != nil {
		return pagination.Result[models.MessageView]{}, fmt.Errorf("list messages: %w", err)
	}
	return pagination.NewResult(items, total, page), nil
}

func (s *MessageService) Unviewed(ctx context.Context, userID string) (Unviewed, error) {
	count, err := s.messages.CountUnviewed(ctx, userID)
	if err != nil {
		return Unviewed{}, fmt.Errorf("count unviewed: %w", err)
	}
	if count == 0 {
		return Unviewed{}, nil
	}

	msgs, err := s.messages.ListUnviewed(ctx, userID)
	if err != nil {
		return Unviewed{}, fmt.Errorf("list unviewed: %w", err)
	}
	return Unviewed{Count: int64(len(msgs)), Messages: msgs}, nil
}

// MarkViewed flags every unread message addressed to userID and returns how
// many changed.
func (s *MessageService) MarkViewed(ctx context.Context, userID string) (int64, error) {
	n, err := s.messages.MarkViewed(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("mark viewed: %w", err)
	}
	return n, nil
}
