package notify

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// MessageSender - часть *bot.Bot, нужная для отправки
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// UserLookup находит пользователя для привязанного чата
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// TelegramPusher отправляет уведомление в привязанный Telegram-чат получателя
type TelegramPusher struct {
	sender MessageSender
	users  UserLookup
}

func NewTelegramPusher(sender MessageSender, users UserLookup) *TelegramPusher {
	return &TelegramPusher{sender: sender, users: users}
}

func (p *TelegramPusher) Name() string { return "telegram" }

// Push молча пропускает пользователей без привязанного чата
func (p *TelegramPusher) Push(ctx context.Context, n *model.Notification) error {
	user, err := p.users.GetByID(ctx, n.RecipientID)
	if err != nil {
		return fmt.Errorf("get recipient: %w", err)
	}
	if user == nil || !user.HasTelegram() {
		return nil
	}

	_, err = p.sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: user.TelegramID,
		Text:   FormatText(n),
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// FormatText собирает текст сообщения: заголовок и тело через пустую строку
func FormatText(n *model.Notification) string {
	if n.Message == "" {
		return n.Title
	}
	return n.Title + "\n\n" + n.Message
}
