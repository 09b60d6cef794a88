package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// botNotificationLimit - сколько уведомлений показывать в чате
const botNotificationLimit = 10

// MessageSender - часть *bot.Bot, через которую отвечают обработчики
type MessageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type BotHandlers struct {
	userService         *service.UserService
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewBotHandlers(
	userService *service.UserService,
	notificationService *service.NotificationService,
	logger *zap.Logger,
) *BotHandlers {
	return &BotHandlers{
		userService:         userService,
		notificationService: notificationService,
		logger:              logger,
	}
}

// HandleStart обрабатывает команду /start
func (h *BotHandlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleStart(ctx, b, update)
}

// HandleNotifications обрабатывает команду /notifications
func (h *BotHandlers) HandleNotifications(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleNotifications(ctx, b, update)
}

// HandleReadAll обрабатывает команду /readall
func (h *BotHandlers) HandleReadAll(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleReadAll(ctx, b, update)
}

func (h *BotHandlers) handleStart(ctx context.Context, s MessageSender, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	chatID := update.Message.Chat.ID

	user, err := h.userService.GetByTelegramID(ctx, update.Message.From.ID)
	if err != nil {
		h.sendMessage(ctx, s, chatID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}
	if user == nil {
		h.sendMessage(ctx, s, chatID,
			"👋 Привет!\n\nЭтот чат ещё не привязан к профилю SkillSwap. "+
				fmt.Sprintf("Укажите Telegram ID %d в настройках профиля.", update.Message.From.ID))
		return
	}

	h.sendMessage(ctx, s, chatID, fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Сюда будут приходить уведомления о заявках и занятиях.\n\n"+
			"Доступные команды:\n"+
			"/notifications - Последние уведомления\n"+
			"/readall - Отметить все как прочитанные",
		user.FullName(),
	))
}

func (h *BotHandlers) handleNotifications(ctx context.Context, s MessageSender, update *models.Update) {
	user, ok := h.requireUser(ctx, s, update)
	if !ok {
		return
	}

	page, err := h.notificationService.ListRecent(ctx, user.ID, botNotificationLimit)
	if err != nil {
		h.sendMessage(ctx, s, update.Message.Chat.ID, "❌ "+service.Message(err))
		return
	}

	h.sendMessage(ctx, s, update.Message.Chat.ID, FormatNotificationPage(page))
}

func (h *BotHandlers) handleReadAll(ctx context.Context, s MessageSender, update *models.Update) {
	user, ok := h.requireUser(ctx, s, update)
	if !ok {
		return
	}

	affected, err := h.notificationService.MarkAllRead(ctx, user.ID)
	if err != nil {
		h.sendMessage(ctx, s, update.Message.Chat.ID, "❌ "+service.Message(err))
		return
	}

	h.sendMessage(ctx, s, update.Message.Chat.ID,
		fmt.Sprintf("✅ Отмечено как прочитанные: %d", affected))
}

// requireUser проверяет что чат привязан к пользователю
func (h *BotHandlers) requireUser(ctx context.Context, s MessageSender, update *models.Update) (*model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	user, err := h.userService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.sendMessage(ctx, s, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}
	if user == nil {
		h.sendMessage(ctx, s, update.Message.Chat.ID, "❌ Чат не привязан к профилю. Используйте /start.")
		return nil, false
	}
	return user, true
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *BotHandlers) sendMessage(ctx context.Context, s MessageSender, chatID int64, text string) {
	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// FormatNotificationPage рендерит список уведомлений для чата
func FormatNotificationPage(page *model.NotificationPage) string {
	if len(page.Items) == 0 {
		return "🔕 Уведомлений пока нет."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔔 Непрочитанных: %d\n", page.UnreadCount)
	for _, item := range page.Items {
		mark := "▫️"
		if !item.IsRead {
			mark = "🔸"
		}
		fmt.Fprintf(&sb, "\n%s %s\n%s\n", mark, item.Title, item.Message)
	}
	return strings.TrimRight(sb.String(), "\n")
}
