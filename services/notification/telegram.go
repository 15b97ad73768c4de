package notification

import (
	"context"
	"errors"
	"fmt"

	userRepo "kommunity/database/repository/user"
	"kommunity/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier messages requesters and servicemen through the bot.
// Users without a linked Telegram account are skipped.
type TelegramNotifier struct {
	bot    messageSender
	users  userRepo.UserRepository
	logger *zap.Logger
}

func NewTelegramNotifier(token string, users userRepo.UserRepository, logger *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init failed: %w", err)
	}
	return newTelegramNotifier(bot, users, logger), nil
}

func newTelegramNotifier(bot messageSender, users userRepo.UserRepository, logger *zap.Logger) *TelegramNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TelegramNotifier{bot: bot, users: users, logger: logger}
}

type outbound struct {
	username string
	text     string
}

func (t *TelegramNotifier) Notify(ctx context.Context, e models.LifecycleEvent) error {
	var errs []error
	for _, m := range t.compose(ctx, e) {
		if err := t.send(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *TelegramNotifier) send(ctx context.Context, m outbound) error {
	if m.username == "" {
		return nil
	}
	u, err := t.users.GetByUsername(ctx, m.username)
	if err != nil {
		return err
	}
	if u == nil || u.TelegramID == 0 {
		t.logger.Debug("No Telegram account linked", zap.String("username", m.username))
		return nil
	}

	msg := tgbotapi.NewMessage(u.TelegramID, m.text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %s failed: %w", m.username, err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func (t *TelegramNotifier) displayName(ctx context.Context, username string) string {
	if u, err := t.users.GetByUsername(ctx, username); err == nil && u != nil && u.Name != "" {
		return u.Name
	}
	return username
}

// compose builds the per-recipient messages for an event.
func (t *TelegramNotifier) compose(ctx context.Context, e models.LifecycleEvent) []outbound {
	ref := shortID(e.RequestID)
	category := e.Category
	if category == "" {
		category = "service"
	}
	when := ""
	if e.Slot != nil {
		when = fmt.Sprintf("\n*When:* %s", esc(e.Slot.String()))
	}

	switch e.Kind {
	case models.EventAssigned:
		specialist := t.displayName(ctx, e.AssignedServiceman)
		return []outbound{
			{e.RequesterID, fmt.Sprintf("🔔 *Service Update: Request #%s*\n\nGood news! A specialist has been assigned to your %s request.\n\n*Specialist:* %s%s",
				ref, esc(category), esc(specialist), when)},
			{e.AssignedServiceman, fmt.Sprintf("🛠 *New job #%s*\n\n*Category:* %s\n*Location:* %s%s",
				ref, esc(category), esc(e.Location), when)},
		}
	case models.EventScheduled:
		return []outbound{
			{e.RequesterID, fmt.Sprintf("📅 *Request #%s scheduled*%s", ref, when)},
			{e.AssignedServiceman, fmt.Sprintf("📅 *Job #%s scheduled*\n*Location:* %s%s", ref, esc(e.Location), when)},
		}
	case models.EventCompleted:
		return []outbound{
			{e.RequesterID, fmt.Sprintf("✅ *Service Completed: Request #%s*\n\nYour %s request has been marked as completed.\n\n*Location:* %s\n*Completed on:* %s",
				ref, esc(category), esc(e.Location), e.Timestamp.Format("2006-01-02 15:04"))},
		}
	case models.EventCancelled:
		msgs := []outbound{
			{e.RequesterID, fmt.Sprintf("❌ *Request #%s cancelled*", ref)},
		}
		if e.AssignedServiceman != "" {
			msgs = append(msgs, outbound{e.AssignedServiceman, fmt.Sprintf("❌ *Job #%s cancelled*%s", ref, when)})
		}
		return msgs
	case models.EventReassigned:
		return []outbound{
			{e.PreviousServiceman, fmt.Sprintf("↩️ *Job #%s was taken off your list*%s", ref, when)},
		}
	}
	t.logger.Warn("Unknown lifecycle event kind", zap.String("kind", e.Kind))
	return nil
}

var _ Notifier = (*TelegramNotifier)(nil)
