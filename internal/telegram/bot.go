package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-rapidapply-scraper/internal/models"
)

// Bot delivers run reports and guard alerts to the operator's chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func (b *Bot) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// SendRunSummary posts the closing found/written/skipped/errors line.
func (b *Bot) SendRunSummary(stats models.RunStats) error {
	msgText := "📊 *Scrape run finished*\n"
	msgText += fmt.Sprintf("📄 Pages: %d\n", stats.Pages)
	msgText += fmt.Sprintf("🔎 Found: %d\n", stats.Found)
	msgText += fmt.Sprintf("💾 Written: %d\n", stats.Written)
	msgText += fmt.Sprintf("⏭️ Skipped: %d\n", stats.Skipped)
	msgText += fmt.Sprintf("❗ Errors: %d\n", stats.Errors)

	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"

	_, err := b.api.Send(msg)
	return err
}

// SendGuardAlert flags a record the business-rule guard refused to write.
func (b *Bot) SendGuardAlert(title, category, id string) error {
	msgText := fmt.Sprintf("🚧 Guard rejected: *%s*\n📂 %s\n🆔 `%s`",
		b.escapeMarkdown(title), b.escapeMarkdown(category), id)
	msg := tgbotapi.NewMessage(b.chatID, msgText)
	msg.ParseMode = "MarkdownV2"
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
