package notify

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"creator-funnel/internal/common/aws"
	"creator-funnel/internal/integrations/discord"
	"creator-funnel/internal/integrations/whatsapp"
)

// DiscordNotifier posts to the dashboard incoming webhook.
type DiscordNotifier struct {
	client     *discord.Client
	webhookURL string
}

func NewDiscordNotifier(client *discord.Client, webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{client: client, webhookURL: webhookURL}
}

func (n *DiscordNotifier) Name() string { return "discord" }

func (n *DiscordNotifier) Send(ctx context.Context, message string) error {
	return n.client.PostWebhookMessage(ctx, n.webhookURL, message)
}

// WhatsAppNotifier messages the operator's phone via the gateway.
type WhatsAppNotifier struct {
	client *whatsapp.Client
	phone  string
}

func NewWhatsAppNotifier(client *whatsapp.Client, phone string) *WhatsAppNotifier {
	return &WhatsAppNotifier{client: client, phone: phone}
}

func (n *WhatsAppNotifier) Name() string { return "whatsapp" }

func (n *WhatsAppNotifier) Send(ctx context.Context, message string) error {
	return n.client.SendMessage(ctx, n.phone, message)
}

// TelegramNotifier sends operator alerts to a fixed chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Name() string { return "telegram" }

func (n *TelegramNotifier) Send(_ context.Context, message string) error {
	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

// EmailNotifier delivers through SES to a fixed operator address.
type EmailNotifier struct {
	ses     *aws.SESClient
	from    string
	to      string
	subject string
}

func NewEmailNotifier(ses *aws.SESClient, from, to, subject string) *EmailNotifier {
	return &EmailNotifier{ses: ses, from: from, to: to, subject: subject}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Send(ctx context.Context, message string) error {
	input := &ses.SendEmailInput{
		Source: awssdk.String(n.from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: awssdk.String(n.subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: awssdk.String(message)},
			},
		},
	}
	if _, err := n.ses.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SMSNotifier publishes through SNS to the operator's number.
type SMSNotifier struct {
	sns   *aws.SNSClient
	phone string
}

func NewSMSNotifier(sns *aws.SNSClient, phone string) *SMSNotifier {
	return &SMSNotifier{sns: sns, phone: phone}
}

func (n *SMSNotifier) Name() string { return "sms" }

func (n *SMSNotifier) Send(ctx context.Context, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: awssdk.String(n.phone),
		Message:     awssdk.String(message),
	}
	if _, err := n.sns.Publish(ctx, input); err != nil {
		return fmt.Errorf("failed to publish sms: %w", err)
	}
	return nil
}
