package notifications

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const welcomeSubject = "Registration Successful!"

type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGrid(apiKey, fromAddress, fromName string) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromAddress),
	}
}

func (n *SendGridNotifier) SendWelcome(ctx context.Context, email, name string) error {
	message := mail.NewSingleEmail(
		n.from,
		welcomeSubject,
		mail.NewEmail(name, email),
		welcomeText(name),
		welcomeHTML(name),
	)

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid responded with status %d: %s", response.StatusCode, response.Body)
	}

	return nil
}

func welcomeHTML(name string) string {
	return fmt.Sprintf(
		"<h1>Welcome, %s!</h1><p>You have successfully registered for our platform.</p>",
		html.EscapeString(name),
	)
}

func welcomeText(name string) string {
	return fmt.Sprintf("Welcome, %s! You have successfully registered for our platform.", name)
}
