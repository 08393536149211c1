package core

import "net/mail"

type (
	// EmailMessage is a plain-text email to one or more recipients.
	EmailMessage struct {
		To          []mail.Address
		Subject     string
		TextContent string
	}

	// EmailService sends messages asynchronously; failures are logged, never returned.
	EmailService interface {
		SendMessages(messages ...*EmailMessage)
	}
)

func (msg EmailMessage) HasRecipients() bool { return len(msg.To) > 0 }
func (msg EmailMessage) HasContent() bool    { return msg.TextContent != "" }
