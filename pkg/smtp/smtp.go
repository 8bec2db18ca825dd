package smtp

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Client sends transactional mail.
type Client struct {
	dialer Sender
	from   string
	domain string
}

func NewClient(dialer Sender, from, domain string) *Client {
	return &Client{
		dialer: dialer,
		from:   from,
		domain: domain,
	}
}

// SendConfirmationEmail mails the sign-up confirmation code.
func (c *Client) SendConfirmationEmail(to string, code string) error {
	msg := c.newMessage(to, "Confirm your email")
	msg.SetBody("text/plain", fmt.Sprintf("POW! Your confirmation code is %s", code))
	msg.AddAlternative("text/html", fmt.Sprintf("<h1>POW!</h1><p>Your confirmation code is <b>%s</b></p>", code))

	if err := c.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

func (c *Client) newMessage(to, subject string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("Message-ID", generateMessageID(c.domain))
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	return msg
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
