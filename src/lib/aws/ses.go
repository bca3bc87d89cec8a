package aws

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

func GetSESClient() *ses.Client {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Printf("Could not load default config: %s\n", err.Error())
		return nil
	}
	return ses.NewFromConfig(cfg)
}

// SESSendMessage delivers one notification email. Approval, winner and OTP
// mails all come through here with an HTML body; plain text is kept for the
// odd operational message.
func SESSendMessage(from string, to []string, subject string, body string, html bool) {
	c := GetSESClient()
	if c == nil {
		return
	}
	content := &types.Content{Data: aws.String(body)}
	msgBody := &types.Body{Text: content}
	if html {
		msgBody = &types.Body{Html: content}
	}
	out, err := c.SendEmail(context.TODO(), &ses.SendEmailInput{
		Source:      aws.String(from),
		Destination: &types.Destination{ToAddresses: to},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body:    msgBody,
		},
	})
	if err != nil {
		log.Printf("Error sending email: %s\n", err.Error())
		return
	}
	log.Printf("Sent email with id: %s\n", *out.MessageId)
}
