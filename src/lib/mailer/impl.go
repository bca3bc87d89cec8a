package mailer

import (
	"encoding/json"
	"fmt"
	"os"
	"rsb/src/lib"
	"rsb/src/utils"
)

// NewMailerMessage hands the message to the email queue. Delivery is best
// effort and asynchronous; callers treat errors as log-only. In the local
// environment the message is sent straight through SMTP instead.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		return lib.SendMail(input)
	}
	body, err := json.Marshal(input)
	if err != nil {
		return err
	}
	if err := lib.SQSProduceMessage(utils.WithSuffix(emailQueue), string(body)); err != nil {
		return fmt.Errorf("error sending message to queue: %s", err.Error())
	}
	return nil
}
