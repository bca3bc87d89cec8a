package common

import (
	"fmt"
	"log"
	"os"
	"rsb/src/lib"
	awslib "rsb/src/lib/aws"
	"rsb/src/lib/mailer"
	"rsb/src/models"
	"rsb/src/utils"

	"github.com/tidwall/gjson"
)

// EmailsToSendConsumer drains the email queue. Production delivers through
// SES; everything else goes out over SMTP.
func EmailsToSendConsumer() {
	qname := utils.WithSuffix(os.Getenv("EMAIL_QUEUE"))
	log.Printf("%s: Listening for messages...", qname)
	c := awslib.NewSQSConsumer(qname, func(spayload string) {
		if !gjson.Valid(spayload) {
			log.Printf("[%s]: Received invalid json body. Aborting", qname)
			return
		}
		from := gjson.Get(spayload, "From").String()
		fromName := gjson.Get(spayload, "FromName").String()
		subject := gjson.Get(spayload, "Subject").String()
		body := gjson.Get(spayload, "Body").String()
		html := gjson.Get(spayload, "Html").Bool()
		toArr := gjson.Get(spayload, "To").Array()
		to := make([]string, 0)
		for _, item := range toArr {
			to = append(to, item.String())
		}

		go func() {
			if utils.IsProd() {
				awslib.SESSendMessage(from, to, subject, body, html)
				return
			}
			input := &lib.SendMailInput{
				From:     from,
				FromName: fromName,
				To:       to,
				Subject:  subject,
				Body:     body,
				Html:     html,
			}
			if err := lib.SendMail(input); err != nil {
				log.Printf("[MAILER] error sending email: %s\n", err.Error())
				return
			}
			log.Printf("[MAILER]: an email has been sent to %s\n", to)
		}()
	})
	c.Listen()
}

func senderAddress() (string, string) {
	from := os.Getenv("MAILER_FROM")
	fromName := os.Getenv("MAILER_FROM_NAME")
	if from == "" {
		from = "noreply@localhost"
	}
	return from, fromName
}

// NotifyRequestApproved tells a user their join request went through. Best
// effort, errors are logged and swallowed.
func NotifyRequestApproved(user *models.User, game *models.Game) {
	from, fromName := senderAddress()
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your request to join <strong>%s</strong> has been approved. You can now pick a seat.</p>",
		user.Name,
		game.GameName,
	)
	input := &lib.SendMailInput{
		From:     from,
		FromName: fromName,
		To:       []string{user.Email},
		Subject:  fmt.Sprintf("Request approved for %s", game.GameName),
		Body:     body,
		Html:     true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[MAILER] error queueing approval email: %s\n", err.Error())
	}
}

// NotifyWinner congratulates a declared winner with the gift on their seat.
func NotifyWinner(seat *models.Seat, game *models.Game) {
	if seat.User == nil {
		return
	}
	gift := game.UniversalGift
	if seat.Gift != nil {
		gift = *seat.Gift
	}
	from, fromName := senderAddress()
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Congratulations! Seat <strong>%d</strong> in <strong>%s</strong> has been declared a winner.</p><p>Your gift: %s</p>",
		seat.User.Name,
		seat.SeatNumber,
		game.GameName,
		gift,
	)
	input := &lib.SendMailInput{
		From:     from,
		FromName: fromName,
		To:       []string{seat.User.Email},
		Subject:  fmt.Sprintf("You won in %s!", game.GameName),
		Body:     body,
		Html:     true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[MAILER] error queueing winner email: %s\n", err.Error())
	}
}

// SendPasswordResetOTP mails the one-time code for a password reset.
func SendPasswordResetOTP(user *models.User, otp string) error {
	from, fromName := senderAddress()
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your password reset code is <strong>%s</strong>. It expires in 10 minutes.</p><p>If you did not request this, ignore this email.</p>",
		user.Name,
		otp,
	)
	input := &lib.SendMailInput{
		From:     from,
		FromName: fromName,
		To:       []string{user.Email},
		Subject:  "Your password reset code",
		Body:     body,
		Html:     true,
	}
	return mailer.NewMailerMessage(input)
}
