package utils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

var sesClient *ses.Client

func init() {
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Printf("AWS config load failed, email disabled: %v", err)
		return
	}
	sesClient = ses.NewFromConfig(cfg)
}

// generic SES sender
func sendEmail(to string, subject string, body string) error {
	if sesClient == nil {
		return fmt.Errorf("email client not configured")
	}

	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
		Source: aws.String(os.Getenv("SES_EMAIL")),
	}

	_, err := sesClient.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("SES send error: %v", err)
		return fmt.Errorf("email send failed: %v", err)
	}
	return nil
}

// SendSubscriptionTokenEmail delivers the activation code the user copies
// into the mobile app.
func SendSubscriptionTokenEmail(to string, token string, expiresAt time.Time) error {
	subject := "Your subscription activation code"
	body := fmt.Sprintf(
		"Your payment was approved.\n\nActivation code: %s\n\nEnter it in the app before %s to activate your access.",
		token, expiresAt.Format("2006-01-02"),
	)
	return sendEmail(to, subject, body)
}

// SendVerificationDecisionEmail notifies a nutritionist of the admin's
// approve/deny decision.
func SendVerificationDecisionEmail(to string, approved bool) error {
	subject := "Your account review"
	body := "Your nutritionist account has been approved. You can now log in."
	if !approved {
		body = "Your nutritionist account application has been denied."
	}
	return sendEmail(to, subject, body)
}
