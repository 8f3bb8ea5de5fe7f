package utils

import (
	"context"
	"errors"
	"os"

	"homecare-rental/internal/config"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

var fcmClient *messaging.Client

// ErrFCMDisabled is returned by SendNotification when InitFCM found no credentials.
var ErrFCMDisabled = errors.New("fcm: push notifications are not configured")

// InitFCM connects to Firebase Cloud Messaging using the service account file
// named by FIREBASE_CREDENTIALS. Push stays disabled when the variable is unset.
func InitFCM(ctx context.Context) error {
	logger := config.GetLogger()

	path := os.Getenv("FIREBASE_CREDENTIALS")
	if path == "" {
		logger.Warn("FIREBASE_CREDENTIALS not set, push notifications disabled")
		return nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(path))
	if err != nil {
		return err
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return err
	}

	fcmClient = client
	logger.Info("Firebase Cloud Messaging ready")
	return nil
}

func FCMEnabled() bool {
	return fcmClient != nil
}

// SendNotification pushes one message to one device token.
func SendNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	if fcmClient == nil {
		return ErrFCMDisabled
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	id, err := fcmClient.Send(ctx, message)
	if err != nil {
		return err
	}

	config.GetLogger().WithFields(logrus.Fields{"message_id": id}).Debug("push notification sent")
	return nil
}
