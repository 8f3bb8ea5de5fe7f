// Package notifier pushes a periodic digest of the derived notifications to
// staff devices.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"homecare-rental/internal/config"
	"homecare-rental/internal/models"
	"homecare-rental/internal/repository"
	"homecare-rental/internal/timeline"
	"homecare-rental/pkg/utils"

	"github.com/bsm/redislock"
	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

const (
	digestLockKey  = "lock:notifier:digest"
	maxDigestLines = 3
	runTimeout     = 2 * time.Minute
)

// ErrLocked is returned by RunOnce when another replica holds the digest lock.
var ErrLocked = errors.New("notifier: digest already running elsewhere")

type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMSender sends through Firebase Cloud Messaging.
type FCMSender struct{}

func (FCMSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	return utils.SendNotification(ctx, token, title, body, data)
}

// Locker is satisfied by *redislock.Client.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

type Notifier struct {
	Store   repository.Store
	Sender  Sender
	Locker  Locker
	LockTTL time.Duration
	Now     func() time.Time
	Logger  *logrus.Logger
}

// New wires the notifier to FCM and, when redis is up, to the shared lock.
func New(store repository.Store) *Notifier {
	n := &Notifier{
		Store:   store,
		Sender:  FCMSender{},
		LockTTL: runTimeout,
		Now:     time.Now,
		Logger:  config.GetLogger(),
	}
	if l := config.GetRedisLock(); l != nil {
		n.Locker = l
	}
	return n
}

type Digest struct {
	Title     string
	Body      string
	Data      map[string]string
	Overdue   int
	DueSoon   int
	Reminders int
}

// BuildDigest summarises items into one push message. ok is false when there
// is nothing to report.
func BuildDigest(items []timeline.NotificationItem) (d Digest, ok bool) {
	if len(items) == 0 {
		return Digest{}, false
	}
	for _, it := range items {
		switch it.Type {
		case timeline.NotificationOverdue:
			d.Overdue++
		case timeline.NotificationDueSoon:
			d.DueSoon++
		case timeline.NotificationReminder:
			d.Reminders++
		}
	}

	var parts []string
	if d.Overdue > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", d.Overdue))
	}
	if d.DueSoon > 0 {
		parts = append(parts, fmt.Sprintf("%d due soon", d.DueSoon))
	}
	if d.Reminders > 0 {
		parts = append(parts, fmt.Sprintf("%d reminder(s)", d.Reminders))
	}
	d.Title = "Homecare: " + strings.Join(parts, ", ")

	lines := make([]string, 0, maxDigestLines+1)
	for i, it := range items {
		if i == maxDigestLines {
			lines = append(lines, fmt.Sprintf("and %d more", len(items)-maxDigestLines))
			break
		}
		lines = append(lines, it.Message)
	}
	d.Body = strings.Join(lines, "\n")

	d.Data = map[string]string{
		"type":     "digest",
		"overdue":  strconv.Itoa(d.Overdue),
		"due_soon": strconv.Itoa(d.DueSoon),
		"reminder": strconv.Itoa(d.Reminders),
	}
	return d, true
}

// StaffTokens returns the distinct device tokens of active admins and staff.
func StaffTokens(users []models.User) []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range users {
		if !u.IsActive || u.FCMToken == "" || seen[u.FCMToken] {
			continue
		}
		if u.RoleID != models.RoleAdmin && u.RoleID != models.RoleStaff {
			continue
		}
		seen[u.FCMToken] = true
		out = append(out, u.FCMToken)
	}
	return out
}

// RunOnce derives the current notifications and pushes the digest to every
// staff device. It returns the number of devices reached.
func (n *Notifier) RunOnce(ctx context.Context) (int, error) {
	if n.Locker != nil {
		lock, err := n.Locker.Obtain(ctx, digestLockKey, n.LockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			return 0, ErrLocked
		}
		if err != nil {
			return 0, err
		}
		defer func() {
			_ = lock.Release(context.Background())
		}()
	}

	src, err := repository.LoadSources(ctx, n.Store, repository.Scope{})
	if err != nil {
		return 0, err
	}
	digest, ok := BuildDigest(timeline.DeriveNotifications(n.Now(), src))
	if !ok {
		return 0, nil
	}

	users, err := n.Store.Users(ctx)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, token := range StaffTokens(users) {
		if err := n.Sender.Send(ctx, token, digest.Title, digest.Body, digest.Data); err != nil {
			config.LogError(n.Logger, "notifier", "RunOnce", "send digest", token, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// Start schedules RunOnce every intervalMinutes. Runs never overlap.
func (n *Notifier) Start(intervalMinutes int) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.Local)
	scheduler.SingletonModeAll()

	_, err := scheduler.Every(intervalMinutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		sent, err := n.RunOnce(ctx)
		switch {
		case errors.Is(err, ErrLocked):
			n.Logger.Debug("notification digest skipped, lock held")
		case err != nil:
			config.LogError(n.Logger, "notifier", "Start", "digest run", nil, err)
		default:
			n.Logger.WithField("devices", sent).Info("notification digest sent")
		}
	})
	if err != nil {
		return nil, err
	}

	scheduler.StartAsync()
	n.Logger.WithField("interval_minutes", intervalMinutes).Info("notification digest scheduled")
	return scheduler, nil
}
