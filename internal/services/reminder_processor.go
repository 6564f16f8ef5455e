package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"paisa/internal/amqp"
	"paisa/internal/core"
	"paisa/internal/store"
)

// ReminderProcessor rolls lapsed subscription payment dates forward and
// publishes reminders for payments due inside the look-ahead window.
type ReminderProcessor struct {
	store     store.SubscriptionStore
	publisher AlertPublisher
}

func NewReminderProcessor(st store.SubscriptionStore, publisher AlertPublisher) *ReminderProcessor {
	return &ReminderProcessor{
		store:     st,
		publisher: publisher,
	}
}

// ProcessReminders runs one reminder pass at the given reference time and
// returns how many reminders were published.
func (p *ReminderProcessor) ProcessReminders(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	subs, err := p.store.ListSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscriptions: %w", err)
	}

	slog.InfoContext(ctx, "Processing subscription reminders",
		"total", len(subs),
		"reference_date", now.Format("2006-01-02"))

	// Roll lapsed payment dates forward first so the window evaluation
	// below never reports a payment that is already in the past.
	for i, sub := range subs {
		rolled := core.NextPaymentAfter(sub, now)
		if rolled.Equal(sub.NextPayment.Time) {
			continue
		}

		if err := p.store.UpdateSubscriptionNextPayment(ctx, sub.ID, rolled); err != nil {
			slog.ErrorContext(ctx, "Failed to roll subscription payment date",
				"id", sub.ID,
				"name", sub.Name,
				"error", err)
			continue
		}

		subs[i].NextPayment = rolled
		slog.InfoContext(ctx, "Rolled lapsed subscription payment date",
			"id", sub.ID,
			"name", sub.Name,
			"next_payment", rolled.Format("2006-01-02"))
	}

	upcoming := core.EvaluateUpcomingSubscriptionPayments(subs, now, core.UpcomingWindowDays)

	published := 0
	for _, up := range upcoming {
		severity := amqp.SeverityInfo
		if up.Urgent {
			severity = amqp.SeverityCritical
		}

		msg := amqp.NewAlertMessage(amqp.AlertSubscriptionDue, severity, up.Subscription.Name, map[string]string{
			"subscription_id": up.Subscription.ID,
			"amount":          up.Subscription.Amount.String(),
			"days_until":      strconv.Itoa(up.DaysUntil),
			"next_payment":    up.Subscription.NextPayment.Format("2006-01-02"),
		})

		if p.publisher == nil {
			continue
		}
		if err := p.publisher.PublishAlert(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish subscription reminder",
				"id", up.Subscription.ID,
				"name", up.Subscription.Name,
				"error", err)
			continue
		}

		published++
		slog.InfoContext(ctx, "Published subscription reminder",
			"id", up.Subscription.ID,
			"name", up.Subscription.Name,
			"days_until", up.DaysUntil,
			"urgent", up.Urgent)
	}

	slog.InfoContext(ctx, "Subscription reminder pass complete",
		"upcoming", len(upcoming),
		"published", published)

	return published, nil
}
