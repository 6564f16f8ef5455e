package services

import (
	"context"
	"testing"
	"time"

	"paisa/internal/amqp"
	"paisa/internal/core"
	"paisa/internal/store/memory"
)

func TestProcessReminders_PublishesUpcoming(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	pub := &fakePublisher{}
	proc := NewReminderProcessor(st, pub)

	now := time.Date(2025, time.September, 15, 9, 0, 0, 0, time.UTC)

	subs := []core.Subscription{
		{
			ID:            "due-tomorrow",
			Name:          "Streaming",
			Amount:        core.Money{Cents: 499_00},
			Cycle:         core.Monthly,
			NextPayment:   core.NewDate(2025, 9, 16),
			PaymentMethod: core.UPI,
		},
		{
			ID:            "due-next-month",
			Name:          "Gym",
			Amount:        core.Money{Cents: 1200_00},
			Cycle:         core.Monthly,
			NextPayment:   core.NewDate(2025, 10, 20),
			PaymentMethod: core.Card,
		},
	}
	for _, sub := range subs {
		if err := st.AddSubscription(ctx, sub); err != nil {
			t.Fatalf("AddSubscription() error: %v", err)
		}
	}

	published, err := proc.ProcessReminders(ctx, now)
	if err != nil {
		t.Fatalf("ProcessReminders() error: %v", err)
	}
	if published != 1 {
		t.Fatalf("published = %d, want 1", published)
	}

	msg := pub.alerts[0]
	if msg.Kind != amqp.AlertSubscriptionDue {
		t.Errorf("Kind = %s, want %s", msg.Kind, amqp.AlertSubscriptionDue)
	}
	if msg.Severity != amqp.SeverityCritical {
		t.Errorf("Severity = %s, want critical for a payment due tomorrow", msg.Severity)
	}
	if msg.Fields["days_until"] != "1" {
		t.Errorf("days_until = %s, want 1", msg.Fields["days_until"])
	}
}

func TestProcessReminders_RollsLapsedDates(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	proc := NewReminderProcessor(st, &fakePublisher{})

	now := time.Date(2025, time.September, 15, 9, 0, 0, 0, time.UTC)

	lapsed := core.Subscription{
		ID:            "lapsed",
		Name:          "Cloud storage",
		Amount:        core.Money{Cents: 199_00},
		Cycle:         core.Monthly,
		NextPayment:   core.NewDate(2025, 7, 3),
		PaymentMethod: core.Card,
	}
	if err := st.AddSubscription(ctx, lapsed); err != nil {
		t.Fatalf("AddSubscription() error: %v", err)
	}

	if _, err := proc.ProcessReminders(ctx, now); err != nil {
		t.Fatalf("ProcessReminders() error: %v", err)
	}

	subs, err := st.ListSubscriptions(ctx)
	if err != nil {
		t.Fatalf("ListSubscriptions() error: %v", err)
	}
	got := subs[0].NextPayment
	if got.Year() != 2025 || got.Month() != 10 || got.Day() != 3 {
		t.Errorf("next payment = %v, want 2025-10-03", got)
	}
}

func TestProcessReminders_NilPublisher(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	proc := NewReminderProcessor(st, nil)

	if err := st.AddSubscription(ctx, core.Subscription{
		ID:            "due-soon",
		Name:          "News",
		Amount:        core.Money{Cents: 99_00},
		Cycle:         core.Monthly,
		NextPayment:   core.NewDate(2025, 9, 17),
		PaymentMethod: core.UPI,
	}); err != nil {
		t.Fatalf("AddSubscription() error: %v", err)
	}

	now := time.Date(2025, time.September, 15, 9, 0, 0, 0, time.UTC)
	published, err := proc.ProcessReminders(ctx, now)
	if err != nil {
		t.Fatalf("ProcessReminders() error: %v", err)
	}
	if published != 0 {
		t.Errorf("published = %d, want 0 with nil publisher", published)
	}
}
