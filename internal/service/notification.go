package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"academy/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationEnrollmentActive  NotificationType = "ENROLLMENT_ACTIVE"
	NotificationEnrollmentPending NotificationType = "ENROLLMENT_PENDING"
	NotificationPaymentAttempted  NotificationType = "PAYMENT_ATTEMPTED"
	NotificationPaymentConfirmed  NotificationType = "PAYMENT_CONFIRMED"
)

// Notification represents an event to deliver to a learner.
type Notification struct {
	Type        NotificationType `json:"type"`
	RecipientID string           `json:"recipient_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        map[string]any   `json:"data"`
	CreatedAt   time.Time        `json:"created_at"`
}

// NotificationService delivers enrollment notifications. Delivery is strictly
// fire-and-forget: a failure here must never fail an enrollment, so every
// method swallows errors after logging them.
type NotificationService struct {
	writer *kafka.Writer // nil means log-only delivery
}

// NewNotificationService creates a new NotificationService. Pass a nil writer
// to log notifications instead of publishing them.
func NewNotificationService(writer *kafka.Writer) *NotificationService {
	return &NotificationService{writer: writer}
}

// NewKafkaWriter builds the writer for the enrollment events topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
}

// NotifyEnrollmentActive congratulates a learner on gaining course access.
func (s *NotificationService) NotifyEnrollmentActive(learnerID string, course *domain.Course) {
	s.send(Notification{
		Type:        NotificationEnrollmentActive,
		RecipientID: learnerID,
		Title:       "You're enrolled!",
		Message:     fmt.Sprintf("Congratulations, you now have access to %q.", course.Title),
		Data: map[string]any{
			"course_id":    course.ID,
			"course_title": course.Title,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyEnrollmentPending tells a learner their manual payment is under review.
func (s *NotificationService) NotifyEnrollmentPending(learnerID string, course *domain.Course, reviewWindow time.Duration) {
	s.send(Notification{
		Type:        NotificationEnrollmentPending,
		RecipientID: learnerID,
		Title:       "Payment received",
		Message: fmt.Sprintf("We received your payment details for %q. A reviewer will confirm within %s.",
			course.Title, formatWindow(reviewWindow)),
		Data: map[string]any{
			"course_id":     course.ID,
			"review_window": reviewWindow.String(),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentAttempted records a payment attempt on the event stream. Not
// learner-facing; downstream consumers use it for reconciliation.
func (s *NotificationService) NotifyPaymentAttempted(attempt domain.PaymentAttempt) {
	s.send(Notification{
		Type:        NotificationPaymentAttempted,
		RecipientID: attempt.LearnerID,
		Title:       "Payment attempt",
		Message:     fmt.Sprintf("Payment attempt via %s for course %s.", attempt.Channel, attempt.CourseID),
		Data: map[string]any{
			"course_id": attempt.CourseID,
			"amount":    attempt.Amount,
			"currency":  attempt.Currency,
			"channel":   string(attempt.Channel),
			"outcome":   string(attempt.Outcome),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentConfirmed tells a learner their gateway payment was confirmed.
func (s *NotificationService) NotifyPaymentConfirmed(learnerID, courseID, paymentRef string) {
	s.send(Notification{
		Type:        NotificationPaymentConfirmed,
		RecipientID: learnerID,
		Title:       "Payment confirmed",
		Message:     "Your payment was confirmed and your course is now unlocked.",
		Data: map[string]any{
			"course_id":   courseID,
			"payment_ref": paymentRef,
		},
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(n Notification) {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s", n.Type, n.RecipientID, n.Title)

	if s.writer == nil {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("notification marshal failed: %v", err)
		return
	}

	// Publish off the request path; the enrollment result never waits on it.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(n.RecipientID),
			Value: payload,
		}); err != nil {
			log.Printf("notification publish failed: %v", err)
		}
	}()
}

func formatWindow(d time.Duration) string {
	if h := int(d.Hours()); h >= 1 {
		return fmt.Sprintf("%d hours", h)
	}
	return d.String()
}
