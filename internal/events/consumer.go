package events

import (
	"context"
	"encoding/json"
	"fmt"

	"gyani-service/internal/domain"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/golang/glog"
)

// Handler reacts to one progress event.
type Handler func(ctx context.Context, event domain.ProgressEvent) error

// Consume subscribes to topic and hands each decoded event to handle until
// ctx is cancelled. Undecodable messages are acked and dropped; handler
// failures are nacked for redelivery.
func Consume(ctx context.Context, sub message.Subscriber, topic string, handle Handler) error {
	messages, err := sub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	go func() {
		for msg := range messages {
			var event domain.ProgressEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				glog.Warningf("dropping malformed progress event %s: %v", msg.UUID, err)
				msg.Ack()
				continue
			}
			if err := handle(msg.Context(), event); err != nil {
				glog.Warningf("progress event %s not handled: %v", msg.UUID, err)
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

// LogEvent is a Handler that writes an audit line per event.
func LogEvent(_ context.Context, event domain.ProgressEvent) error {
	switch event.Type {
	case domain.EventModuleCompleted:
		glog.Infof("profile %s completed module %s (%d/%d)", event.ProfileID, event.ModuleID,
			event.Summary.CompletedCount, event.Summary.TotalCount)
	case domain.EventQuizCompleted:
		if event.Entry != nil {
			glog.Infof("profile %s finished a quiz: %s, %d/%d correct", event.ProfileID, event.Entry.Grade,
				event.Entry.CorrectAnswers, event.Entry.TotalQuestions)
		}
	default:
		glog.Infof("profile %s event %s", event.ProfileID, event.Type)
	}
	return nil
}
