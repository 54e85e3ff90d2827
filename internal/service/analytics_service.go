package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"virtual-budtender-be/internal/pkg/logger"
	"virtual-budtender-be/pkg/events"
	pktNats "virtual-budtender-be/pkg/nats"
)

type IAnalyticsService interface {
	Consume(ctx context.Context) error
	Counts() map[string]int
}

// analyticsService drains the in-process event bus, keeps per-type
// counters, and forwards events to NATS when a publisher is configured.
// A broken NATS connection never blocks the chat path.
type analyticsService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	forwarder *pktNats.Publisher // nil when NATS is disabled
	logger    logger.ILogger

	mu     sync.Mutex
	counts map[string]int
}

func NewAnalyticsService(
	pubSub *gochannel.GoChannel,
	topicName string,
	forwarder *pktNats.Publisher,
	log logger.ILogger,
) IAnalyticsService {
	return &analyticsService{
		pubSub:    pubSub,
		topicName: topicName,
		forwarder: forwarder,
		logger:    log,
		counts:    map[string]int{},
	}
}

func (as *analyticsService) Consume(ctx context.Context) error {
	messages, err := as.pubSub.Subscribe(ctx, as.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (as *analyticsService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		as.logger.Error("AnalyticsService", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	as.mu.Lock()
	as.counts[envelope.Type]++
	as.mu.Unlock()

	as.logger.Info("AnalyticsService", "Event recorded", map[string]interface{}{
		"type":    envelope.Type,
		"payload": envelope.Payload,
	})

	if as.forwarder != nil {
		event := events.BaseEvent{
			Type:       envelope.Type,
			Data:       envelope.Payload,
			OccurredAt: envelope.OccurredAt,
		}
		if err := as.forwarder.Publish(ctx, event); err != nil {
			as.logger.Warn("AnalyticsService", "Failed to forward event to NATS", map[string]interface{}{
				"type":  envelope.Type,
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}

// Counts returns a copy of the per-type event counters.
func (as *analyticsService) Counts() map[string]int {
	as.mu.Lock()
	defer as.mu.Unlock()

	out := make(map[string]int, len(as.counts))
	for k, v := range as.counts {
		out[k] = v
	}
	return out
}
