package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/melodia-app/melodia-go-api/internal/dto"
)

const eventBufferSize = 16

// Event actions published on mutations.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// EventService fans change notifications out to subscribed clients so they
// can re-fetch the tables they render. Local subscribers receive events
// directly; Redis pub/sub and NATS carry them across nodes.
type EventService interface {
	Publish(ctx context.Context, resource, action string, entityID uint)
	Subscribe() (<-chan dto.ChangeEvent, func())
	Start(ctx context.Context)
}

type eventService struct {
	redis        *redis.Client
	redisChannel string
	nats         *nats.Conn
	natsSubject  string
	logger       zerolog.Logger
	broker       *eventBroker
	nodeID       string
}

type eventEnvelope struct {
	Source string          `json:"source"`
	Event  dto.ChangeEvent `json:"event"`
}

type eventBroker struct {
	mu          sync.RWMutex
	subscribers map[chan dto.ChangeEvent]struct{}
}

// NewEventService constructs an event service. Redis and NATS are both
// optional; with neither, events still reach local subscribers.
func NewEventService(redisClient *redis.Client, natsConn *nats.Conn, channelBase string, logger zerolog.Logger) EventService {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":events"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".events"
	}

	return &eventService{
		redis:        redisClient,
		redisChannel: channel,
		nats:         natsConn,
		natsSubject:  subject,
		logger:       logger.With().Str("component", "event_service").Logger(),
		broker:       &eventBroker{subscribers: make(map[chan dto.ChangeEvent]struct{})},
		nodeID:       uuid.NewString(),
	}
}

func (s *eventService) Start(ctx context.Context) {
	if s.redis != nil && s.redisChannel != "" {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil && s.natsSubject != "" {
		go s.consumeNATS(ctx)
	}
}

func (s *eventService) Publish(ctx context.Context, resource, action string, entityID uint) {
	event := dto.ChangeEvent{
		Resource: resource,
		Action:   action,
		EntityID: entityID,
		SentAt:   time.Now().UTC(),
	}

	s.broker.broadcast(event)

	envelope := eventEnvelope{Source: s.nodeID, Event: event}
	payload, err := json.Marshal(envelope)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to serialize change event")
		return
	}

	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(ctx, s.redisChannel, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish change event to redis")
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish change event to nats")
		}
	}
}

func (s *eventService) Subscribe() (<-chan dto.ChangeEvent, func()) {
	ch := make(chan dto.ChangeEvent, eventBufferSize)

	s.broker.mu.Lock()
	s.broker.subscribers[ch] = struct{}{}
	s.broker.mu.Unlock()

	cleanup := func() {
		s.broker.mu.Lock()
		if _, ok := s.broker.subscribers[ch]; ok {
			delete(s.broker.subscribers, ch)
			close(ch)
		}
		s.broker.mu.Unlock()
	}

	return ch, cleanup
}

func (s *eventService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisChannel)
	defer pubsub.Close()

	channel := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-channel:
			if !ok {
				return
			}
			s.dispatch([]byte(msg.Payload))
		}
	}
}

func (s *eventService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.Subscribe(s.natsSubject, func(msg *nats.Msg) {
		s.dispatch(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats events")
		return
	}
	defer func() {
		_ = sub.Unsubscribe()
	}()

	<-ctx.Done()
}

func (s *eventService) dispatch(payload []byte) {
	var envelope eventEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("discarding malformed change event")
		return
	}
	if envelope.Source == s.nodeID {
		return
	}
	s.broker.broadcast(envelope.Event)
}

// broadcast delivers the event to every local subscriber, dropping it for
// slow consumers rather than blocking the publisher.
func (b *eventBroker) broadcast(event dto.ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for subscriber := range b.subscribers {
		select {
		case subscriber <- event:
		default:
		}
	}
}
