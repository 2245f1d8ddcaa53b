package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"mesh-metrics-backend/internal/ingest"
)

var (
	ErrConnect = errors.New("mqtt connect failed")
	ErrTimeout = errors.New("mqtt operation timed out")
)

const qos = 1

type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topics   []string
	Pipeline *ingest.Pipeline
}

// Subscriber feeds events published by headends over MQTT into the
// ingestion pipeline. Messages are acknowledged only once they are stored
// or rejected.
type Subscriber struct {
	client   paho.Client
	topics   []string
	pipeline *ingest.Pipeline
	now      func() time.Time
	ctx      context.Context
}

func New(cfg Config) *Subscriber {
	s := &Subscriber{
		topics:   cfg.Topics,
		pipeline: cfg.Pipeline,
		now:      time.Now,
		ctx:      context.Background(),
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(false)
	opts.SetAutoAckDisabled(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		slog.Error("MQTT connection lost", "error", err)
	})
	opts.SetReconnectingHandler(func(_ paho.Client, _ *paho.ClientOptions) {
		slog.Info("Reconnecting to MQTT broker...", "broker", cfg.Broker)
	})
	// Subscriptions are restored on every (re)connect.
	opts.SetOnConnectHandler(func(c paho.Client) {
		for _, topic := range s.topics {
			token := c.Subscribe(topic, qos, s.onMessage)
			if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
				slog.Error("MQTT subscribe failed", "topic", topic, "error", token.Error())
				continue
			}
			slog.Info("Subscribed to MQTT topic", "topic", topic)
		}
	})

	s.client = paho.NewClient(opts)
	return s
}

func (s *Subscriber) Start(ctx context.Context) error {
	const fn = "Subscriber:Start"
	s.ctx = ctx
	token := s.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("%s:%w:%w", fn, ErrConnect, ErrTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%s:%w:%w", fn, ErrConnect, err)
	}
	slog.InfoContext(ctx, "Connected to MQTT broker", "topics", s.topics)
	return nil
}

func (s *Subscriber) Close(ctx context.Context) {
	slog.InfoContext(ctx, "Closing MQTT subscriber...")
	s.client.Disconnect(250)
}

func (s *Subscriber) onMessage(_ paho.Client, msg paho.Message) {
	if s.handle(s.ctx, msg) {
		msg.Ack()
	}
}

// handle reports whether msg is settled and may be acknowledged.
func (s *Subscriber) handle(ctx context.Context, msg paho.Message) bool {
	ev, err := s.pipeline.Decode(msg.Payload(), ingest.Fallback{
		ID:        ingest.ContentID(msg.Payload()),
		CreatedAt: s.now(),
	})
	if err != nil {
		slog.WarnContext(ctx, "Rejected MQTT message",
			"topic", msg.Topic(),
			"error", err,
		)
		return true
	}
	if err := s.pipeline.Persist(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Error persisting MQTT event",
			"topic", msg.Topic(),
			"id", ev.ID,
			"error", err,
		)
		return false
	}
	return true
}
