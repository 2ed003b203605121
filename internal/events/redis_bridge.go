package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const Channel = "tenant-data-changed"

// RedisBridge shares events across server instances. Local delivery always
// happens; the Redis publish is best-effort.
type RedisBridge struct {
	client redis.UniversalClient
	bus    *Bus
	origin string
	logger logrus.FieldLogger
}

type envelope struct {
	Origin string            `json:"origin"`
	Event  TenantDataChanged `json:"event"`
}

func NewRedisBridge(client redis.UniversalClient, bus *Bus, origin string, logger logrus.FieldLogger) *RedisBridge {
	return &RedisBridge{client: client, bus: bus, origin: origin, logger: logger}
}

func (r *RedisBridge) Publish(ev TenantDataChanged) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	r.bus.Publish(ev)

	payload, err := json.Marshal(envelope{Origin: r.origin, Event: ev})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Publish(ctx, Channel, payload).Err(); err != nil {
		r.logger.WithField("tenant_id", ev.TenantID).Warn("redis publish failed: " + err.Error())
	}
}

// Run forwards events from other instances to the local bus until ctx ends.
func (r *RedisBridge) Run(ctx context.Context) {
	sub := r.client.Subscribe(ctx, Channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				r.logger.Warn("dropping malformed event: " + err.Error())
				continue
			}
			if env.Origin == r.origin {
				continue
			}
			r.bus.Publish(env.Event)
		}
	}
}
