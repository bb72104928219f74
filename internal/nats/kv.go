package nats

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// TripsBucket is the KV bucket that stores trip documents.
const TripsBucket = "TRIPS"

// EnsureTripsBucket creates the trips KV bucket if it does not exist and
// returns a handle to it.
func (c *Client) EnsureTripsBucket(ctx context.Context) (jetstream.KeyValue, error) {
	kv, err := c.js.KeyValue(ctx, TripsBucket)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, fmt.Errorf("failed to open trips bucket: %w", err)
	}

	kv, err = c.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      TripsBucket,
		Description: "Trip documents keyed by user and trip id",
		History:     5,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create trips bucket: %w", err)
	}

	return kv, nil
}
