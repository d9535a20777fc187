package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/commonroom/community-platform/internal/api/metrics"
	"github.com/commonroom/community-platform/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes delivery notifications to a fixed set of workers using
// consistent hashing on the chat id, guaranteeing per-chat delivery ordering.
type Dispatcher struct {
	workers []chan ports.DeliveryInput
	service ports.DeliveryService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.DeliveryService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.DeliveryInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.DeliveryInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a delivery to the worker responsible for its chat.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(delivery ports.DeliveryInput) {
	i := d.shardIndex(delivery.ChatID)
	d.workers[i] <- delivery
	metrics.DeliveryQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a chat id deterministically to a worker index.
func (d *Dispatcher) shardIndex(chatID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(chatID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.DeliveryInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-ch:
			if !ok {
				return
			}
			metrics.DeliveryQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.service.Process(ctx, delivery); err != nil {
				d.log.Error().Err(err).
					Str("chat_id", delivery.ChatID).
					Str("message_id", delivery.MessageID).
					Int("worker_id", id).
					Msg("delivery processing failed")
				continue
			}
			metrics.MessagesDeliveredTotal.Inc()
		}
	}
}
