package workers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"telewall/internal/features/payment/models"
	paymentservice "telewall/internal/features/payment/service"
)

const (
	readBlock    = 5 * time.Second
	errorBackoff = time.Second
	readCount    = 16

	// pendingRescan is how often unacked messages are retried.
	pendingRescan = time.Minute
)

// Settler applies a successful payment.
type Settler interface {
	Settle(ctx context.Context, payment models.SuccessfulPayment) (*models.Invoice, error)
}

// PaymentStreamWorker consumes bot events from a redis stream and settles successful_payment ones.
type PaymentStreamWorker struct {
	rdb      *redis.Client
	settler  Settler
	stream   string
	group    string
	consumer string
	logger   zerolog.Logger
}

func NewPaymentStreamWorker(rdb *redis.Client, settler Settler, stream, group, consumer string, logger zerolog.Logger) *PaymentStreamWorker {
	return &PaymentStreamWorker{
		rdb:      rdb,
		settler:  settler,
		stream:   stream,
		group:    group,
		consumer: consumer,
		logger:   logger.With().Str("component", "payment_stream").Str("stream", stream).Logger(),
	}
}

// EnsureGroup creates the consumer group (and the stream) if they do not exist.
func (w *PaymentStreamWorker) EnsureGroup(ctx context.Context) error {
	err := w.rdb.XGroupCreateMkStream(ctx, w.stream, w.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Start blocks until ctx is cancelled. Messages left pending by a previous run are replayed first.
func (w *PaymentStreamWorker) Start(ctx context.Context) {
	if err := w.EnsureGroup(ctx); err != nil {
		w.logger.Error().Err(err).Msg("Failed to create consumer group")
	}

	w.logger.Info().Str("group", w.group).Str("consumer", w.consumer).Msg("Payment stream worker started")

	// "0" reads this consumer's pending entries; ">" reads new ones.
	cursor := "0"
	lastScan := time.Now()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Payment stream worker stopped")
			return
		default:
		}

		n, settled, err := w.poll(ctx, cursor)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.Error().Err(err).Msg("Failed to read payment stream")
			select {
			case <-ctx.Done():
			case <-time.After(errorBackoff):
			}
			continue
		}
		// Leave backlog mode once it is drained or a message keeps failing.
		if cursor == "0" && (n < readCount || !settled) {
			cursor = ">"
		} else if cursor == ">" && time.Since(lastScan) > pendingRescan {
			cursor, lastScan = "0", time.Now()
		}
	}
}

// poll reads one batch. It returns how many messages it saw and whether all of them were acked.
func (w *PaymentStreamWorker) poll(ctx context.Context, cursor string) (int, bool, error) {
	args := &redis.XReadGroupArgs{
		Group:    w.group,
		Consumer: w.consumer,
		Streams:  []string{w.stream, cursor},
		Count:    readCount,
		Block:    -1, // no BLOCK argument
	}
	if cursor == ">" {
		args.Block = readBlock
	}

	streams, err := w.rdb.XReadGroup(ctx, args).Result()
	if errors.Is(err, redis.Nil) {
		return 0, true, nil
	}
	if err != nil {
		return 0, false, err
	}

	seen, acked := 0, true
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			seen++
			if !w.handle(ctx, msg) {
				acked = false
				continue
			}
			if err := w.rdb.XAck(ctx, w.stream, w.group, msg.ID).Err(); err != nil {
				w.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to ack message")
				acked = false
			}
		}
	}
	return seen, acked, nil
}

// handle reports whether msg is done with; transient failures leave it pending for a retry.
func (w *PaymentStreamWorker) handle(ctx context.Context, msg redis.XMessage) bool {
	if eventType, _ := msg.Values["type"].(string); eventType != models.EventSuccessfulPayment {
		return true
	}

	payment, err := ParseSuccessfulPayment(msg.Values)
	if err != nil {
		w.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Malformed successful_payment event")
		return true
	}

	_, err = w.settler.Settle(ctx, payment)
	if err == nil {
		return true
	}

	log := w.logger.With().Str("message_id", msg.ID).Str("payload", payment.Payload).Logger()
	if errors.Is(err, paymentservice.ErrInvoiceNotFound) {
		// Retrying cannot help, but Stars were charged with nothing granted.
		log.Error().Err(err).
			Int64("telegram_id", payment.TelegramID).
			Int64("total_amount", payment.TotalAmount).
			Str("charge_id", payment.ChargeID).
			Msg("Payment for unknown invoice, needs manual refund or grant")
		return true
	}
	if isPermanent(err) {
		log.Warn().Err(err).Msg("Payment not settled")
		return true
	}
	log.Error().Err(err).Msg("Payment settlement failed, will retry")
	return false
}

// ParseSuccessfulPayment reads the stream fields written by the bot.
func ParseSuccessfulPayment(values map[string]interface{}) (models.SuccessfulPayment, error) {
	str := func(key string) string {
		s, _ := values[key].(string)
		return s
	}

	p := models.SuccessfulPayment{
		Payload:  str("payload"),
		ChargeID: str("telegram_payment_charge_id"),
		Currency: str("currency"),
	}
	if p.Payload == "" {
		return p, errors.New("payload is missing")
	}

	amount, err := strconv.ParseInt(str("total_amount"), 10, 64)
	if err != nil {
		return p, errors.New("total_amount is not an integer")
	}
	p.TotalAmount = amount

	if raw := str("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return p, errors.New("user_id is not an integer")
		}
		p.TelegramID = id
	}
	return p, nil
}

func isPermanent(err error) bool {
	return errors.Is(err, paymentservice.ErrAlreadySettled) ||
		errors.Is(err, paymentservice.ErrInvoiceNotFound) ||
		errors.Is(err, paymentservice.ErrPaymentMismatch)
}
