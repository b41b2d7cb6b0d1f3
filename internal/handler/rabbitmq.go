package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MichalMitros/cms-sync/internal/platform"
	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/MichalMitros/cms-sync/internal/platform/rabbitmq"
	"github.com/MichalMitros/cms-sync/internal/syncer"
	"github.com/MichalMitros/cms-sync/pkg/v1/commander"
	"github.com/rs/zerolog"
)

//go:generate mockery --name Consumer --filename consumer.go
//go:generate mockery --name Publisher --filename publisher.go
//go:generate mockery --name Syncer --filename syncer.go

// Consumer consumes messages from queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler rabbitmq.HandlerFunc) (<-chan error, error)
}

// Publisher publishes messages with routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message []byte) error
}

// Syncer synchronizes products from CMS.
type Syncer interface {
	SyncProducts(ctx context.Context, opts syncer.Options) (models.SyncResult, error)
}

// RMQHandler handles sync commands from RMQ.
type RMQHandler struct {
	consumer   Consumer
	publisher  Publisher
	syncer     Syncer
	resultsKey string
	logger     *zerolog.Logger
}

// NewHandler returns new RMQHandler. Sync results are published to resultsKey unless it is empty.
func NewHandler(consumer Consumer, publisher Publisher, syn Syncer, resultsKey string, logger *zerolog.Logger) *RMQHandler {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &RMQHandler{
		consumer:   consumer,
		publisher:  publisher,
		syncer:     syn,
		resultsKey: resultsKey,
		logger:     logger,
	}
}

// Start starts consuming and handling sync commands from RMQ.
func (h *RMQHandler) Start(ctx context.Context, queue string) error {
	errorsChan, err := h.consumer.Consume(ctx, queue, h.HandleMessage)
	if err != nil {
		return fmt.Errorf("can't start consuming %s: %w", queue, err)
	}

	go func() {
		for err := range errorsChan {
			h.logger.Error().
				Err(err).
				Msg("can't handle message")
		}
	}()

	return nil
}

// HandleMessage runs synchronization requested by message and publishes its result.
// Command rejected because of running synchronization is dropped with warning.
func (h *RMQHandler) HandleMessage(ctx context.Context, message []byte) error {
	cmd, err := decodeMessage(message)
	if err != nil {
		return err
	}

	h.logger.Debug().
		Str("category", cmd.Category).
		Bool("dryRun", cmd.DryRun).
		Bool("forceUpdate", cmd.ForceUpdate).
		Msg("sync command received")

	result, err := h.syncer.SyncProducts(ctx, syncer.Options{
		Category:    cmd.Category,
		DryRun:      cmd.DryRun,
		ForceUpdate: cmd.ForceUpdate,
	})
	if errors.Is(err, platform.ErrSyncInProgress) {
		h.logger.Warn().
			Str("category", cmd.Category).
			Msg("sync command skipped, sync already in progress")
		return nil
	}

	publishErr := h.publishResult(ctx, result)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	return publishErr
}

func (h *RMQHandler) publishResult(ctx context.Context, result models.SyncResult) error {
	if h.resultsKey == "" {
		return nil
	}

	msg, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("can't encode sync result: %w", err)
	}

	if err := h.publisher.Publish(ctx, h.resultsKey, msg); err != nil {
		return fmt.Errorf("can't publish sync result: %w", err)
	}

	return nil
}

func decodeMessage(msg []byte) (*commander.SyncCommand, error) {
	var cmd commander.SyncCommand
	err := json.Unmarshal(msg, &cmd)
	if err != nil {
		return nil, fmt.Errorf("can't decode sync command: %w", err)
	}

	return &cmd, nil
}
