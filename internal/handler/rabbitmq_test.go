package handler_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/MichalMitros/cms-sync/internal/handler"
	"github.com/MichalMitros/cms-sync/internal/handler/mocks"
	"github.com/MichalMitros/cms-sync/internal/platform"
	"github.com/MichalMitros/cms-sync/internal/platform/models"
	"github.com/MichalMitros/cms-sync/internal/syncer"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const resultsKey = "cms-sync.results"

func TestUnitHandleMessage(t *testing.T) {
	category := faker.Word()
	result := models.SyncResult{
		ID:            uuid.New(),
		Success:       true,
		ProductsAdded: 2,
		Errors:        []models.SyncError{},
		LastSync:      time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
		Duration:      time.Second,
	}
	failed := models.SyncResult{
		ID:     uuid.New(),
		Errors: []models.SyncError{{Op: models.OpFetch, Err: assert.AnError}},
	}

	tests := map[string]struct {
		message      string
		wantOptions  *syncer.Options
		syncResult   models.SyncResult
		syncErr      error
		wantPublish  *models.SyncResult
		publishErr   error
		wantErr      error
		wantErrMatch string
	}{
		"full sync": {
			message:     `{"dryRun":false,"forceUpdate":false}`,
			wantOptions: &syncer.Options{},
			syncResult:  result,
			wantPublish: &result,
		},
		"category dry run": {
			message:     `{"category":"` + category + `","dryRun":true}`,
			wantOptions: &syncer.Options{Category: category, DryRun: true},
			syncResult:  result,
			wantPublish: &result,
		},
		"forced": {
			message:     `{"forceUpdate":true}`,
			wantOptions: &syncer.Options{ForceUpdate: true},
			syncResult:  result,
			wantPublish: &result,
		},
		"sync in progress": {
			message:     `{}`,
			wantOptions: &syncer.Options{},
			syncErr:     platform.ErrSyncInProgress,
		},
		"sync failed": {
			message:      `{}`,
			wantOptions:  &syncer.Options{},
			syncResult:   failed,
			syncErr:      assert.AnError,
			wantPublish:  &failed,
			wantErr:      assert.AnError,
			wantErrMatch: "sync failed",
		},
		"publish failed": {
			message:      `{}`,
			wantOptions:  &syncer.Options{},
			syncResult:   result,
			wantPublish:  &result,
			publishErr:   assert.AnError,
			wantErr:      assert.AnError,
			wantErrMatch: "can't publish sync result",
		},
		"invalid message": {
			message:      `not-json`,
			wantErrMatch: "can't decode sync command",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			syn := mocks.NewSyncer(t)
			publisher := mocks.NewPublisher(t)

			if tt.wantOptions != nil {
				syn.On("SyncProducts", mock.Anything, *tt.wantOptions).Return(tt.syncResult, tt.syncErr).Once()
			}
			if tt.wantPublish != nil {
				body, err := json.Marshal(tt.wantPublish)
				require.NoError(t, err, "should encode expected result")
				publisher.On("Publish", mock.Anything, resultsKey, body).Return(tt.publishErr).Once()
			}

			han := handler.NewHandler(mocks.NewConsumer(t), publisher, syn, resultsKey, nil)
			err := han.HandleMessage(context.TODO(), []byte(tt.message))

			if tt.wantErrMatch == "" {
				require.NoError(t, err, "should handle message")
				return
			}
			require.ErrorContains(t, err, tt.wantErrMatch, "should return correct error")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr, "should wrap cause")
			}
		})
	}
}

func TestUnitHandleMessageWithoutResultsKey(t *testing.T) {
	syn := mocks.NewSyncer(t)
	syn.On("SyncProducts", mock.Anything, syncer.Options{}).Return(models.SyncResult{ID: uuid.New(), Success: true}, nil).Once()

	han := handler.NewHandler(mocks.NewConsumer(t), mocks.NewPublisher(t), syn, "", nil)
	err := han.HandleMessage(context.TODO(), []byte(`{}`))

	require.NoError(t, err, "should skip publishing")
}

func TestUnitStart(t *testing.T) {
	t.Run("consuming started", func(t *testing.T) {
		errs := make(chan error)
		close(errs)

		consumer := mocks.NewConsumer(t)
		consumer.On("Consume", mock.Anything, "cms-sync.commands", mock.Anything).Return((<-chan error)(errs), nil).Once()

		han := handler.NewHandler(consumer, mocks.NewPublisher(t), mocks.NewSyncer(t), resultsKey, nil)

		require.NoError(t, han.Start(context.TODO(), "cms-sync.commands"), "should start consuming")
	})

	t.Run("consume error", func(t *testing.T) {
		consumer := mocks.NewConsumer(t)
		consumer.On("Consume", mock.Anything, "cms-sync.commands", mock.Anything).Return(nil, assert.AnError).Once()

		han := handler.NewHandler(consumer, mocks.NewPublisher(t), mocks.NewSyncer(t), resultsKey, nil)
		err := han.Start(context.TODO(), "cms-sync.commands")

		require.ErrorIs(t, err, assert.AnError, "should return consume error")
	})
}
