package commander_test

import (
	"context"
	"testing"

	"github.com/MichalMitros/cms-sync/pkg/v1/commander"
	"github.com/MichalMitros/cms-sync/pkg/v1/commander/mocks"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUnitSendSyncCommand(t *testing.T) {
	category := faker.Word()

	tests := map[string]struct {
		cmd         commander.SyncCommand
		body        string
		senderError error
		wantErr     error
	}{
		"full sync": {
			cmd:  commander.SyncCommand{},
			body: `{"dryRun":false,"forceUpdate":false}`,
		},
		"category dry run": {
			cmd:  commander.SyncCommand{Category: category, DryRun: true},
			body: `{"category":"` + category + `","dryRun":true,"forceUpdate":false}`,
		},
		"forced": {
			cmd:  commander.SyncCommand{ForceUpdate: true},
			body: `{"dryRun":false,"forceUpdate":true}`,
		},
		"sender error": {
			cmd:         commander.SyncCommand{},
			body:        `{"dryRun":false,"forceUpdate":false}`,
			senderError: assert.AnError,
			wantErr:     assert.AnError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sender := mocks.NewSender(t)
			sender.On("Send", mock.Anything, []byte(tt.body)).Return(tt.senderError)

			cmndr := commander.NewSyncCommander(sender)
			err := cmndr.SendSyncCommand(context.TODO(), tt.cmd)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
		})
	}
}
