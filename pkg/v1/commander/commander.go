package commander

import (
	"context"
	"encoding/json"
	"fmt"
)

//go:generate mockery --name Sender --filename sender.go

// Sender sends messages.
type Sender interface {
	Send(context.Context, []byte) error
}

// SyncCommander sends sync commands.
type SyncCommander struct {
	sender Sender
}

// NewSyncCommander returns new SyncCommander using provided sender for sending messages.
func NewSyncCommander(sender Sender) SyncCommander {
	return SyncCommander{
		sender: sender,
	}
}

// SendSyncCommand sends sync command. Zero command requests full synchronization.
func (c SyncCommander) SendSyncCommand(ctx context.Context, cmd SyncCommand) error {
	cmdMsg, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("can't marshal sync command: %w", err)
	}

	if err := c.sender.Send(ctx, cmdMsg); err != nil {
		return fmt.Errorf("can't send sync command: %w", err)
	}

	return nil
}
