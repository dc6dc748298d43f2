package command

import (
	"context"
	"errors"
	"time"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// DISCONNECT USERS COMMAND
// Removes an existing connection between two users. After disconnecting,
// both users become visible in each other's recommendations again.
// ══════════════════════════════════════════════════════════════════════════════

// DisconnectUsersCommand contains the data to remove a connection.
type DisconnectUsersCommand struct {
	// InitiatorID is the ID of the user removing the connection.
	InitiatorID string

	// TargetID is the ID of the user being disconnected.
	TargetID string
}

// Validate validates the command.
func (c DisconnectUsersCommand) Validate() error {
	if c.InitiatorID == "" {
		return errors.New("disconnect_users: initiator_id is required")
	}
	if c.TargetID == "" {
		return errors.New("disconnect_users: target_id is required")
	}
	if _, err := shared.NewUserID(c.InitiatorID); err != nil {
		return errors.New("disconnect_users: initiator_id must be a valid user id")
	}
	if _, err := shared.NewUserID(c.TargetID); err != nil {
		return errors.New("disconnect_users: target_id must be a valid user id")
	}
	if c.InitiatorID == c.TargetID {
		return errors.New("disconnect_users: cannot disconnect from self")
	}
	return nil
}

// DisconnectUsersResult contains the result of removing a connection.
type DisconnectUsersResult struct {
	InitiatorID    string
	TargetID       string
	DisconnectedAt time.Time
}

// DisconnectUsersHandler handles the DisconnectUsersCommand.
type DisconnectUsersHandler struct {
	connections user.ConnectionRepository
	invalidator RecommendationInvalidator
}

// NewDisconnectUsersHandler creates a new DisconnectUsersHandler.
// invalidator may be nil when recommendation caching is disabled.
func NewDisconnectUsersHandler(
	connections user.ConnectionRepository,
	invalidator RecommendationInvalidator,
) *DisconnectUsersHandler {
	return &DisconnectUsersHandler{
		connections: connections,
		invalidator: invalidator,
	}
}

// Handle executes the disconnect users command.
func (h *DisconnectUsersHandler) Handle(ctx context.Context, cmd DisconnectUsersCommand) (*DisconnectUsersResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("connection", "Disconnect", shared.ErrValidation, err.Error(), err)
	}

	if err := h.connections.Disconnect(ctx, shared.UserID(cmd.InitiatorID), shared.UserID(cmd.TargetID)); err != nil {
		return nil, err
	}

	if h.invalidator != nil {
		_ = h.invalidator.Invalidate(ctx, cmd.InitiatorID)
		_ = h.invalidator.Invalidate(ctx, cmd.TargetID)
	}

	return &DisconnectUsersResult{
		InitiatorID:    cmd.InitiatorID,
		TargetID:       cmd.TargetID,
		DisconnectedAt: time.Now().UTC(),
	}, nil
}
