// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"time"

	"github.com/fitcircle/fitcircle-backend/internal/domain/shared"
	"github.com/fitcircle/fitcircle-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONNECT USERS COMMAND
// Creates a connection between two users. Connections are symmetric:
// once A connects to B, both see each other in their connection lists
// and neither appears in the other's recommendations anymore.
// ══════════════════════════════════════════════════════════════════════════════

// RecommendationInvalidator drops cached recommendation results for a user.
// Implementations live in infrastructure/persistence.
type RecommendationInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// ConnectUsersCommand contains the data to create a connection.
type ConnectUsersCommand struct {
	// InitiatorID is the ID of the user initiating the connection.
	InitiatorID string

	// TargetID is the ID of the user being connected to.
	TargetID string
}

// Validate validates the command.
func (c ConnectUsersCommand) Validate() error {
	if c.InitiatorID == "" {
		return errors.New("connect_users: initiator_id is required")
	}
	if c.TargetID == "" {
		return errors.New("connect_users: target_id is required")
	}
	if _, err := shared.NewUserID(c.InitiatorID); err != nil {
		return errors.New("connect_users: initiator_id must be a valid user id")
	}
	if _, err := shared.NewUserID(c.TargetID); err != nil {
		return errors.New("connect_users: target_id must be a valid user id")
	}
	if c.InitiatorID == c.TargetID {
		return shared.ErrSelfConnection
	}
	return nil
}

// ConnectUsersResult contains the result of creating a connection.
type ConnectUsersResult struct {
	// InitiatorID and TargetID echo the connected pair.
	InitiatorID string
	TargetID    string

	// ConnectedAt is when the connection was created.
	ConnectedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ConnectUsersHandler handles the ConnectUsersCommand.
type ConnectUsersHandler struct {
	users       user.Repository
	connections user.ConnectionRepository
	invalidator RecommendationInvalidator
}

// NewConnectUsersHandler creates a new ConnectUsersHandler.
// invalidator may be nil when recommendation caching is disabled.
func NewConnectUsersHandler(
	users user.Repository,
	connections user.ConnectionRepository,
	invalidator RecommendationInvalidator,
) *ConnectUsersHandler {
	return &ConnectUsersHandler{
		users:       users,
		connections: connections,
		invalidator: invalidator,
	}
}

// Handle executes the connect users command.
func (h *ConnectUsersHandler) Handle(ctx context.Context, cmd ConnectUsersCommand) (*ConnectUsersResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("connection", "Connect", shared.ErrValidation, err.Error(), err)
	}

	initiatorID := shared.UserID(cmd.InitiatorID)
	targetID := shared.UserID(cmd.TargetID)

	// Both sides must exist before creating an edge between them.
	for _, id := range []shared.UserID{initiatorID, targetID} {
		exists, err := h.users.Exists(ctx, id)
		if err != nil {
			return nil, shared.WrapError("connection", "Connect", shared.ErrDataStore, "failed to check user", err)
		}
		if !exists {
			return nil, shared.ErrUserNotFound
		}
	}

	if err := h.connections.Connect(ctx, initiatorID, targetID); err != nil {
		return nil, err
	}

	// Both users' cached recommendations are stale now.
	if h.invalidator != nil {
		_ = h.invalidator.Invalidate(ctx, cmd.InitiatorID)
		_ = h.invalidator.Invalidate(ctx, cmd.TargetID)
	}

	return &ConnectUsersResult{
		InitiatorID: cmd.InitiatorID,
		TargetID:    cmd.TargetID,
		ConnectedAt: time.Now().UTC(),
	}, nil
}
