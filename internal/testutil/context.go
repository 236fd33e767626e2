package testutil

import (
	"context"

	"github.com/arpay/arpay/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}

// SetupContextWithUser returns a test context carrying an acting user
func SetupContextWithUser(userID string) context.Context {
	return types.SetUserID(SetupContext(), userID)
}
