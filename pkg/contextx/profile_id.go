package contextx

import (
	"context"
	"fmt"
)

// ProfileID identifies the player profile a request acts on behalf of.
type ProfileID string

type contextKeyProfileID struct{}

func (p ProfileID) String() string {
	return string(p)
}

func WithProfileID(ctx context.Context, profileID ProfileID) context.Context {
	return context.WithValue(ctx, contextKeyProfileID{}, profileID)
}

func ProfileIDFromContext(ctx context.Context) (ProfileID, error) {
	profileID, ok := ctx.Value(contextKeyProfileID{}).(ProfileID)
	if !ok {
		return "", fmt.Errorf("profile id: %w", ErrNoValue)
	}

	return profileID, nil
}
