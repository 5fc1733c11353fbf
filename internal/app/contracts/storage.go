package contracts

import "context"

// AvatarStore turns a stored avatar object key into a short-lived URL.
// A key with no backing object resolves to "".
type AvatarStore interface {
	PresignAvatar(ctx context.Context, objectKey string) (string, error)
}
