package ports

import "context"

type SessionValidator interface {
	Validate(ctx context.Context) bool
}
