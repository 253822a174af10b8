package ports

import "context"

// Completer issues exactly one text-completion request per call. No internal
// retry: retry and fallback policy belong to the caller. Implementations
// must map transport, auth, and quota failures to core.ErrProviderUnavailable.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
