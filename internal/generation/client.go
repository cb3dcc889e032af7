package generation

import "context"

// Client defines the boundary between the application and an external
// generative-text provider, following the hexagonal architecture pattern.
type Client interface {
	// Complete sends the system instruction and user content to the provider
	// and returns the generated text.
	//
	// Implementations must honour ctx for deadlines and cancellation and
	// must report failures as *ProviderError. They must not retry and must
	// not classify errors; that is Classify's job.
	Complete(ctx context.Context, system, user string) (string, error)
}

// ClientFunc adapts an ordinary function to the Client interface.
type ClientFunc func(ctx context.Context, system, user string) (string, error)

// Complete calls f(ctx, system, user).
func (f ClientFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}
