// Package providers contains text-generation service adapters.
package providers

import "context"

// Request describes a single text completion call.
type Request struct {
	System      string
	User        string
	MaxTokens   int64
	Temperature float64
	TopP        float64
}

// Provider is the capability interface for generative text services.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}
