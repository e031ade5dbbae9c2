// Package notify carries user-visible notifications (toasts) produced by
// storefront operations back to the response.
package notify

import (
	"context"
	"sync"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is a single user-visible message.
type Notification struct {
	Kind    Kind   `json:"type"`
	Message string `json:"message"`
}

// Notifier receives notifications from stores and services.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Flash collects the notifications raised while serving one request.
// It is safe for concurrent use.
type Flash struct {
	mu    sync.Mutex
	items []Notification
}

func NewFlash() *Flash {
	return &Flash{}
}

func (f *Flash) Success(message string) { f.add(KindSuccess, message) }

func (f *Flash) Error(message string) { f.add(KindError, message) }

func (f *Flash) add(kind Kind, message string) {
	if message == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, Notification{Kind: kind, Message: message})
}

// Drain returns the collected notifications and resets the flash.
func (f *Flash) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.items
	f.items = nil
	return out
}

// Discard drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Success(string) {}
func (discard) Error(string)   {}

type contextKey struct{}

// WithFlash returns a context carrying the request's flash.
func WithFlash(ctx context.Context, f *Flash) context.Context {
	return context.WithValue(ctx, contextKey{}, f)
}

// FlashFrom returns the request's flash, or nil when none was attached.
func FlashFrom(ctx context.Context) *Flash {
	f, _ := ctx.Value(contextKey{}).(*Flash)
	return f
}

// From returns the notifier for ctx, falling back to Discard.
func From(ctx context.Context) Notifier {
	if f := FlashFrom(ctx); f != nil {
		return f
	}
	return Discard
}
