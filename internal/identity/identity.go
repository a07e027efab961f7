// Package identity exposes the signed-in user boundary the board consumes.
// Credential handling (sign-in forms, sessions) lives outside this module;
// the board only needs the current user and a change notification stream.
package identity

import (
	"sync"

	"github.com/m2dev/m2do/internal/model"
)

// Provider exposes the current signed-in user, or nil when signed out, plus
// a change notification stream.
type Provider interface {
	// Current returns the signed-in user, nil when there is none.
	Current() *model.User

	// OnChange registers a callback invoked with the new user (nil on sign
	// out) every time the identity changes. The callback is also invoked
	// immediately with the current value. The returned function releases
	// the registration.
	OnChange(fn func(user *model.User)) (unsubscribe func())
}

//go:generate mockery --case underscore --output identitymock --outpkg identitymock --name Provider

// StaticProvider is a Provider driven programmatically through SignIn and
// SignOut. It is what the CLI and the SDK use: the acting user is known up
// front, sign-in state doesn't change behind the process's back.
type StaticProvider struct {
	mu     sync.Mutex
	user   *model.User
	subs   map[int]func(*model.User)
	nextID int
}

var _ Provider = &StaticProvider{}

// NewStaticProvider returns a provider already signed in as user. A nil user
// starts signed out.
func NewStaticProvider(user *model.User) *StaticProvider {
	return &StaticProvider{
		user: user,
		subs: map[int]func(*model.User){},
	}
}

// Current returns the signed-in user.
func (p *StaticProvider) Current() *model.User {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

// OnChange registers a change callback.
func (p *StaticProvider) OnChange(fn func(user *model.User)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	current := p.user
	p.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
		})
	}
}

// SignIn sets the current user and notifies subscribers.
func (p *StaticProvider) SignIn(user model.User) {
	p.notify(&user)
}

// SignOut clears the current user and notifies subscribers.
func (p *StaticProvider) SignOut() {
	p.notify(nil)
}

func (p *StaticProvider) notify(user *model.User) {
	p.mu.Lock()
	p.user = user
	subs := make([]func(*model.User), 0, len(p.subs))
	for id := 0; id < p.nextID; id++ {
		if fn, ok := p.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(user)
	}
}
