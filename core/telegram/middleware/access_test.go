package middleware

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

// senderContext stubs just the sender lookup; the middleware touches nothing
// else on the context.
type senderContext struct {
	tele.Context
	user *tele.User
}

func (c senderContext) Sender() *tele.User { return c.user }

func TestAdminOnlyMiddleware(t *testing.T) {
	var reached bool
	next := func(tele.Context) error {
		reached = true
		return nil
	}

	gate := AdminOnlyMiddleware(AdminOptions{AdminIDs: []int64{100, 200}})

	reached = false
	if err := gate(next)(senderContext{user: &tele.User{ID: 200}}); err != nil {
		t.Fatalf("admin call: %v", err)
	}
	if !reached {
		t.Fatal("configured admin must pass the gate")
	}

	reached = false
	if err := gate(next)(senderContext{user: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("non-admin call: %v", err)
	}
	if reached {
		t.Fatal("non-admin must be rejected")
	}
}

func TestAdminOnlyMiddlewareOnReject(t *testing.T) {
	var rejected bool
	gate := AdminOnlyMiddleware(AdminOptions{
		AdminIDs: []int64{100},
		OnReject: func(tele.Context) error {
			rejected = true
			return nil
		},
	})

	next := func(tele.Context) error {
		t.Fatal("handler must not run for rejected sender")
		return nil
	}
	if err := gate(next)(senderContext{user: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("rejected call: %v", err)
	}
	if !rejected {
		t.Fatal("OnReject must be invoked")
	}
}

func TestAdminOnlyMiddlewareEmptySetAllowsAll(t *testing.T) {
	var reached bool
	gate := AdminOnlyMiddleware(AdminOptions{})
	next := func(tele.Context) error {
		reached = true
		return nil
	}
	if err := gate(next)(senderContext{user: &tele.User{ID: 7}}); err != nil {
		t.Fatalf("call: %v", err)
	}
	if !reached {
		t.Fatal("empty admin set leaves the gate open")
	}
}
