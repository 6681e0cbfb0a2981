package protocol

import (
	"testing"

	"go.uber.org/zap"
)

func mustEncode(t *testing.T, msg Message) []byte {
	t.Helper()
	data, err := Encode(msg)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestDispatchRoutesByType(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	var got Message
	reg.Register(TypeChatMessage, []SessionState{StatePlaying}, func(_ any, msg Message) {
		got = msg
	})

	data := mustEncode(t, ChatMessage{Channel: ChannelSay, Text: "hello"})
	if err := reg.Dispatch(nil, StatePlaying, data); err != nil {
		t.Fatal(err)
	}

	chat, ok := got.(ChatMessage)
	if !ok {
		t.Fatalf("handler got %T", got)
	}
	if chat.Channel != ChannelSay || chat.Text != "hello" {
		t.Fatalf("handler got %+v", chat)
	}
}

func TestDispatchEnforcesSessionState(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	called := false
	reg.Register(TypeInput, []SessionState{StatePlaying}, func(_ any, _ Message) {
		called = true
	})

	data := mustEncode(t, MoveInput{})
	if err := reg.Dispatch(nil, StateConnected, data); err == nil {
		t.Fatal("pre-login input was not rejected")
	}
	if called {
		t.Fatal("handler ran despite disallowed state")
	}

	if err := reg.Dispatch(nil, StatePlaying, data); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("handler did not run in allowed state")
	}
}

func TestDispatchIgnoresUnknownAndMalformed(t *testing.T) {
	reg := NewRegistry(zap.NewNop())

	if err := reg.Dispatch(nil, StateConnected, []byte(`{"t":"noSuchThing"}`)); err != nil {
		t.Fatalf("unknown type returned error: %v", err)
	}
	if err := reg.Dispatch(nil, StateConnected, []byte(`not json`)); err != nil {
		t.Fatalf("malformed frame returned error: %v", err)
	}
	// Server-only messages never decode on the server side.
	if err := reg.Dispatch(nil, StatePlaying, mustEncode(t, JoinGame{ID: 3})); err != nil {
		t.Fatalf("reflected server message returned error: %v", err)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	reg := NewRegistry(zap.NewNop())
	reg.Register(TypeRequestMap, []SessionState{StatePlaying}, func(_ any, _ Message) {
		panic("boom")
	})

	err := reg.Dispatch(nil, StatePlaying, mustEncode(t, RequestMap{}))
	if err == nil {
		t.Fatal("panic was swallowed without error")
	}
}

func TestDecodeServerRoundTrip(t *testing.T) {
	data := mustEncode(t, ChangeMap{Map: 4, CacheKey: 99})
	msg, err := DecodeServer(data)
	if err != nil {
		t.Fatal(err)
	}
	cm, ok := msg.(ChangeMap)
	if !ok || cm.Map != 4 || cm.CacheKey != 99 {
		t.Fatalf("decoded %T %+v", msg, msg)
	}

	if _, err := DecodeServer(mustEncode(t, Login{})); err == nil {
		t.Fatal("client message decoded as server message")
	}
}
