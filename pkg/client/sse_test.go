package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SDRoan/Filebox-sub001/pkg/protocol"
)

func TestSSEParsesEventStream(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/u1/events" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)

		fmt.Fprint(w, "event: file-deleted\ndata: {\"entity_id\":\"f1\"}\n\n")
		fl.Flush()
		fmt.Fprint(w, ": heartbeat\n\n")
		fmt.Fprint(w, "data: {\"type\":\"folder-created\",\"entity_id\":\"d1\",\"parent_folder_id\":\"root\"}\n\n")
		fl.Flush()
		<-release
	}))
	defer ts.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewSSEClient(ts.URL)
	events, _ := c.Subscribe(ctx, "u1")

	recv := func() protocol.PushEvent {
		select {
		case ev := <-events:
			return ev
		case <-time.After(2 * time.Second):
			t.Fatal("event not received")
			return protocol.PushEvent{}
		}
	}

	first := recv()
	if first.Type != protocol.EventFileDeleted || first.EntityID != "f1" {
		t.Errorf("first event = %+v", first)
	}

	second := recv()
	if second.Type != protocol.EventFolderCreated || second.EntityID != "d1" {
		t.Errorf("second event = %+v", second)
	}
	parent, ok := second.Parent()
	if !ok || !parent.IsRoot() {
		t.Errorf("second event parent = (%v, %v), want root", parent, ok)
	}
}

func TestSSEChannelsCloseOnCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewSSEClient(ts.URL)
	events, errs := c.Subscribe(ctx, "u1")

	cancel()

	deadline := time.After(2 * time.Second)
	for events != nil || errs != nil {
		select {
		case _, ok := <-events:
			if !ok {
				events = nil
			}
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
		case <-deadline:
			t.Fatal("channels did not close after cancel")
		}
	}
}
