package voice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/mj1618/terminator-agent/internal/desktopuse"
)

type fakeOpener struct {
	apps []string
	urls []string
	err  error
}

func (f *fakeOpener) OpenApplication(_ context.Context, name string) error {
	if f.err != nil {
		return f.err
	}
	f.apps = append(f.apps, name)
	return nil
}

func (f *fakeOpener) OpenURL(_ context.Context, url string) error {
	if f.err != nil {
		return f.err
	}
	f.urls = append(f.urls, url)
	return nil
}

type fakeTyper struct {
	typed []string
	err   error
}

func (f *fakeTyper) TypeText(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.typed = append(f.typed, text)
	return nil
}

func payload(summary, app, query string) Payload {
	return Payload{Summary: summary, StructuredData: &StructuredData{AppName: app, SearchQuery: query}}
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name       string
		p          Payload
		wantAction Action
		wantTarget string
	}{
		{"app only", payload("open notepad", "notepad", ""), ActionOpenApp, "notepad"},
		{"https url", payload("", "", "https://github.com"), ActionOpenURL, "https://github.com"},
		{"bare domain", payload("", "", "github.com"), ActionOpenURL, "github.com"},
		{"domain then words", payload("", "", "news.ycombinator.com best"), ActionOpenURL, "news.ycombinator.com best"},
		{"dot later is not a url", payload("", "", "latest v1.2 release"), ActionSearch, SearchURL + "latest+v1.2+release"},
		{"typing", payload("User wants to type Happy Birthday", "", "Happy Birthday"), ActionType, "Happy Birthday"},
		{"writing", payload("Write a note", "", "buy milk"), ActionType, "buy milk"},
		{"search", payload("User wants to search", "", "cute cats"), ActionSearch, SearchURL + "cute+cats"},
		{"query wins over app", payload("", "chrome", "cute cats"), ActionSearch, SearchURL + "cute+cats"},
		{"nothing", payload("hello", "", ""), ActionNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, target, err := Plan(tt.p)
			if err != nil {
				t.Fatal(err)
			}
			if action != tt.wantAction || target != tt.wantTarget {
				t.Errorf("got (%s, %q), want (%s, %q)", action, target, tt.wantAction, tt.wantTarget)
			}
		})
	}
}

func TestPlan_MissingStructuredData(t *testing.T) {
	if _, _, err := Plan(Payload{Summary: "x"}); !errors.Is(err, ErrNoStructuredData) {
		t.Errorf("expected ErrNoStructuredData, got %v", err)
	}
}

func TestDispatch_RemoteOpen(t *testing.T) {
	remote, local := &fakeOpener{}, &fakeOpener{}
	d := NewDispatcher(remote, local, nil, nil)

	out, err := d.Dispatch(context.Background(), payload("", "notepad", ""))
	if err != nil {
		t.Fatal(err)
	}
	if !out.OK || out.Via != "remote" {
		t.Errorf("outcome: %+v", out)
	}
	if len(remote.apps) != 1 || len(local.apps) != 0 {
		t.Errorf("remote=%v local=%v", remote.apps, local.apps)
	}
}

func TestDispatch_FallsBackWhenRemoteUnavailable(t *testing.T) {
	remote := &fakeOpener{err: fmt.Errorf("%w: connection refused", desktopuse.ErrUnavailable)}
	local := &fakeOpener{}
	d := NewDispatcher(remote, local, nil, nil)

	out, err := d.Dispatch(context.Background(), payload("", "", "github.com"))
	if err != nil {
		t.Fatal(err)
	}
	if !out.OK || out.Via != "local" {
		t.Errorf("outcome: %+v", out)
	}
	if len(local.urls) != 1 || local.urls[0] != "https://github.com" {
		t.Errorf("local should get a schemed URL, got %v", local.urls)
	}
}

func TestDispatch_RemoteAPIErrorDoesNotFallBack(t *testing.T) {
	remote := &fakeOpener{err: &desktopuse.APIError{Status: 500, Message: "boom"}}
	local := &fakeOpener{}
	d := NewDispatcher(remote, local, nil, nil)

	out, err := d.Dispatch(context.Background(), payload("", "notepad", ""))
	if err != nil {
		t.Fatal(err)
	}
	if out.OK || !strings.Contains(out.Detail, "boom") {
		t.Errorf("outcome: %+v", out)
	}
	if len(local.apps) != 0 {
		t.Error("API errors must not trigger the local fallback")
	}
}

func TestDispatch_NoBackend(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, nil)
	out, err := d.Dispatch(context.Background(), payload("", "notepad", ""))
	if err != nil {
		t.Fatal(err)
	}
	if out.OK {
		t.Error("expected failure without any backend")
	}
}

func TestDispatch_Type(t *testing.T) {
	typer := &fakeTyper{}
	d := NewDispatcher(&fakeOpener{}, nil, typer, nil)

	out, err := d.Dispatch(context.Background(), payload("type this", "", "Happy Birthday"))
	if err != nil {
		t.Fatal(err)
	}
	if !out.OK || out.Action != ActionType {
		t.Errorf("outcome: %+v", out)
	}
	if len(typer.typed) != 1 || typer.typed[0] != "Happy Birthday" {
		t.Errorf("typed: %v", typer.typed)
	}
}

func TestDispatch_TypeUnsupported(t *testing.T) {
	d := NewDispatcher(&fakeOpener{}, nil, nil, nil)
	out, err := d.Dispatch(context.Background(), payload("type this", "", "hi"))
	if err != nil {
		t.Fatal(err)
	}
	if out.OK || out.Detail == "" {
		t.Errorf("outcome: %+v", out)
	}
}

func TestDispatch_Search(t *testing.T) {
	remote := &fakeOpener{}
	d := NewDispatcher(remote, nil, nil, nil)
	out, err := d.Dispatch(context.Background(), payload("search", "", "go generics"))
	if err != nil {
		t.Fatal(err)
	}
	if !out.OK || len(remote.urls) != 1 || remote.urls[0] != "https://www.google.com/search?q=go+generics" {
		t.Errorf("outcome=%+v urls=%v", out, remote.urls)
	}
}

func TestDispatch_None(t *testing.T) {
	remote := &fakeOpener{}
	d := NewDispatcher(remote, nil, nil, nil)
	out, err := d.Dispatch(context.Background(), payload("chit chat", "", ""))
	if err != nil {
		t.Fatal(err)
	}
	if out.Action != ActionNone || out.OK {
		t.Errorf("outcome: %+v", out)
	}
	if len(remote.apps)+len(remote.urls) != 0 {
		t.Error("nothing should be opened")
	}
}

func TestParseWebhook(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantApp string
		wantNil bool
	}{
		{"bare", `{"summary":"s","structuredData":{"appName":"notepad","searchQuery":null}}`, "notepad", false},
		{"envelope", `{"message":{"type":"end-of-call-report","analysis":{"summary":"s","structuredData":{"appName":"calc"}}}}`, "calc", false},
		{"missing", `{"summary":"s"}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseWebhook([]byte(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if tt.wantNil {
				if p.StructuredData != nil {
					t.Errorf("expected no structured data, got %+v", p.StructuredData)
				}
				return
			}
			if p.StructuredData == nil || p.StructuredData.AppName != tt.wantApp {
				t.Errorf("got %+v", p.StructuredData)
			}
		})
	}

	if _, err := ParseWebhook([]byte(`{"structuredData":"nope"}`)); err == nil {
		t.Error("expected error for non-object structuredData")
	}
}
