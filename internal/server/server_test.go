package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mj1618/terminator-agent/internal/agent"
	"github.com/mj1618/terminator-agent/internal/voice"
)

type fakeExecutor struct {
	got agent.Request
	res agent.Result
	err error
}

func (f *fakeExecutor) Execute(_ context.Context, req agent.Request) (agent.Result, error) {
	f.got = req
	return f.res, f.err
}

type fakeDispatcher struct {
	got voice.Payload
	out voice.Outcome
	err error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, p voice.Payload) (voice.Outcome, error) {
	f.got = p
	return f.out, f.err
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("response is not JSON: %q", rec.Body.String())
		}
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	s := New(&fakeExecutor{}, nil, Options{})
	rec, body := do(t, s.Handler(), http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	if body["message"] != HealthMessage {
		t.Errorf("body: %v", body)
	}
}

func TestExecute_Success(t *testing.T) {
	exec := &fakeExecutor{res: agent.Result{Status: agent.StatusSuccess, Message: "Action performed: Opened 'notepad'", PID: 7}}
	s := New(exec, nil, Options{})

	rec, body := do(t, s.Handler(), http.MethodPost, "/execute", `{"app":"notepad","action":null}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body)
	}
	if body["status"] != "success" || body["message"] != "Action performed: Opened 'notepad'" {
		t.Errorf("body: %v", body)
	}
	if exec.got.App != "notepad" || exec.got.Action != "" {
		t.Errorf("request: %+v", exec.got)
	}
}

func TestExecute_PassesAction(t *testing.T) {
	exec := &fakeExecutor{res: agent.Result{Status: agent.StatusSuccess}}
	s := New(exec, nil, Options{})
	do(t, s.Handler(), http.MethodPost, "/execute", `{"app":"chrome","action":"https://example.com"}`)
	if exec.got.Action != "https://example.com" {
		t.Errorf("action: %q", exec.got.Action)
	}
}

func TestExecute_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"not found", &agent.Error{Kind: agent.KindNotFound, Target: "nope"}, 404, "Application 'nope' not found"},
		{"launch failed", &agent.Error{Kind: agent.KindLaunchFailed, Target: "x", Err: errors.New("denied")}, 500, "denied"},
		{"unexpected", errors.New("boom"), 500, "boom"},
		{"invalid", &agent.Error{Kind: agent.KindInvalid, Err: errors.New("bad")}, 400, "bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&fakeExecutor{err: tt.err}, nil, Options{})
			rec, body := do(t, s.Handler(), http.MethodPost, "/execute", `{"app":"nope"}`)
			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			detail, _ := body["detail"].(string)
			if !strings.Contains(detail, tt.wantDetail) {
				t.Errorf("detail %q does not contain %q", detail, tt.wantDetail)
			}
		})
	}
}

func TestExecute_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"app":`},
		{"missing app", `{"action":"hi"}`},
		{"blank app", `{"app":"  "}`},
		{"app not a string", `{"app":5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{}
			s := New(exec, nil, Options{})
			rec, body := do(t, s.Handler(), http.MethodPost, "/execute", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: %d", rec.Code)
			}
			if _, ok := body["detail"]; !ok {
				t.Errorf("body should carry detail: %v", body)
			}
			if exec.got.App != "" {
				t.Error("executor should not be called")
			}
		})
	}
}

func TestVoice(t *testing.T) {
	d := &fakeDispatcher{out: voice.Outcome{Action: voice.ActionOpenApp, Target: "notepad", OK: true, Via: "remote"}}
	s := New(&fakeExecutor{}, d, Options{})

	rec, body := do(t, s.Handler(), http.MethodPost, "/vapi",
		`{"message":{"type":"end-of-call-report","analysis":{"summary":"open notepad","structuredData":{"appName":"notepad"}}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", rec.Code, rec.Body)
	}
	if body["action"] != string(voice.ActionOpenApp) || body["ok"] != true {
		t.Errorf("body: %v", body)
	}
	if d.got.StructuredData == nil || d.got.StructuredData.AppName != "notepad" {
		t.Errorf("payload: %+v", d.got)
	}
}

func TestVoice_Errors(t *testing.T) {
	d := &fakeDispatcher{err: voice.ErrNoStructuredData}
	s := New(&fakeExecutor{}, d, Options{})

	if rec, _ := do(t, s.Handler(), http.MethodPost, "/vapi", `{"summary":"x"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing structured data: status %d", rec.Code)
	}
	if rec, _ := do(t, s.Handler(), http.MethodPost, "/vapi", `not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad json: status %d", rec.Code)
	}
}

func TestVoice_NotRegisteredWithoutDispatcher(t *testing.T) {
	s := New(&fakeExecutor{}, nil, Options{})
	req := httptest.NewRequest(http.MethodPost, "/vapi", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	s := New(&fakeExecutor{}, nil, Options{AllowedOrigins: []string{"http://localhost:3000"}})
	req := httptest.NewRequest(http.MethodOptions, "/execute", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin: %q", got)
	}
}

func TestServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	s := New(&fakeExecutor{}, nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
