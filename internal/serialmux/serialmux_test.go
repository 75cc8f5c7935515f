package serialmux

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestSerialMux_SubscribeUnsubscribe(t *testing.T) {
	s := NewSerialMux(NewTestableSerialPort())

	id1, ch1 := s.Subscribe()
	id2, _ := s.Subscribe()
	if id1 == id2 {
		t.Fatalf("expected unique subscriber IDs, got %q twice", id1)
	}
	if len(s.subscribers) != 2 {
		t.Fatalf("expected 2 subscribers, got %d", len(s.subscribers))
	}

	s.Unsubscribe(id1)
	if _, ok := <-ch1; ok {
		t.Error("expected channel to be closed after Unsubscribe")
	}
	// unknown IDs are ignored
	s.Unsubscribe("does-not-exist")
	if len(s.subscribers) != 1 {
		t.Errorf("expected 1 subscriber, got %d", len(s.subscribers))
	}
}

func TestSerialMux_SendCommand(t *testing.T) {
	port := NewTestableSerialPort()
	s := NewSerialMux(port)

	if err := s.SendCommand("STREAM ON"); err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if err := s.SendCommand("STREAM OFF\n"); err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if got := string(port.GetWrittenData()); got != "STREAM ON\nSTREAM OFF\n" {
		t.Errorf("written = %q", got)
	}

	port.WriteError = errors.New("boom")
	if err := s.SendCommand("X"); err == nil {
		t.Error("expected write error")
	}
}

func TestSerialMux_Initialize(t *testing.T) {
	port := NewTestableSerialPort()
	s := NewSerialMux(port)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }

	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(port.GetWrittenData())), "\n")
	want := []string{"CLOCK 1700000000123", "FORMAT JSON", "RANGE ACC 8G", "RANGE GYRO 2000DPS", "STREAM ON"}
	if len(lines) != len(want) {
		t.Fatalf("got %d commands %q, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("command %d = %q, want %q", i, lines[i], want[i])
		}
	}

	port.WriteError = errors.New("unplugged")
	if err := s.Initialize(); err == nil || !strings.Contains(err.Error(), "clock") {
		t.Errorf("expected clock sync error, got %v", err)
	}
}

func TestSerialMux_MonitorFansOutLines(t *testing.T) {
	port := NewTestableSerialPort()
	port.AddReadData([]byte("line one\nline two\n"))
	s := NewSerialMux(port)

	_, a := s.Subscribe()
	_, b := s.Subscribe()

	if err := s.Monitor(context.Background()); err != nil {
		t.Fatalf("Monitor() error = %v", err)
	}

	for name, ch := range map[string]chan string{"a": a, "b": b} {
		for _, want := range []string{"line one", "line two"} {
			select {
			case got := <-ch:
				if got != want {
					t.Errorf("subscriber %s got %q, want %q", name, got, want)
				}
			default:
				t.Fatalf("subscriber %s missing line %q", name, want)
			}
		}
	}
}

func TestSerialMux_MonitorStopsOnCancel(t *testing.T) {
	port := NewTestableSerialPort()
	port.BlockReads = true
	s := NewSerialMux(port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Monitor(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Monitor() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Monitor did not return after cancel")
	}
	s.Close()
}

func TestSerialMux_Close(t *testing.T) {
	port := NewTestableSerialPort()
	s := NewSerialMux(port)
	_, ch := s.Subscribe()

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !port.Closed {
		t.Error("expected port to be closed")
	}
	if _, ok := <-ch; ok {
		t.Error("expected subscriber channel to be closed")
	}
}

func TestSerialMux_AdminCommandRoute(t *testing.T) {
	port := NewTestableSerialPort()
	s := NewSerialMux(port)
	mux := http.NewServeMux()
	s.AttachAdminRoutes(mux)

	form := url.Values{"command": {"STREAM OFF"}}
	req := httptest.NewRequest(http.MethodPost, "/debug/hub-command", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "127.0.0.1:1234"
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if got := string(port.GetWrittenData()); got != "STREAM OFF\n" {
		t.Errorf("written = %q", got)
	}

	form = url.Values{"command": {"rm -rf /"}}
	req = httptest.NewRequest(http.MethodPost, "/debug/hub-command", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "127.0.0.1:1234"
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("disallowed command status = %d, want 400", rec.Code)
	}
	if got := string(port.GetWrittenData()); got != "STREAM OFF\n" {
		t.Errorf("disallowed command was written: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/debug/hub-command", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
}

func TestReplayPort(t *testing.T) {
	s := NewMockSerialMux([][]byte{[]byte(`{"status":"replay"}`)}, time.Millisecond)
	_, ch := s.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Monitor(ctx)

	select {
	case line := <-ch:
		if line != `{"status":"replay"}` {
			t.Errorf("got %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no replayed line")
	}

	if err := s.SendCommand("STREAM ON"); err != nil {
		t.Errorf("SendCommand() error = %v", err)
	}
	cancel()
	s.Close()
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		command string
		wantErr bool
	}{
		{"CLOCK 1700000000000", false},
		{"stream on", false},
		{"RANGE ACC 8G", false},
		{"STATUS", false},
		{"", true},
		{"   ", true},
		{"FLASH firmware.bin", true},
	}
	for _, tt := range tests {
		err := ValidateCommand(tt.command)
		if tt.wantErr != (err != nil) {
			t.Errorf("ValidateCommand(%q) = %v, wantErr %v", tt.command, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrCommandNotAllowed) {
			t.Errorf("ValidateCommand(%q) = %v, want ErrCommandNotAllowed", tt.command, err)
		}
	}
}
