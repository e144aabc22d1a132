package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ncruces/zenity"

	"vidmerge/internal/config"
	"vidmerge/internal/notifications"
)

func TestNewServiceReturnsNoopWhenNothingEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	cfg.Notifications.Desktop = false
	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.EventMergeCompleted, notifications.Payload{"output": "out.mp4"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		event          notifications.Event
		payload        notifications.Payload
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:  "merge completed",
			event: notifications.EventMergeCompleted,
			payload: notifications.Payload{
				"output":   "/videos/lecture.mp4",
				"files":    3,
				"duration": 42 * time.Second,
			},
			expectTitle:   "vidmerge - Merge Complete",
			expectMessage: "Merged 3 files into /videos/lecture.mp4 in 42s",
			expectTags:    "vidmerge,merge,completed",
		},
		{
			name:  "merge failed",
			event: notifications.EventMergeFailed,
			payload: notifications.Payload{
				"kind":  "no_matches",
				"error": errors.New("no matching files found"),
			},
			expectTitle:    "vidmerge - Merge Failed",
			expectMessage:  "Merge failed (no_matches): no matching files found",
			expectTags:     "vidmerge,merge,error",
			expectPriority: "high",
		},
		{
			name:           "test",
			event:          notifications.EventTest,
			expectTitle:    "vidmerge - Test",
			expectMessage:  "Notification system test",
			expectTags:     "vidmerge,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Errorf("read body: %v", err)
				}
				captured.body = string(body)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := svc.Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceIgnoresUnknownEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected call for unknown event: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.Event("rip_started"), nil); err != nil {
		t.Fatalf("expected no error for unknown event, got %v", err)
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	err := notifications.NewService(&cfg).Publish(context.Background(), notifications.EventTest, nil)
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}

func TestDesktopServiceUsesNotifier(t *testing.T) {
	var gotText string
	var gotOptions int
	svc := notifications.NewDesktop(func(text string, options ...zenity.Option) error {
		gotText = text
		gotOptions = len(options)
		return nil
	})

	if err := svc.Publish(context.Background(), notifications.EventMergeFailed, notifications.Payload{"error": "ffmpeg exited with status 1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if gotText != "Merge failed: ffmpeg exited with status 1" {
		t.Fatalf("text = %q", gotText)
	}
	if gotOptions != 2 {
		t.Fatalf("expected title and icon options, got %d", gotOptions)
	}
}

func TestDesktopServiceWrapsErrors(t *testing.T) {
	boom := errors.New("no display")
	svc := notifications.NewDesktop(func(string, ...zenity.Option) error { return boom })
	if err := svc.Publish(context.Background(), notifications.EventTest, nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
