package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ncruces/zenity"

	"vidmerge/internal/config"
)

const userAgent = "vidmerge/0.1"

// Event identifies what happened.
type Event string

const (
	EventMergeCompleted Event = "merge_completed"
	EventMergeFailed    Event = "merge_failed"
	EventTest           Event = "test"
)

// Payload carries event details. Known keys: output, files, duration, kind, error.
type Payload map[string]any

// Service publishes notifications.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds the notifier set from cfg.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	var services []Service
	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		services = append(services, &ntfyService{
			endpoint: topic,
			client:   &http.Client{Timeout: timeout},
		})
	}
	if cfg.Notifications.Desktop {
		services = append(services, NewDesktop(zenity.Notify))
	}
	switch len(services) {
	case 0:
		return noopService{}
	case 1:
		return services[0]
	default:
		return multiService(services)
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
	failure  bool
}

func format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventMergeCompleted:
		body := fmt.Sprintf("Merged %d files into %s", intValue(payload["files"]), stringValue(payload["output"]))
		if d, ok := payload["duration"].(time.Duration); ok && d > 0 {
			body += fmt.Sprintf(" in %s", d.Round(time.Second))
		}
		return message{
			title: "vidmerge - Merge Complete",
			body:  body,
			tags:  []string{"vidmerge", "merge", "completed"},
		}, true
	case EventMergeFailed:
		body := "Merge failed"
		if kind := stringValue(payload["kind"]); kind != "" {
			body += " (" + kind + ")"
		}
		if detail := stringValue(payload["error"]); detail != "" {
			body += ": " + detail
		}
		return message{
			title:    "vidmerge - Merge Failed",
			body:     body,
			tags:     []string{"vidmerge", "merge", "error"},
			priority: "high",
			failure:  true,
		}, true
	case EventTest:
		return message{
			title:    "vidmerge - Test",
			body:     "Notification system test",
			tags:     []string{"vidmerge", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case error:
		return strings.TrimSpace(val.Error())
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return ""
	}
}

func intValue(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	default:
		return 0
	}
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", msg.title)
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// NotifyFunc matches zenity.Notify.
type NotifyFunc func(text string, options ...zenity.Option) error

type desktopService struct {
	notify NotifyFunc
}

// NewDesktop returns a Service that raises a desktop notification via notify.
func NewDesktop(notify NotifyFunc) Service {
	return desktopService{notify: notify}
}

func (d desktopService) Publish(_ context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok || d.notify == nil {
		return nil
	}
	icon := zenity.InfoIcon
	if msg.failure {
		icon = zenity.ErrorIcon
	}
	if err := d.notify(msg.body, zenity.Title(msg.title), icon); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

type multiService []Service

func (m multiService) Publish(ctx context.Context, event Event, payload Payload) error {
	var errs []error
	for _, svc := range m {
		if err := svc.Publish(ctx, event, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Noop returns a Service that drops every event.
func Noop() Service { return noopService{} }

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
