// Package notify_libnotify sends desktop notifications via notify-send.
package notify_libnotify

import (
	"context"
	"os/exec"
	"strings"
)

type Notifier struct {
	soft bool
}

// New returns a notifier that reports notify-send failures.
func New() *Notifier { return &Notifier{soft: false} }

// NewSoft returns a notifier that swallows notify-send failures, for
// headless environments.
func NewSoft() *Notifier { return &Notifier{soft: true} }

func (n *Notifier) Notify(ctx context.Context, title, body, url string) error {
	if strings.TrimSpace(url) != "" {
		if body == "" {
			body = url
		} else {
			body = body + "\n" + url
		}
	}

	cmd := exec.CommandContext(ctx, "notify-send", "--app-name=ccwatch", title, body)
	if err := cmd.Run(); err != nil {
		if n.soft {
			return nil
		}
		return err
	}
	return nil
}
