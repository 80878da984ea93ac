package services

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/k3a/html2text"
	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	router "github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/pkg/errors"
)

// PushServiceInterface forwards a short copy of a notification to chat or
// push services.
type PushServiceInterface interface {
	Enabled() bool
	Push(ctx context.Context, title, htmlBody string) error
}

type shoutrrrPushService struct {
	sender *router.ServiceRouter
}

// NewPushService builds a sender for urls. No urls yields a disabled service.
func NewPushService(urls []string, timeout time.Duration) (PushServiceInterface, error) {
	if len(urls) == 0 {
		return &shoutrrrPushService{}, nil
	}

	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, errors.Wrap(err, "create push sender")
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	return &shoutrrrPushService{sender: sender}, nil
}

func (s *shoutrrrPushService) Enabled() bool { return s.sender != nil }

func (s *shoutrrrPushService) Push(_ context.Context, title, htmlBody string) error {
	if s.sender == nil {
		return nil
	}

	params := stypes.Params{}
	if title != "" {
		params.SetTitle(title)
	}
	for _, err := range s.sender.Send(PlainTextSummary(htmlBody), &params) {
		if err != nil {
			return errors.Wrap(err, "push notification")
		}
	}
	return nil
}

// PlainTextSummary renders an HTML email body as plain text for push targets.
func PlainTextSummary(htmlBody string) string {
	return strings.TrimSpace(html2text.HTML2Text(htmlBody))
}
