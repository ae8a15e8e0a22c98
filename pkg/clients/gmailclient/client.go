package gmailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/jakechorley/shift-roster/internal/config"
	"github.com/jakechorley/shift-roster/pkg/utils"
)

// Client wraps the Gmail API client
type Client struct {
	service *gmail.Service
	ctx     context.Context
	// from is the From header, empty to let Gmail use the account address
	from string

	throttle *throttle
}

// NewClient creates a Gmail client from a token already granted the
// gmail.send scope, e.g. the one obtained by the Sheets client
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, token *oauth2.Token, from string) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Client{
		service:  service,
		ctx:      ctx,
		from:     from,
		throttle: newThrottle(EMAIL_INTERVAL),
	}, nil
}

// throttle spaces calls at least interval apart
type throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval, now: time.Now, sleep: time.Sleep}
}

// do waits out the interval since the last successful call, then runs fn
func (t *throttle) do(fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.last.IsZero() {
		if elapsed := t.now().Sub(t.last); elapsed < t.interval {
			t.sleep(t.interval - elapsed)
		}
	}

	if err := fn(); err != nil {
		return err
	}
	t.last = t.now()
	return nil
}
