package directory

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"log/slog"

	httpclient "github.com/shopsphere/authgate/pkg/http"
	"github.com/shopsphere/authgate/pkg/logger"
)

// UserDirectory is the user-service surface the session flows depend on.
type UserDirectory interface {
	Login(ctx context.Context, creds Credentials) (*Account, error)
	Profile(ctx context.Context, userUUID string) (*Account, error)
}

// ShopDirectory resolves the shop owned by a user, if any.
type ShopDirectory interface {
	ShopByOwner(ctx context.Context, userUUID string) (*Shop, error)
}

type client struct {
	userBaseURL string
	shopBaseURL string
}

// NewClient builds a directory client over the user and shop services.
// Trailing slashes on the base URLs are tolerated.
func NewClient(userBaseURL, shopBaseURL string) (UserDirectory, ShopDirectory) {
	c := &client{
		userBaseURL: strings.TrimSuffix(userBaseURL, "/"),
		shopBaseURL: strings.TrimSuffix(shopBaseURL, "/"),
	}
	return c, c
}

// Login delegates the credential check to the user service. Non-2xx
// responses surface as StatusError so the caller can relay them.
func (c *client) Login(ctx context.Context, creds Credentials) (*Account, error) {
	var account Account
	resp, err := httpclient.Post(
		ctx,
		c.userBaseURL+"/api/user/login/",
		httpclient.WithBody(creds),
		httpclient.WithResult(&account),
	)
	if err != nil {
		return nil, fmt.Errorf("user service login request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{Service: "user", Code: resp.StatusCode(), Body: resp.Body()}
	}

	return &account, nil
}

// Profile fetches the caller's profile the same way proxied requests do:
// identity travels in the trusted header, not in the path.
func (c *client) Profile(ctx context.Context, userUUID string) (*Account, error) {
	var account Account
	resp, err := httpclient.Get(
		ctx,
		c.userBaseURL+"/api/user/profile/",
		httpclient.WithHeader("X-User-Id", userUUID),
		httpclient.WithResult(&account),
	)
	if err != nil {
		return nil, fmt.Errorf("user service profile request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		logger.WarnContext(ctx, "profile lookup failed",
			slog.String("user", userUUID),
			slog.Int("status", resp.StatusCode()),
		)
		return nil, &StatusError{Service: "user", Code: resp.StatusCode(), Body: resp.Body()}
	}

	return &account, nil
}

// ShopByOwner resolves the shop a user owns.
func (c *client) ShopByOwner(ctx context.Context, userUUID string) (*Shop, error) {
	var shop Shop
	resp, err := httpclient.Get(
		ctx,
		c.shopBaseURL+"/api/user/"+userUUID+"/",
		httpclient.WithResult(&shop),
	)
	if err != nil {
		return nil, fmt.Errorf("shop service request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		logger.WarnContext(ctx, "shop lookup failed",
			slog.String("user", userUUID),
			slog.Int("status", resp.StatusCode()),
		)
		return nil, &StatusError{Service: "shop", Code: resp.StatusCode(), Body: resp.Body()}
	}

	return &shop, nil
}
