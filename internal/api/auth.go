package api

import (
	"context"
	"net/http"

	"github.com/dukerupert/stride/internal/domain"
)

// AuthAPI exchanges credentials for a customer and token. Logging out is
// local: the session store forgets the token.
type AuthAPI struct{ c *Client }

func (a *AuthAPI) Login(ctx context.Context, creds domain.Credentials) (domain.AuthResult, error) {
	var res domain.AuthResult
	err := a.c.sendJSON(ctx, "auth", "login", http.MethodPost, "/auth/login", creds, &res)
	return res, err
}

func (a *AuthAPI) Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	var res domain.AuthResult
	err := a.c.sendJSON(ctx, "auth", "register", http.MethodPost, "/auth/register", reg, &res)
	return res, err
}
