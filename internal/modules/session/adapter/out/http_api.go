package out

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"pairvote/internal/modules/session/domain"
	sessionout "pairvote/internal/modules/session/port/out"
	"pairvote/internal/platform/httpapi"
)

type HTTPSessionAPI struct {
	client *httpapi.Client
}

func NewHTTPSessionAPI(client *httpapi.Client) sessionout.API {
	return &HTTPSessionAPI{client: client}
}

type createResponse struct {
	SessionID string `json:"session_id"`
}

type statusResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

func (a *HTTPSessionAPI) Create(ctx context.Context) (string, error) {
	resp := createResponse{}
	if err := a.client.Do(ctx, http.MethodPost, "/sessions", nil, nil, &resp); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return resp.SessionID, nil
}

func (a *HTTPSessionAPI) Status(ctx context.Context, sessionID string) (domain.Status, error) {
	resp := statusResponse{}
	path := "/sessions/" + url.PathEscape(sessionID)
	if err := a.client.Do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return domain.StatusUnknown, fmt.Errorf("session status: %w", err)
	}
	return domain.ParseStatus(resp.Status), nil
}
