package out

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"pairvote/internal/modules/voting/domain"
	votingout "pairvote/internal/modules/voting/port/out"
	"pairvote/internal/platform/httpapi"
)

type HTTPUnitAPI struct {
	client *httpapi.Client
}

func NewHTTPUnitAPI(client *httpapi.Client) votingout.UnitAPI {
	return &HTTPUnitAPI{client: client}
}

type imageWire struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Model string `json:"model"`
}

type progressWire struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// unitWire accepts the current unit shape and the older pair shape
// (image_a/image_b plus progress).
type unitWire struct {
	ID         string        `json:"id"`
	PairID     string        `json:"pair_id"`
	PromptID   string        `json:"prompt_id"`
	PromptText string        `json:"prompt_text"`
	Images     []imageWire   `json:"images"`
	ImageA     *imageWire    `json:"image_a"`
	ImageB     *imageWire    `json:"image_b"`
	Index      *int          `json:"index"`
	Total      *int          `json:"total"`
	Progress   *progressWire `json:"progress"`
	IsTerminal bool          `json:"is_terminal"`
}

type votePayload struct {
	SessionID      string `json:"session_id"`
	PairID         string `json:"pair_id"`
	WinnerModel    string `json:"winner_model"`
	ReactionTimeMs int64  `json:"reaction_time_ms"`
}

func (a *HTTPUnitAPI) Next(ctx context.Context, sessionID string) (domain.ComparisonUnit, error) {
	wire := unitWire{}
	query := url.Values{"session_id": {sessionID}}
	if err := a.client.Do(ctx, http.MethodGet, "/pair/next", query, nil, &wire); err != nil {
		return domain.ComparisonUnit{}, fmt.Errorf("next pair: %w", err)
	}
	return wire.toDomain(), nil
}

func (a *HTTPUnitAPI) SubmitVote(ctx context.Context, vote domain.VoteSubmission) error {
	payload := votePayload{
		SessionID:      vote.SessionID,
		PairID:         vote.UnitID,
		WinnerModel:    vote.Winner,
		ReactionTimeMs: vote.ReactionTimeMs,
	}
	if err := a.client.Do(ctx, http.MethodPost, "/votes", nil, payload, nil); err != nil {
		return fmt.Errorf("submit vote: %w", err)
	}
	return nil
}

func (w unitWire) toDomain() domain.ComparisonUnit {
	unit := domain.ComparisonUnit{
		ID:         w.ID,
		PromptID:   w.PromptID,
		PromptText: w.PromptText,
		IsTerminal: w.IsTerminal,
	}
	if unit.ID == "" {
		unit.ID = w.PairID
	}

	images := w.Images
	if len(images) == 0 {
		for _, img := range []*imageWire{w.ImageA, w.ImageB} {
			if img != nil {
				images = append(images, *img)
			}
		}
	}
	for _, img := range images {
		unit.Options = append(unit.Options, domain.Option{ID: img.ID, URL: img.URL, ModelLabel: img.Model})
	}

	if w.Progress != nil {
		unit.SequenceIndex = w.Progress.Done
		unit.TotalCount = w.Progress.Total
	}
	if w.Index != nil {
		unit.SequenceIndex = *w.Index
	}
	if w.Total != nil {
		unit.TotalCount = *w.Total
	}
	return unit
}
