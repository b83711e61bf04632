package handlers

import (
	"net/http"
	"strings"

	"vidembed/internal/domain"
)

type generateEmbedRequest struct {
	VideoURL string `json:"videoUrl"`
	Platform string `json:"platform"`
}

type generateEmbedResponse struct {
	EmbedCode string `json:"embedCode"`
}

// GenerateEmbed renders embed markup for an already classified reference.
func (a *App) GenerateEmbed(w http.ResponseWriter, r *http.Request) {
	var req generateEmbedRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request")
		return
	}
	if strings.TrimSpace(req.VideoURL) == "" {
		a.fail(w, r, domain.ErrEmptyInput)
		return
	}
	markup, err := a.Generator.Generate(r.Context(), domain.EmbedRequest{
		SourceReference: req.VideoURL,
		Platform:        domain.ParsePlatform(req.Platform),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, generateEmbedResponse{EmbedCode: markup})
}

type resolveRequest struct {
	VideoURL string `json:"videoUrl"`
}

// Resolve classifies a remote URL and returns the full embed result.
func (a *App) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, r, http.StatusBadRequest, "bad_request")
		return
	}
	result, err := a.Resolver.ResolveRemote(r.Context(), req.VideoURL)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, result)
}
