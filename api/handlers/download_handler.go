package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/mediafetch/internal/app"
	"github.com/yourusername/mediafetch/internal/domain"
	"go.uber.org/zap"
)

// User-facing notification texts. Engine internals never appear here.
const (
	msgMissingInput     = "Please enter a valid URL and select a format."
	msgInvalidSelection = "Invalid format selection."
	msgExtractionFailed = "Download failed. The media may be private, restricted (e.g. age-gated), or the URL is not supported."
	msgUnexpectedError  = "An unexpected server error occurred."
)

// DownloadHandler handles media download requests
type DownloadHandler struct {
	pipeline *app.Pipeline
	logger   *zap.Logger
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(pipeline *app.Pipeline, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Download handles POST /download. Form fields: url, format_selection
// ("<kind>-<quality>", e.g. "mp3-192" or "mp4-720").
//
// On success the response body is the acquired file as an attachment and a
// success notification is queued for the next page render. On any failure
// the client is redirected back to the page with exactly one error
// notification. The acquisition workspace is removed before the handler
// returns on every path.
func (h *DownloadHandler) Download(c *gin.Context) {
	mediaURL := strings.TrimSpace(c.PostForm("url"))
	selection := strings.TrimSpace(c.PostForm("format_selection"))

	if mediaURL == "" || selection == "" {
		h.redirectWithError(c, msgMissingInput)
		return
	}

	artifact, release, err := h.pipeline.Run(c.Request.Context(), mediaURL, selection)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSelection):
			h.redirectWithError(c, msgInvalidSelection)
		case errors.Is(err, domain.ErrExtractionFailed):
			h.redirectWithError(c, msgExtractionFailed)
		default:
			h.redirectWithError(c, msgUnexpectedError)
		}
		return
	}
	defer release()

	// The success notification rides on the next page render; it must be
	// recorded before the file stream takes over the response.
	if err := flash(c, SeveritySuccess, "Download of '"+artifact.Name+"' has started in your browser. Check your downloads folder."); err != nil {
		h.logger.Warn("Failed to queue success notification", zap.Error(err))
	}

	// Never serve stale bytes from an intermediary on a retried request
	c.Header("Cache-Control", "no-store, max-age=0")
	c.FileAttachment(artifact.Path, artifact.Name)
}

func (h *DownloadHandler) redirectWithError(c *gin.Context, message string) {
	if err := flash(c, SeverityError, message); err != nil {
		h.logger.Warn("Failed to queue error notification", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/")
}
