package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	errMissingVideoURL = "Missing video_url"
	errSummaryFailed   = "Failed to generate summary"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSummarize(c *gin.Context) {
	var payload any
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// arrays, strings and numbers carry no video_url
	body, _ := payload.(map[string]any)
	videoURL, ok := videoURLFrom(body)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingVideoURL})
		return
	}

	result, err := s.summarizer.Summarize(c.Request.Context(), videoURL)
	if err != nil || result == nil {
		slog.Error("Summary generation failed", "video_url", videoURL, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errSummaryFailed})
		return
	}

	c.JSON(http.StatusOK, result)
}

// videoURLFrom accepts both the snake_case and camelCase spelling. A value
// that is not a non-empty string counts as missing.
func videoURLFrom(body map[string]any) (string, bool) {
	for _, key := range []string{"video_url", "videoUrl"} {
		if v, ok := body[key].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
