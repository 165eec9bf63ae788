package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"storyboard_automation/export"
)

// exportSpreadsheet streams the scene spreadsheet for a storyboard as CSV.
func (h *Handler) exportSpreadsheet(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}

	scenes, err := h.loadScenes(c, job.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to load scenes",
		})
		return
	}

	var buf bytes.Buffer
	if err := export.SceneSpreadsheet(&buf, scenes); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "export_error",
			Message: err.Error(),
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="storyboard_%s.csv"`, job.ID.Hex()))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// exportPrompts streams the plain-text prompt sheet.
func (h *Handler) exportPrompts(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}

	scenes, err := h.loadScenes(c, job.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to load scenes",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="prompts_%s.txt"`, job.ID.Hex()))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(export.PromptSheet(scenes)))
}

// exportArchive streams the zip bundle of script, spreadsheet, prompts and
// generated media.
func (h *Handler) exportArchive(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}

	scenes, err := h.loadScenes(c, job.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to load scenes",
		})
		return
	}

	var buf bytes.Buffer
	if err := export.Archive(&buf, *job, scenes, h.AssetsDir); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "export_error",
			Message: err.Error(),
		})
		return
	}

	// Keep a copy under the exports directory so the asset server can hand it
	// out later without regenerating it.
	name := fmt.Sprintf("storyboard_%s.zip", job.ID.Hex())
	if err := os.WriteFile(filepath.Join(h.ExportsDir, name), buf.Bytes(), 0644); err != nil {
		log.Printf("Failed to persist export archive %s: %v", name, err)
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}
