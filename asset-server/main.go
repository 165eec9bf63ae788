package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"storyboard_automation/internal/platform"
)

const maxUploadSize = 10 << 20 // 10 MB

var (
	assetsDir  string
	exportsDir string
	uploadsDir string
)

func main() {
	assetsDir = platform.AssetsDir()
	exportsDir = platform.ExportsDir()
	uploadsDir = filepath.Join(assetsDir, "uploads")

	for _, dir := range []string{
		filepath.Join(assetsDir, "audio"),
		filepath.Join(assetsDir, "images"),
		exportsDir,
		uploadsDir,
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	r := mux.NewRouter()

	// Upload endpoints
	r.HandleFunc("/api/upload/script", uploadScriptHandler).Methods("POST")

	// Serve generated media and persisted export archives
	r.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", http.FileServer(http.Dir(assetsDir))))
	r.PathPrefix("/exports/").Handler(http.StripPrefix("/exports/", http.FileServer(http.Dir(exportsDir))))

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	port := platform.Port("8087")
	fmt.Println("📦 Asset Server starting...")
	fmt.Printf("📡 Server running on http://localhost:%s\n", port)
	fmt.Println("   POST /api/upload/script - Upload script or SRT file")
	fmt.Println("   GET  /assets/{type}/{filename} - Download generated media")
	fmt.Println("   GET  /exports/{filename} - Download export archives")
	fmt.Println("   GET  /health - Health check")

	log.Fatal(http.ListenAndServe(":"+port, r))
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// uploadScriptHandler accepts a narration script or SRT subtitle file and
// stores it under the uploads directory with a unique name. The response
// includes the stored file name and its text content, so a client can hand
// the script straight to the storyboard API.
func uploadScriptHandler(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(maxUploadSize)

	file, handler, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error retrieving file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	valid := false
	for _, allowedExt := range []string{".txt", ".srt", ".md"} {
		if ext == allowedExt {
			valid = true
			break
		}
	}
	if !valid {
		http.Error(w, "Invalid file type, expected .txt, .srt or .md", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		http.Error(w, "Error reading file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s_%s%s", uuid.New().String()[:8],
		strings.TrimSuffix(handler.Filename, ext), ext)

	if err := os.WriteFile(filepath.Join(uploadsDir, filename), content, 0644); err != nil {
		http.Error(w, "Error saving file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"filename": filename,
		"content":  string(content),
		"format":   strings.TrimPrefix(ext, "."),
	})
}
