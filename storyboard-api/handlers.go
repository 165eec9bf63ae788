package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storyboard_automation/models"
	"storyboard_automation/script"
	"storyboard_automation/settings"
	"storyboard_automation/tasks"
)

// Handler carries the shared dependencies for all API routes.
type Handler struct {
	DB         *mongo.Database
	Redis      *redis.Client
	Settings   *settings.Store
	AssetsDir  string
	ExportsDir string
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Mongo     string `json:"mongo"`
	Redis     string `json:"redis"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

func (h *Handler) jobs() *mongo.Collection     { return h.DB.Collection("storyboard_jobs") }
func (h *Handler) scenes() *mongo.Collection   { return h.DB.Collection("scenes") }
func (h *Handler) projects() *mongo.Collection { return h.DB.Collection("projects") }

func (h *Handler) healthCheck(c *gin.Context) {
	status := "healthy"
	mongoStatus := "ok"
	redisStatus := "ok"

	if err := h.DB.Client().Ping(c.Request.Context(), nil); err != nil {
		status = "degraded"
		mongoStatus = err.Error()
	}
	if err := h.Redis.Ping(c.Request.Context()).Err(); err != nil {
		status = "degraded"
		redisStatus = err.Error()
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Mongo:     mongoStatus,
		Redis:     redisStatus,
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// --- Projects ---

type createProjectRequest struct {
	Title string `json:"title" binding:"required"`
	Style string `json:"style"`
}

func (h *Handler) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	now := time.Now()
	project := models.Project{
		Title:     req.Title,
		Style:     req.Style,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := h.projects().InsertOne(c.Request.Context(), project)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create project",
		})
		return
	}
	project.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, project)
}

func (h *Handler) listProjects(c *gin.Context) {
	cursor, err := h.projects().Find(c.Request.Context(), bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list projects",
		})
		return
	}

	projects := []models.Project{}
	if err := cursor.All(c.Request.Context(), &projects); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to decode projects",
		})
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (h *Handler) getProject(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Project ID must be a valid object ID",
		})
		return
	}

	var project models.Project
	if err := h.projects().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&project); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Project not found",
		})
		return
	}

	c.JSON(http.StatusOK, project)
}

// deleteProject removes the project and all its storyboards and scenes. The
// media files themselves are left for the retention sweep.
func (h *Handler) deleteProject(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Project ID must be a valid object ID",
		})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.scenes().DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete scenes",
		})
		return
	}
	if _, err := h.jobs().DeleteMany(ctx, bson.M{"project_id": id}); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete storyboards",
		})
		return
	}
	result, err := h.projects().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete project",
		})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Project not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// --- Storyboards ---

type createStoryboardRequest struct {
	Script           string `json:"script" binding:"required"`
	SegmentationMode string `json:"segmentation_mode"`
	MaxScenes        int    `json:"max_scenes"`
	Provider         string `json:"provider"`
	GenerateAudio    bool   `json:"generate_audio"`
	GenerateImages   bool   `json:"generate_images"`
	Voice            string `json:"voice"`
}

var validModes = map[string]bool{
	models.ModeAuto:      true,
	models.ModeParagraph: true,
	models.ModeSentence:  true,
	models.ModeTimed:     true,
}

var validProviders = map[string]bool{
	models.ProviderGemini: true,
	models.ProviderOpenAI: true,
}

func (h *Handler) createStoryboard(c *gin.Context) {
	var req createStoryboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	projectID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Project ID must be a valid object ID",
		})
		return
	}

	ctx := c.Request.Context()
	var project models.Project
	if err := h.projects().FindOne(ctx, bson.M{"_id": projectID}).Decode(&project); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Project not found",
		})
		return
	}

	mode := req.SegmentationMode
	if mode == "" {
		mode = h.Settings.GetDefault(ctx, settings.KeySegmentationMode, models.ModeAuto)
	}
	if !validModes[mode] {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_segmentation_mode",
			Message: "Supported modes: auto, paragraph, sentence, timed",
		})
		return
	}

	if req.Provider != "" && !validProviders[req.Provider] {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_provider",
			Message: "Supported providers: gemini, openai",
		})
		return
	}

	format := "text"
	if script.IsSRT(req.Script) {
		format = "srt"
	}
	if mode == models.ModeTimed && format != "srt" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_script_format",
			Message: "Timed mode requires an SRT script",
		})
		return
	}

	job := models.StoryboardJob{
		ProjectID:        projectID,
		Script:           req.Script,
		ScriptFormat:     format,
		SegmentationMode: mode,
		MaxScenes:        req.MaxScenes,
		Provider:         req.Provider,
		GenerateAudio:    req.GenerateAudio,
		GenerateImages:   req.GenerateImages,
		Voice:            req.Voice,
		Status:           models.StatusPending,
		CreatedAt:        time.Now(),
	}

	result, err := h.jobs().InsertOne(ctx, job)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create storyboard",
		})
		return
	}
	job.ID = result.InsertedID.(primitive.ObjectID)

	payload := tasks.StoryboardTaskPayload{JobID: job.ID.Hex()}
	if err := tasks.Enqueue(ctx, h.Redis, tasks.QueueStoryboard, payload); err != nil {
		h.jobs().UpdateOne(ctx, bson.M{"_id": job.ID}, bson.M{"$set": bson.M{
			"status":        models.StatusFailed,
			"error_message": "failed to enqueue task",
		}})
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "queue_error",
			Message: "Failed to enqueue storyboard task",
		})
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *Handler) listStoryboards(c *gin.Context) {
	filter := bson.M{}
	if projectID := c.Query("project_id"); projectID != "" {
		id, err := primitive.ObjectIDFromHex(projectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_id",
				Message: "Project ID must be a valid object ID",
			})
			return
		}
		filter["project_id"] = id
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.jobs().Find(c.Request.Context(), filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list storyboards",
		})
		return
	}

	jobs := []models.StoryboardJob{}
	if err := cursor.All(c.Request.Context(), &jobs); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to decode storyboards",
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

func (h *Handler) getStoryboard(c *gin.Context) {
	job, ok := h.loadJob(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *Handler) getScenes(c *gin.Context) {
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

	c.JSON(http.StatusOK, scenes)
}

// loadJob resolves the :id route parameter into a job document, writing the
// error response itself when it cannot.
func (h *Handler) loadJob(c *gin.Context) (*models.StoryboardJob, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "Storyboard ID must be a valid object ID",
		})
		return nil, false
	}

	var job models.StoryboardJob
	if err := h.jobs().FindOne(c.Request.Context(), bson.M{"_id": id}).Decode(&job); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Storyboard not found",
		})
		return nil, false
	}
	return &job, true
}

func (h *Handler) loadScenes(c *gin.Context, jobID primitive.ObjectID) ([]models.Scene, error) {
	cursor, err := h.scenes().Find(c.Request.Context(), bson.M{"job_id": jobID},
		options.Find().SetSort(bson.D{{Key: "scene_number", Value: 1}}))
	if err != nil {
		return nil, err
	}

	scenes := []models.Scene{}
	if err := cursor.All(c.Request.Context(), &scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

// --- Settings ---

func (h *Handler) listSettings(c *gin.Context) {
	all, err := h.Settings.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list settings",
		})
		return
	}
	c.JSON(http.StatusOK, all)
}

func (h *Handler) getSetting(c *gin.Context) {
	value, err := h.Settings.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Setting not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": value})
}

type putSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

func (h *Handler) putSetting(c *gin.Context) {
	var req putSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	if err := h.Settings.Set(c.Request.Context(), c.Param("key"), req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to save setting",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": c.Param("key"), "value": req.Value})
}

func (h *Handler) deleteSetting(c *gin.Context) {
	if err := h.Settings.Delete(c.Request.Context(), c.Param("key")); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete setting",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
