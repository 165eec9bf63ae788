package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job lifecycle statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Segmentation modes. The modes are instruction text handed to the model,
// not a local algorithm; see the worker's prompt builders.
const (
	ModeAuto      = "auto"
	ModeParagraph = "paragraph"
	ModeSentence  = "sentence"
	ModeTimed     = "timed"
)

// AI providers for scene segmentation.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Project groups storyboards under a shared title and visual style.
type Project struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Style            string             `bson:"style" json:"style"`
	TotalStoryboards int                `bson:"total_storyboards" json:"total_storyboards"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// StoryboardJob is one generation run over an uploaded script.
type StoryboardJob struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`

	Script           string `bson:"script" json:"script"`
	ScriptFormat     string `bson:"script_format" json:"script_format"` // "text" or "srt"
	SegmentationMode string `bson:"segmentation_mode" json:"segmentation_mode"`
	MaxScenes        int    `bson:"max_scenes" json:"max_scenes"`
	Provider         string `bson:"provider" json:"provider"`

	GenerateAudio  bool   `bson:"generate_audio" json:"generate_audio"`
	GenerateImages bool   `bson:"generate_images" json:"generate_images"`
	Voice          string `bson:"voice,omitempty" json:"voice,omitempty"`

	Status       string  `bson:"status" json:"status"`
	SceneCount   int     `bson:"scene_count,omitempty" json:"scene_count,omitempty"`
	CurrentScene int     `bson:"current_scene,omitempty" json:"current_scene,omitempty"`
	ErrorMessage string  `bson:"error_message,omitempty" json:"error_message,omitempty"`
	Processing   float64 `bson:"processing_time_seconds,omitempty" json:"processing_time_seconds,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	StartedAt   *time.Time `bson:"started_at,omitempty" json:"started_at,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Scene is one segment of the script with its generated artifacts.
type Scene struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	JobID     primitive.ObjectID `bson:"job_id" json:"job_id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`

	SceneNumber     int     `bson:"scene_number" json:"scene_number"`
	Narration       string  `bson:"narration" json:"narration"`
	Summary         string  `bson:"summary" json:"summary"`
	DurationSeconds float64 `bson:"duration_seconds" json:"duration_seconds"`

	ImagePrompt string `bson:"image_prompt,omitempty" json:"image_prompt,omitempty"`
	VideoPrompt string `bson:"video_prompt,omitempty" json:"video_prompt,omitempty"`

	AudioFile       string `bson:"audio_file,omitempty" json:"audio_file,omitempty"`
	AudioSampleRate int    `bson:"audio_sample_rate,omitempty" json:"audio_sample_rate,omitempty"`
	ImageFile       string `bson:"image_file,omitempty" json:"image_file,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Setting is one entry in the persistent configuration store.
type Setting struct {
	Key       string    `bson:"key" json:"key"`
	Value     string    `bson:"value" json:"value"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
