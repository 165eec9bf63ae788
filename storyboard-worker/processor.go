package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storyboard_automation/models"
	"storyboard_automation/tasks"
)

func (w *Worker) jobs() *mongo.Collection     { return w.db.Collection("storyboard_jobs") }
func (w *Worker) scenes() *mongo.Collection   { return w.db.Collection("scenes") }
func (w *Worker) projects() *mongo.Collection { return w.db.Collection("projects") }

// processStoryboard runs the full pipeline for one job and records the
// outcome on the job document.
func (w *Worker) processStoryboard(ctx context.Context, jobID primitive.ObjectID) {
	startTime := time.Now()

	var job models.StoryboardJob
	if err := w.jobs().FindOne(ctx, bson.M{"_id": jobID}).Decode(&job); err != nil {
		log.Printf("Storyboard job %s not found: %v", jobID.Hex(), err)
		return
	}

	var project models.Project
	if err := w.projects().FindOne(ctx, bson.M{"_id": job.ProjectID}).Decode(&project); err != nil {
		log.Printf("Project %s not found for job %s: %v", job.ProjectID.Hex(), jobID.Hex(), err)
		w.failJob(ctx, jobID, "project not found", startTime)
		return
	}

	now := time.Now()
	w.updateJob(ctx, jobID, bson.M{
		"status":     models.StatusProcessing,
		"started_at": now,
	})
	w.publishProgress(ctx, jobID, models.StatusProcessing, "started", 0, 0, "Storyboard generation started")

	sceneCount, err := w.runPipeline(ctx, &job, &project)
	processingTime := time.Since(startTime).Seconds()

	if err != nil {
		log.Printf("❌ Storyboard generation failed for %s: %v", jobID.Hex(), err)
		w.failJob(ctx, jobID, err.Error(), startTime)
		return
	}

	completedAt := time.Now()
	w.updateJob(ctx, jobID, bson.M{
		"status":                  models.StatusCompleted,
		"scene_count":             sceneCount,
		"processing_time_seconds": processingTime,
		"completed_at":            completedAt,
	})

	if _, err := w.projects().UpdateOne(ctx,
		bson.M{"_id": job.ProjectID},
		bson.M{
			"$inc": bson.M{"total_storyboards": 1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	); err != nil {
		log.Printf("Failed to update project stats for %s: %v", job.ProjectID.Hex(), err)
	}

	w.publishProgress(ctx, jobID, models.StatusCompleted, "completed", sceneCount, sceneCount,
		"Storyboard generation completed")
	log.Printf("✅ Storyboard %s completed: %d scenes in %.2fs", jobID.Hex(), sceneCount, processingTime)
}

func (w *Worker) failJob(ctx context.Context, jobID primitive.ObjectID, errorMsg string, startTime time.Time) {
	completedAt := time.Now()
	w.updateJob(ctx, jobID, bson.M{
		"status":                  models.StatusFailed,
		"error_message":           errorMsg,
		"processing_time_seconds": time.Since(startTime).Seconds(),
		"completed_at":            completedAt,
	})
	w.publishProgress(ctx, jobID, models.StatusFailed, "failed", 0, 0, errorMsg)
}

func (w *Worker) updateJob(ctx context.Context, jobID primitive.ObjectID, updateData bson.M) {
	if _, err := w.jobs().UpdateOne(ctx, bson.M{"_id": jobID}, bson.M{"$set": updateData}); err != nil {
		log.Printf("Failed to update job %s: %v", jobID.Hex(), err)
	}
}

// publishProgress pushes a progress event; delivery is best effort.
func (w *Worker) publishProgress(ctx context.Context, jobID primitive.ObjectID, status, stage string, sceneNumber, totalScenes int, message string) {
	ev := tasks.ProgressEvent{
		JobID:       jobID.Hex(),
		Status:      status,
		Stage:       stage,
		SceneNumber: sceneNumber,
		TotalScenes: totalScenes,
		Message:     message,
	}
	if err := tasks.PublishProgress(ctx, w.rdb, ev); err != nil {
		log.Printf("Failed to publish progress for job %s: %v", jobID.Hex(), err)
	}
}
