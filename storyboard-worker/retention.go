package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"storyboard_automation/models"
)

// assetRetention is how long generated media files are kept after a job
// completes. The storyboard documents themselves are kept indefinitely.
const assetRetention = 30 * 24 * time.Hour

// sweepExpiredAssets deletes audio and image files of storyboards older than
// the retention window and clears their file references.
func (w *Worker) sweepExpiredAssets(ctx context.Context) {
	cutoff := time.Now().Add(-assetRetention)
	log.Printf("Retention sweep: removing media for storyboards completed before %s", cutoff.Format(time.RFC3339))

	cursor, err := w.jobs().Find(ctx, bson.M{
		"status":       models.StatusCompleted,
		"completed_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		log.Printf("Retention sweep: finding expired jobs: %v", err)
		return
	}
	defer cursor.Close(ctx)

	removed := 0
	for cursor.Next(ctx) {
		var job models.StoryboardJob
		if err := cursor.Decode(&job); err != nil {
			log.Printf("Retention sweep: decoding job: %v", err)
			continue
		}

		sceneCursor, err := w.scenes().Find(ctx, bson.M{"job_id": job.ID})
		if err != nil {
			log.Printf("Retention sweep: finding scenes for job %s: %v", job.ID.Hex(), err)
			continue
		}

		var scenes []models.Scene
		if err := sceneCursor.All(ctx, &scenes); err != nil {
			log.Printf("Retention sweep: decoding scenes for job %s: %v", job.ID.Hex(), err)
			continue
		}

		for _, scene := range scenes {
			for _, name := range []string{scene.AudioFile, scene.ImageFile} {
				if name == "" {
					continue
				}
				if err := os.Remove(filepath.Join(w.assetsDir, name)); err != nil && !os.IsNotExist(err) {
					log.Printf("Retention sweep: removing %s: %v", name, err)
					continue
				}
				removed++
			}
		}

		if _, err := w.scenes().UpdateMany(ctx,
			bson.M{"job_id": job.ID},
			bson.M{"$unset": bson.M{"audio_file": "", "image_file": ""}},
		); err != nil {
			log.Printf("Retention sweep: clearing file references for job %s: %v", job.ID.Hex(), err)
		}
	}

	log.Printf("Retention sweep complete: %d files removed", removed)
}
