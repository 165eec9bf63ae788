package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storyboard_automation/gemini"
	"storyboard_automation/internal/platform"
	"storyboard_automation/settings"
	"storyboard_automation/tasks"
)

// Worker consumes storyboard tasks from the Redis queue one at a time and
// runs the generation pipeline. Rate limiting toward the AI API comes from
// the single-concurrency consumption plus the client's exponential backoff;
// a short courtesy delay between scenes is kept on top.
type Worker struct {
	db        *mongo.Database
	rdb       *redis.Client
	settings  *settings.Store
	gemini    *gemini.Client
	assetsDir string

	sceneDelay time.Duration
}

func main() {
	client, db := platform.NewMongoDatabase()
	defer client.Disconnect(context.Background())
	rdb := platform.NewRedisClient()
	ctx := context.Background()

	geminiKey := platform.GeminiAPIKey()
	if geminiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	w := &Worker{
		db:         db,
		rdb:        rdb,
		settings:   settings.NewStore(db),
		gemini:     gemini.NewClient(geminiKey),
		assetsDir:  platform.AssetsDir(),
		sceneDelay: 1 * time.Second,
	}

	for _, dir := range []string{
		filepath.Join(w.assetsDir, "audio"),
		filepath.Join(w.assetsDir, "images"),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create asset directory %s: %v", dir, err)
		}
	}

	// Nightly sweep of media belonging to old storyboards.
	c := cron.New()
	if _, err := c.AddFunc("@daily", func() { w.sweepExpiredAssets(ctx) }); err != nil {
		log.Fatalf("Failed to schedule retention sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	go w.listenForStoryboardTasks(ctx)

	log.Println("Worker started, waiting for queue tasks...")
	select {}
}

// listenForStoryboardTasks uses a Redis list as a queue. BRPop blocks until a
// task arrives and pops it atomically, so this is safe to run on multiple
// worker instances.
func (w *Worker) listenForStoryboardTasks(ctx context.Context) {
	log.Println("Processor listening for storyboard tasks on the queue...")

	for {
		result, err := w.rdb.BRPop(ctx, 0, tasks.QueueStoryboard).Result()
		if err != nil {
			log.Printf("Error popping from queue %s: %v", tasks.QueueStoryboard, err)
			time.Sleep(1 * time.Second)
			continue
		}

		var task tasks.StoryboardTaskPayload
		if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
			log.Printf("Error unmarshalling %s message: %v", tasks.QueueStoryboard, err)
			continue
		}

		jobID, err := primitive.ObjectIDFromHex(task.JobID)
		if err != nil {
			log.Printf("Invalid job ID in task payload: %q", task.JobID)
			continue
		}

		log.Printf("Received task to process storyboard %s", task.JobID)
		w.processStoryboard(ctx, jobID)
	}
}
