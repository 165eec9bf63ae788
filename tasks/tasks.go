// Package tasks defines the queue names, task payloads and progress channel
// shared by the API and the worker. The queue is a Redis list: the API LPushes
// task payloads, the worker BRPops them one at a time.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// QueueStoryboard carries storyboard generation jobs.
const QueueStoryboard = "q_storyboard_generation"

// progressChannelPrefix namespaces per-job pub/sub progress channels.
const progressChannelPrefix = "storyboard_progress:"

// StoryboardTaskPayload is the payload for QueueStoryboard.
type StoryboardTaskPayload struct {
	JobID string `json:"job_id"`
}

// ProgressEvent is published after every pipeline step so the API can relay
// live progress to WebSocket clients.
type ProgressEvent struct {
	JobID       string    `json:"job_id"`
	Status      string    `json:"status"`
	Stage       string    `json:"stage"`
	SceneNumber int       `json:"scene_number,omitempty"`
	TotalScenes int       `json:"total_scenes,omitempty"`
	Message     string    `json:"message,omitempty"`
	At          time.Time `json:"at"`
}

// Marshal creates a JSON payload for a task.
func Marshal(payload interface{}) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Enqueue pushes a task payload onto a queue.
func Enqueue(ctx context.Context, rdb *redis.Client, queue string, payload interface{}) error {
	data, err := Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling task payload: %w", err)
	}
	if err := rdb.LPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("pushing to queue %s: %w", queue, err)
	}
	return nil
}

// ProgressChannel returns the pub/sub channel name for a job.
func ProgressChannel(jobID string) string {
	return progressChannelPrefix + jobID
}

// PublishProgress publishes a progress event on the job's channel. Publish
// failures are returned but safe to ignore: progress is advisory.
func PublishProgress(ctx context.Context, rdb *redis.Client, ev ProgressEvent) error {
	ev.At = time.Now()
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return rdb.Publish(ctx, ProgressChannel(ev.JobID), data).Err()
}
