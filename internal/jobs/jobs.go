package jobs

import (
	"context"
	"fmt"
	"time"

	"stonefire/internal/db"
	"stonefire/internal/model"
	"stonefire/internal/pubsub"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// staleAfter is how long a submission may sit in NEW before the admin
	// feed gets a needs-attention nudge.
	staleAfter = 72 * time.Hour
)

type JobServer struct {
	server *asynq.Server
	client *asynq.Client
	db     *db.Pool
	bus    *pubsub.Bus
	log    *zap.Logger
}

func NewJobServer(redisAddr string, dbPool *db.Pool, bus *pubsub.Bus, log *zap.Logger) (*JobServer, *Client) {
	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	client := asynq.NewClient(redisOpt)

	return &JobServer{
		server: server,
		client: client,
		db:     dbPool,
		bus:    bus,
		log:    log,
	}, &Client{client: client}
}

func (js *JobServer) Start() error {
	mux := asynq.NewServeMux()

	// Register job handlers
	mux.HandleFunc("submission:notify", js.handleSubmissionNotify)
	mux.HandleFunc("submission:stale", js.handleSubmissionStale)

	return js.server.Start(mux)
}

func (js *JobServer) Stop() {
	js.server.Shutdown()
	js.client.Close()
}

// Job handlers

func (js *JobServer) handleSubmissionNotify(ctx context.Context, t *asynq.Task) error {
	submissionID := string(t.Payload())

	sub, err := js.db.Queries.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to get submission: %w", err)
	}

	// Notification delivery seam: the actual mail integration hangs off this
	// log line and event. Location name makes the admin event self-describing.
	locationName := ""
	if sub.LocationID != nil {
		if loc, err := js.db.Queries.GetLocationByID(ctx, *sub.LocationID); err == nil {
			locationName = loc.Name
		}
	}

	_ = js.bus.PublishSubmission(ctx, sub.Form, map[string]interface{}{
		"type":         "submission.notified",
		"submissionId": submissionID,
		"location":     locationName,
	})

	js.log.Info("Submission notification sent",
		zap.String("submission_id", submissionID),
		zap.String("form", sub.Form),
		zap.String("location", locationName))
	return nil
}

func (js *JobServer) handleSubmissionStale(ctx context.Context, t *asynq.Task) error {
	submissionID := string(t.Payload())

	sub, err := js.db.Queries.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to get submission: %w", err)
	}

	// Only nudge if nobody touched it
	if sub.Status != string(model.StatusNew) {
		return nil
	}

	_ = js.bus.PublishSubmission(ctx, sub.Form, map[string]interface{}{
		"type":         "submission.needs_attention",
		"submissionId": submissionID,
		"receivedAt":   sub.CreatedAt.Format(time.RFC3339),
	})

	js.log.Info("Stale submission flagged", zap.String("submission_id", submissionID))
	return nil
}

// Client enqueues submission jobs from the request path
type Client struct {
	client *asynq.Client
}

// EnqueueSubmissionNotify queues the notification for a fresh submission and
// schedules the stale check behind it.
func (c *Client) EnqueueSubmissionNotify(submissionID string) error {
	task := asynq.NewTask("submission:notify", []byte(submissionID))
	if _, err := c.client.Enqueue(task, asynq.Queue("critical")); err != nil {
		return err
	}

	stale := asynq.NewTask("submission:stale", []byte(submissionID))
	_, err := c.client.Enqueue(stale, asynq.ProcessIn(staleAfter), asynq.Queue("low"))
	return err
}

func (c *Client) Close() error {
	return c.client.Close()
}
