package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"esenciafest-backend/internal/models"
	"esenciafest-backend/internal/repository"
	"esenciafest-backend/internal/services"
)

// Pool consumes background jobs from the Redis queues: activity-log
// writes for room completions and welcome emails for new registrations.
type Pool struct {
	redis        *redis.Client
	email        *services.EmailService
	progressRepo *repository.ProgressRepo
	workerCount  int
	stopChan     chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	email *services.EmailService,
	progressRepo *repository.ProgressRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:        redisClient,
		email:        email,
		progressRepo: progressRepo,
		workerCount:  workerCount,
		stopChan:     make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{
		models.QueueActivityLog,
		models.QueueWelcomeEmail,
	}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		p.process(ctx, id, &job)
	}
}

func (p *Pool) process(ctx context.Context, id int, job *models.Job) {
	switch job.Type {
	case models.JobTypeActivityLog:
		entry := &models.ActivityEntry{
			ID:        job.ID,
			UserEmail: job.UserEmail,
			Action:    models.ActivityRoomCompleted,
			RoomID:    job.RoomID,
			Timestamp: job.CreatedAt,
		}
		if err := p.progressRepo.LogActivity(ctx, entry); err != nil {
			log.Printf("Worker %d: activity log failed for %s/%s: %v", id, job.UserEmail, job.RoomID, err)
		}

	case models.JobTypeWelcomeEmail:
		if err := p.email.SendWelcomeEmail(job.UserEmail, job.UserName); err != nil {
			log.Printf("Worker %d: welcome email failed for %s: %v", id, job.UserEmail, err)
		}

	default:
		log.Printf("Worker %d: unknown job type %q", id, job.Type)
	}
}
