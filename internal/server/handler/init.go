package handler

import (
	"flowline/pkg/queue"

	"github.com/redis/go-redis/v9"
)

var (
	runQueue    *queue.Client
	redisClient *redis.Client
)

// Init wires the handlers' process-level collaborators. Called once from
// cmd/server before routes are registered.
func Init(q *queue.Client, r *redis.Client) {
	runQueue = q
	redisClient = r
}
