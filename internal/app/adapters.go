package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/infra/events"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/auth"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/collaboration"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/module/sheet"
	sharedevents "github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/events"
	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/middleware"
)

// busNotifier bridges the collaboration Notifier to the event bus. Join
// events become CollaboratorJoined events; handler failures are logged by
// the bus and never reach the join path.
type busNotifier struct {
	bus *events.Bus
}

var _ collaboration.Notifier = (*busNotifier)(nil)

func (n *busNotifier) Dispatch(ctx context.Context, recipientEmail, kind, relatedID, message string) {
	switch kind {
	case collaboration.KindCollaboratorJoined:
		n.bus.Publish(sharedevents.NewCollaboratorJoinedEvent(relatedID, recipientEmail, message))
	}
}

// jwtValidator adapts the auth service to the middleware's token validator.
type jwtValidator struct {
	service *auth.Service
}

var _ middleware.TokenValidator = (*jwtValidator)(nil)

func (v *jwtValidator) Validate(token string) (*middleware.Claims, error) {
	claims, err := v.service.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{
		UserID: claims.UserID,
		Email:  claims.Email,
	}, nil
}

// documentResolver lets the collaboration handler verify share ownership and
// snapshot the title without importing the sheet module's service.
type documentResolver struct {
	repo sheet.Repository
}

var _ collaboration.DocumentResolver = (*documentResolver)(nil)

func (r *documentResolver) ResolveForShare(ctx context.Context, documentID string, ownerID uuid.UUID) (string, error) {
	id, err := uuid.Parse(documentID)
	if err != nil {
		return "", collaboration.ErrDocumentNotFound
	}
	doc, err := r.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sheet.ErrDocumentNotFound) {
			return "", collaboration.ErrDocumentNotFound
		}
		return "", err
	}
	if doc.OwnerID != ownerID {
		return "", collaboration.ErrNotOwner
	}
	return doc.Title, nil
}

// redisRateLimiter is a fixed-window per-IP limiter for the global rate
// limit middleware.
type redisRateLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
}

var _ middleware.RateLimiter = (*redisRateLimiter)(nil)

func (l *redisRateLimiter) Allow(c *gin.Context, key string) (bool, int, time.Duration, error) {
	ctx := c.Request.Context()
	redisKey := fmt.Sprintf("ratelimit:ip:%s", key)

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, 0, err
	}

	count := int(incr.Val())
	reset := ttl.Val()
	if reset < 0 {
		// first request in the window, set the expiry
		reset = l.window
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, 0, err
		}
	}

	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= l.limit, remaining, reset, nil
}
