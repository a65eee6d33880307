package newsletter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/vlatan/advocacy-site/internal/integrations/r2"
	"github.com/vlatan/advocacy-site/internal/models"
)

// Allow checks the rate limit of the client
func (s *Service) Allow(ctx context.Context, clientIP string) error {

	allowed, err := s.rdb.Allow(
		ctx,
		rateKeyPrefix+clientIP,
		s.config.NewsletterRateLimit,
		s.config.NewsletterRateWindow,
	)

	if err != nil {
		return fmt.Errorf("couldn't check the rate limit of %s; %w", clientIP, err)
	}

	if !allowed {
		return ErrRateLimited
	}

	return nil
}

// Subscribe stores the subscriber in the bucket unless it's already there.
// Concurrent requests for the same email are serialized with a lock.
func (s *Service) Subscribe(ctx context.Context, sub *models.Subscriber) error {

	hash := emailHash(sub.Email)
	lock := s.rdb.NewLock(lockKeyPrefix+hash, uuid.NewString(), s.config.NewsletterLockTimeout)

	acquired, err := lock.TryLock(ctx)
	if err != nil {
		return fmt.Errorf("couldn't acquire the subscription lock; %w", err)
	}

	if !acquired {
		return ErrSubscriptionBusy
	}

	defer func() {
		// The request context might be done by now
		if err := lock.Unlock(context.WithoutCancel(ctx)); err != nil {
			log.Printf("Failed to release the subscription lock %s: %v", hash, err)
		}
	}()

	bucket := s.config.R2NewsletterBucketName
	key := subscriberKey(sub.Email)

	_, err = s.r2s.HeadObject(ctx, bucket, key)
	if err == nil {
		return ErrAlreadySubscribed
	}

	if !errors.Is(err, r2.ErrObjectNotFound) {
		return fmt.Errorf("couldn't check the subscriber %s; %w", key, err)
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("couldn't encode the subscriber; %w", err)
	}

	metadata := map[string]string{"source": sub.Source}
	err = s.r2s.PutObject(ctx, bucket, key, bytes.NewReader(body), "application/json", metadata)
	if err != nil {
		return fmt.Errorf("couldn't store the subscriber; %w", err)
	}

	return nil
}
