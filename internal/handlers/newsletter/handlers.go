package newsletter

import (
	"errors"
	"log"
	"net/http"

	"github.com/vlatan/advocacy-site/internal/models"
	"github.com/vlatan/advocacy-site/internal/utils"
)

// SubscribeHandler adds an email to the newsletter subscribers
func (s *Service) SubscribeHandler(w http.ResponseWriter, r *http.Request) {

	req, err := decodeRequest(w, r)
	if err != nil {
		s.metrics.ObserveSubscription("invalid")
		utils.JSONError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		s.metrics.ObserveSubscription("invalid")
		utils.JSONError(w, r, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := s.Allow(r.Context(), utils.ClientIP(r, s.config.TrustedProxyNets)); err != nil {
		if errors.Is(err, ErrRateLimited) {
			s.metrics.ObserveSubscription("rate_limited")
			utils.JSONError(w, r, http.StatusTooManyRequests, "")
			return
		}

		log.Printf("Failed to rate limit the subscription on URI '%s': %v", r.RequestURI, err)
		s.metrics.ObserveSubscription("error")
		utils.JSONError(w, r, http.StatusInternalServerError, "")
		return
	}

	sub := &models.Subscriber{
		Email:        req.Email,
		Name:         s.sanitizeName(req.Name),
		SubscribedAt: s.now().UTC(),
		Source:       r.Referer(),
	}

	err = s.Subscribe(r.Context(), sub)

	switch {
	case err == nil:
		s.metrics.ObserveSubscription("created")
		utils.WriteJSON(w, r, http.StatusCreated, models.MessageData{Message: "subscribed"})
	case errors.Is(err, ErrAlreadySubscribed):
		s.metrics.ObserveSubscription("existing")
		utils.WriteJSON(w, r, http.StatusOK, models.MessageData{Message: "already subscribed"})
	case errors.Is(err, ErrSubscriptionBusy):
		s.metrics.ObserveSubscription("busy")
		utils.JSONError(w, r, http.StatusConflict, "subscription in progress")
	default:
		log.Printf("Failed to subscribe on URI '%s': %v", r.RequestURI, err)
		s.metrics.ObserveSubscription("error")
		utils.JSONError(w, r, http.StatusInternalServerError, "")
	}
}
