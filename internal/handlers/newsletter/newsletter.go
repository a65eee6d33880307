package newsletter

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/vlatan/advocacy-site/internal/config"
	"github.com/vlatan/advocacy-site/internal/drivers/rdb"
	"github.com/vlatan/advocacy-site/internal/integrations/r2"
	"github.com/vlatan/advocacy-site/internal/metrics"
)

var (
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrSubscriptionBusy  = errors.New("subscription in progress")
	ErrRateLimited       = errors.New("too many subscription attempts")
)

const (
	subscribersPrefix = "newsletter/subscribers/"
	lockKeyPrefix     = "newsletter:lock:"
	rateKeyPrefix     = "newsletter:rate:"
	maxBodyBytes      = 4 << 10
	maxSanitizeRounds = 5
)

type Service struct {
	rdb      *rdb.Service
	r2s      r2.Service
	metrics  *metrics.Metrics
	config   *config.Config
	validate *validator.Validate
	policy   *bluemonday.Policy
	now      func() time.Time
}

func New(
	rdb *rdb.Service,
	r2s r2.Service,
	metrics *metrics.Metrics,
	config *config.Config,
) *Service {

	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report the JSON names of the fields in the validation errors
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		rdb:      rdb,
		r2s:      r2s,
		metrics:  metrics,
		config:   config,
		validate: validate,
		policy:   bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}
