package misc

import (
	"github.com/vlatan/advocacy-site/internal/config"
	"github.com/vlatan/advocacy-site/internal/drivers/rdb"
)

type Service struct {
	config *config.Config
	rdb    *rdb.Service
}

func New(config *config.Config, rdb *rdb.Service) *Service {
	return &Service{
		config: config,
		rdb:    rdb,
	}
}
