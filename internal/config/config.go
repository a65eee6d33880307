package config

import (
	"errors"
	"fmt"
	"log"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Running localy or not
	Debug    bool   `env:"DEBUG" envDefault:"false"`
	Protocol string `env:"PROTOCOL" envDefault:"https"`

	// Site settings
	SiteName     string   `env:"SITE_NAME" envDefault:"Advocacy"`
	SiteLanguage string   `env:"SITE_LANGUAGE" envDefault:"en"`
	Domain       string   `env:"DOMAIN" envDefault:"localhost:5000"`
	BaseURL      string   `env:"BASE_URL"`
	StaticPages  []string `env:"STATIC_PAGES" envDefault:"/about,/get-involved,/donate,/contact"`

	// Cache durations of the sitemaps and other public documents
	NewsSitemapMaxAge   time.Duration `env:"NEWS_SITEMAP_MAX_AGE" envDefault:"30m"`
	EventsSitemapMaxAge time.Duration `env:"EVENTS_SITEMAP_MAX_AGE" envDefault:"1h"`
	PagesSitemapMaxAge  time.Duration `env:"PAGES_SITEMAP_MAX_AGE" envDefault:"24h"`
	PublicCacheMaxAge   time.Duration `env:"PUBLIC_CACHE_MAX_AGE" envDefault:"24h"`

	// Headless CMS
	CMSProjectID   string        `env:"CMS_PROJECT_ID"`
	CMSDataset     string        `env:"CMS_DATASET" envDefault:"production"`
	CMSAPIVersion  string        `env:"CMS_API_VERSION" envDefault:"2024-01-01"`
	CMSToken       string        `env:"CMS_TOKEN"`
	CMSUseCDN      bool          `env:"CMS_USE_CDN" envDefault:"true"`
	CMSBaseURL     string        `env:"CMS_BASE_URL"`
	CMSTimeout     time.Duration `env:"CMS_TIMEOUT" envDefault:"10s"`
	CMSRecordLimit int           `env:"CMS_RECORD_LIMIT" envDefault:"1000"`

	// Cloudflare R2
	R2AccountId            string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyId          string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey      string `env:"R2_SECRET_ACCESS_KEY"`
	R2NewsletterBucketName string `env:"R2_NEWSLETTER_BUCKET_NAME"`

	// Newsletter
	NewsletterRateLimit   int64         `env:"NEWSLETTER_RATE_LIMIT" envDefault:"5"`
	NewsletterRateWindow  time.Duration `env:"NEWSLETTER_RATE_WINDOW" envDefault:"1h"`
	NewsletterLockTimeout time.Duration `env:"NEWSLETTER_LOCK_TIMEOUT" envDefault:"10s"`

	// Redis
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisUsername string `env:"REDIS_USERNAME"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Proxies allowed to report the client address, IPs or CIDRs
	TrustedProxies   []string       `env:"TRUSTED_PROXIES"`
	TrustedProxyNets []netip.Prefix `env:"-"`

	// Local app host and port
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"5000"`
}

// New creates new config object
func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse the config; %v", err)
	}
	return cfg
}

// Parse reads the config from the environment
// and validates the values the app can't run without.
func Parse() (*Config, error) {

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	// Derive the base URL from the domain if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("%s://%s", cfg.Protocol, cfg.Domain)
	}

	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	cfg.BaseURL = baseURL

	if cfg.CMSRecordLimit <= 0 {
		return nil, fmt.Errorf("invalid CMS record limit: %d", cfg.CMSRecordLimit)
	}

	cfg.TrustedProxyNets, err = parsePrefixes(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}

	for i, page := range cfg.StaticPages {
		cfg.StaticPages[i] = "/" + strings.Trim(strings.TrimSpace(page), "/")
	}

	return &cfg, nil
}

// normalizeBaseURL checks the URL is absolute
// and strips the trailing slash.
func normalizeBaseURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q; %w", raw, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return "", errors.New("base URL has no host")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// parsePrefixes accepts both single addresses and CIDR ranges
func parsePrefixes(values []string) ([]netip.Prefix, error) {

	var prefixes []netip.Prefix
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if strings.Contains(value, "/") {
			prefix, err := netip.ParsePrefix(value)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q; %w", value, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q; %w", value, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return prefixes, nil
}
