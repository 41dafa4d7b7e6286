package service

import (
	"errors"
	"time"

	"github.com/MikeRez0/tgshop/internal/core/port"
	"go.uber.org/zap"
)

const (
	defaultCatalogTimeout = 2 * time.Second
	defaultNotifyTimeout  = 3 * time.Second
	auditTimeout          = time.Second
)

// Options configures payment verification and outbound call bounds.
type Options struct {
	Provider       string
	Currency       string
	WebhookSecret  string
	SigningKey     string
	CatalogTimeout time.Duration
	NotifyTimeout  time.Duration
}

type Service struct {
	repo     port.Repository
	catalog  port.Catalog
	pickup   port.PickupResolver
	linker   port.PaymentLinker
	notifier port.Notifier
	events   port.EventPublisher
	audit    port.AuditLog
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(repo port.Repository, catalog port.Catalog, pickup port.PickupResolver,
	linker port.PaymentLinker, notifier port.Notifier, events port.EventPublisher,
	audit port.AuditLog, opts Options, logger *zap.Logger) (*Service, error) {
	if opts.WebhookSecret == "" || opts.SigningKey == "" {
		return nil, errors.New("webhook secret and signing key must be set")
	}
	if opts.CatalogTimeout <= 0 {
		opts.CatalogTimeout = defaultCatalogTimeout
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}

	return &Service{
		repo:     repo,
		catalog:  catalog,
		pickup:   pickup,
		linker:   linker,
		notifier: notifier,
		events:   events,
		audit:    audit,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}, nil
}
