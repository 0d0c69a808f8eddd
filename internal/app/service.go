package app

import (
	"fmt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/certificate"
	"github.com/shrimpsizemoose/encore/internal/identity"
	"github.com/shrimpsizemoose/encore/internal/lifecycle"
	"github.com/shrimpsizemoose/encore/internal/reconcile"
	"github.com/shrimpsizemoose/encore/internal/scoring"
	"github.com/shrimpsizemoose/encore/internal/store"
)

// Service wires the competition components around one store.
type Service struct {
	Config *Config
	Store  store.CompetitionStore

	Reconciler   *reconcile.Reconciler
	Aggregator   *scoring.Aggregator
	Editor       *scoring.Editor
	Gate         *scoring.Gate
	Certificates *certificate.Issuer
	Lifecycle    *lifecycle.Machine

	sink *certificate.RedisSink
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	s, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	if config.Database.ApplyMigrations {
		if err := s.ApplyMigrations(); err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	var sink *certificate.RedisSink
	if config.Redis.Enabled {
		sink, err = certificate.NewRedisSink(config.Redis.URL, config.Redis.CertificateKeyTemplate, config.Redis.OutboxKey)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to init certificate sink: %w", err)
		}
	} else {
		logger.Info.Println("Redis disabled, certificates will be stored but not delivered")
	}

	return NewServiceWith(config, s, sink), nil
}

// NewServiceWith builds the components on an already opened store. sink may be nil.
func NewServiceWith(config *Config, s store.CompetitionStore, sink *certificate.RedisSink) *Service {
	var certSink certificate.Sink
	if sink != nil {
		certSink = sink
	}

	aggregator := scoring.NewAggregator(s)
	issuer := certificate.NewIssuer(s, certSink, config.CertificateConfig())

	return &Service{
		Config:       config,
		Store:        s,
		Reconciler:   reconcile.NewReconciler(s, identity.NewResolver(s)),
		Aggregator:   aggregator,
		Editor:       scoring.NewEditor(s),
		Gate:         scoring.NewGate(s, aggregator),
		Certificates: issuer,
		Lifecycle:    lifecycle.NewMachine(s, issuer),
		sink:         sink,
	}
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if s.sink != nil {
		if err := s.sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
