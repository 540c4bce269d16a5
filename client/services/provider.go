package services

import (
	"github.com/docstacker/docsign/client/config"
	"github.com/docstacker/docsign/client/modules/state"
	"github.com/docstacker/docsign/client/repositories/session"
	"github.com/docstacker/docsign/client/services/workflow"
	"github.com/docstacker/docsign/common"
	"github.com/docstacker/docsign/docapi"
	"github.com/docstacker/docsign/storage"
)

var provider ServiceProvider

type ServiceProvider struct {
	config          *config.Config
	state           state.State
	storage         storage.Storage
	documentService docapi.DocumentService
	workflowService workflow.Service
	logger          common.Logger
}

// Init services
func (p *ServiceProvider) Init(
	conf *config.Config,
	s state.State,
	stg storage.Storage,
	docs docapi.DocumentService,
	logger common.Logger,
) error {
	p.config = conf
	p.state = s
	p.storage = stg
	p.documentService = docs
	p.logger = logger

	repo := session.NewSessionRepo(s, conf.StateNamespace)
	svc := workflow.NewService(docs, repo, stg, logger, conf.QRSize)
	if err := svc.LoadSessions(); err != nil {
		return err
	}
	p.workflowService = svc

	return nil
}

func (p *ServiceProvider) Config() *config.Config {
	return p.config
}

func (p *ServiceProvider) WorkflowService() workflow.Service {
	return p.workflowService
}

func (p *ServiceProvider) DocumentService() docapi.DocumentService {
	return p.documentService
}

func (p *ServiceProvider) Storage() storage.Storage {
	return p.storage
}

func (p *ServiceProvider) Logger() common.Logger {
	return p.logger
}

// Close releases the state and the audit storage.
func (p *ServiceProvider) Close() error {
	var firstErr error
	if p.storage != nil {
		if err := p.storage.Close(); err != nil {
			firstErr = err
		}
	}
	if p.state != nil {
		if err := p.state.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func App() *ServiceProvider {
	return &provider
}
