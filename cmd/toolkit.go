package cmd

import (
	"fmt"

	"github.com/user/aclsec/pkg/config"
	"github.com/user/aclsec/pkg/engine"
)

// toolkit holds the analysis components shared by the commands.
type toolkit struct {
	cfg         *config.Config
	ports       engine.PortTable
	evaluator   *engine.Evaluator
	remediation *engine.RemediationEngine
}

// newToolkit loads the config and applies the policy and template
// overrides. Flag values win over config values.
func newToolkit(policyPath, templatesDir string) (*toolkit, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	ports, err := engine.LoadPortPolicy(firstNonEmpty(policyPath, cfg.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("loading port policy: %w", err)
	}

	rem := engine.NewRemediationEngine()
	if dir := firstNonEmpty(templatesDir, cfg.TemplatesDir); dir != "" {
		if err := rem.LoadTemplates(dir); err != nil {
			return nil, fmt.Errorf("loading remediation templates: %w", err)
		}
	}

	return &toolkit{
		cfg:         cfg,
		ports:       ports,
		evaluator:   engine.NewEvaluator(engine.DefaultChecks(ports)...),
		remediation: rem,
	}, nil
}
