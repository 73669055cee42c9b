package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-beans/framework/beans"
	"github.com/km-arc/go-beans/framework/config"
	"github.com/km-arc/go-beans/framework/definition"
	"github.com/km-arc/go-beans/framework/instantiate"
	"github.com/km-arc/go-beans/framework/metrics"
)

// Names under which the framework's own objects are published.
const (
	ConfigBean  = "config"
	LoggerBean  = "logger"
	MetricsBean = "metrics"
)

// ── InfrastructureProvider ────────────────────────────────────────────────────

// InfrastructureProvider publishes the already-built framework objects as
// singletons so application beans can look them up by name. Each object is
// also published under its beans.TypeKey, so lookups keyed by type work too.
//
// Published beans:
//   - "config"  → *config.Config
//   - "logger"  → *zap.Logger
//   - "metrics" → *metrics.Collector (when non-nil)
type InfrastructureProvider struct {
	BaseProvider
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Collector
}

func (p *InfrastructureProvider) Boot(f *beans.Factory) error {
	if err := publish(f, ConfigBean, p.Config); err != nil {
		return err
	}
	if err := publish(f, LoggerBean, p.Logger); err != nil {
		return err
	}
	if p.Metrics != nil {
		return publish(f, MetricsBean, p.Metrics)
	}
	return nil
}

func publish(f *beans.Factory, name string, instance any) error {
	for _, key := range []string{name, beans.TypeKey(instance)} {
		if _, err := f.RegisterSingleton(key, instance); err != nil {
			return err
		}
	}
	return nil
}

// ── FileProvider ──────────────────────────────────────────────────────────────

// FileProvider loads definitions from a YAML or JSON file. A Watcher on the
// same path later replaces exactly these definitions.
type FileProvider struct {
	BaseProvider
	Path string
}

func (p *FileProvider) Register(defs *definition.Registry, _ *instantiate.Constructors) error {
	if p.Path == "" {
		return nil
	}
	return definition.LoadFile(defs, p.Path)
}
