package providers_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/km-arc/go-beans/framework/beans"
	"github.com/km-arc/go-beans/framework/config"
	"github.com/km-arc/go-beans/framework/definition"
	"github.com/km-arc/go-beans/framework/instantiate"
	"github.com/km-arc/go-beans/framework/metrics"
	"github.com/km-arc/go-beans/framework/providers"
)

// ── stub providers ────────────────────────────────────────────────────────────

type greeting struct{ Text string }

type greetingProvider struct {
	providers.BaseProvider
	registerCalls int
	bootCalls     int
}

func (p *greetingProvider) Register(defs *definition.Registry, ctors *instantiate.Constructors) error {
	p.registerCalls++
	if err := ctors.Register("greeting", func(text string) *greeting { return &greeting{Text: text} }); err != nil {
		return err
	}
	return defs.Register(definition.Definition{Name: "greeting", Type: "greeting", Args: []any{"hi"}})
}

func (p *greetingProvider) Boot(*beans.Factory) error {
	p.bootCalls++
	return nil
}

type failingProvider struct {
	providers.BaseProvider
}

func (p *failingProvider) Register(*definition.Registry, *instantiate.Constructors) error {
	return errors.New("nope")
}

func newRegistry(t *testing.T) (*providers.Registry, *definition.Registry, *instantiate.Constructors) {
	t.Helper()
	defs, err := definition.NewRegistry()
	require.NoError(t, err)
	ctors := instantiate.New()
	return providers.NewRegistry(defs, ctors), defs, ctors
}

// ── Registry ──────────────────────────────────────────────────────────────────

func TestRegistry_RegisterRunsImmediately_BootDeferred(t *testing.T) {
	reg, defs, ctors := newRegistry(t)
	p := &greetingProvider{}

	require.NoError(t, reg.Register(p))
	assert.Equal(t, 1, p.registerCalls)
	assert.Equal(t, 0, p.bootCalls)
	assert.False(t, reg.Booted())

	f := beans.New(defs, ctors)
	require.NoError(t, reg.Boot(f))
	assert.Equal(t, 1, p.bootCalls)
	assert.True(t, reg.Booted())

	g, err := beans.GetAs[*greeting](f, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hi", g.Text)
}

func TestRegistry_DuplicateRegisterIgnored(t *testing.T) {
	reg, _, _ := newRegistry(t)
	p := &greetingProvider{}

	require.NoError(t, reg.Register(p))
	require.NoError(t, reg.Register(p))
	assert.Equal(t, 1, p.registerCalls)
	assert.Len(t, reg.Providers(), 1)
}

func TestRegistry_BootIsIdempotent(t *testing.T) {
	reg, defs, ctors := newRegistry(t)
	p := &greetingProvider{}
	require.NoError(t, reg.Register(p))

	f := beans.New(defs, ctors)
	require.NoError(t, reg.Boot(f))
	require.NoError(t, reg.Boot(f))
	assert.Equal(t, 1, p.bootCalls)
}

func TestRegistry_RegisterAfterBoot_BootsImmediately(t *testing.T) {
	reg, defs, ctors := newRegistry(t)
	require.NoError(t, reg.Boot(beans.New(defs, ctors)))

	p := &greetingProvider{}
	require.NoError(t, reg.Register(p))
	assert.Equal(t, 1, p.bootCalls)
}

func TestRegistry_RegisterErrorIsWrapped(t *testing.T) {
	reg, _, _ := newRegistry(t)
	err := reg.Register(&failingProvider{})
	assert.ErrorContains(t, err, "nope")
	assert.Empty(t, reg.Providers())
}

func TestBaseProvider_Defaults(t *testing.T) {
	var p providers.BaseProvider
	assert.NoError(t, p.Register(nil, nil))
	assert.NoError(t, p.Boot(nil))
}

// ── Framework providers ───────────────────────────────────────────────────────

func TestInfrastructureProvider_PublishesSingletons(t *testing.T) {
	reg, defs, ctors := newRegistry(t)
	cfg := &config.Config{}
	logger := zap.NewNop()
	collector := metrics.NewCollector("test")

	require.NoError(t, reg.Register(&providers.InfrastructureProvider{Config: cfg, Logger: logger, Metrics: collector}))
	f := beans.New(defs, ctors)
	require.NoError(t, reg.Boot(f))

	gotCfg, err := beans.GetAs[*config.Config](f, providers.ConfigBean)
	require.NoError(t, err)
	assert.Same(t, cfg, gotCfg)

	gotLogger, err := beans.GetAs[*zap.Logger](f, providers.LoggerBean)
	require.NoError(t, err)
	assert.Same(t, logger, gotLogger)

	gotMetrics, err := beans.GetAs[*metrics.Collector](f, providers.MetricsBean)
	require.NoError(t, err)
	assert.Same(t, collector, gotMetrics)
}

func TestInfrastructureProvider_PublishesByTypeKey(t *testing.T) {
	reg, defs, ctors := newRegistry(t)
	cfg := &config.Config{}
	logger := zap.NewNop()

	require.NoError(t, reg.Register(&providers.InfrastructureProvider{Config: cfg, Logger: logger}))
	f := beans.New(defs, ctors)
	require.NoError(t, reg.Boot(f))

	gotCfg, err := beans.GetAs[*config.Config](f, "github.com/km-arc/go-beans/framework/config.Config")
	require.NoError(t, err)
	assert.Same(t, cfg, gotCfg)

	gotLogger, err := beans.GetAs[*zap.Logger](f, beans.TypeKey(logger))
	require.NoError(t, err)
	assert.Same(t, logger, gotLogger)

	assert.Equal(t, []string{
		providers.ConfigBean, "github.com/km-arc/go-beans/framework/config.Config",
		providers.LoggerBean, "go.uber.org/zap.Logger",
	}, f.SingletonNames())
}

func TestInfrastructureProvider_MetricsOptional(t *testing.T) {
	reg, defs, ctors := newRegistry(t)
	require.NoError(t, reg.Register(&providers.InfrastructureProvider{Config: &config.Config{}, Logger: zap.NewNop()}))
	f := beans.New(defs, ctors)
	require.NoError(t, reg.Boot(f))
	assert.False(t, f.ContainsBean(providers.MetricsBean))
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beans.yaml")
	require.NoError(t, os.WriteFile(path, []byte("beans:\n  - name: a\n    type: x\n"), 0o644))

	reg, defs, _ := newRegistry(t)
	require.NoError(t, reg.Register(&providers.FileProvider{Path: path}))
	assert.True(t, defs.Contains("a"))

	require.NoError(t, reg.Register(&providers.FileProvider{}))
	assert.Error(t, reg.Register(&providers.FileProvider{Path: filepath.Join(t.TempDir(), "missing.yaml")}))
}
