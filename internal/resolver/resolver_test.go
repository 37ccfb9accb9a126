package resolver

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fluidtypo3/fluxactions/internal/ir"
	"github.com/fluidtypo3/fluxactions/internal/testutil"
)

const lll = "LLL:EXT:flux/Resources/Private/Language/locallang.xlf:"

// noPluginNaming mirrors a field with no plugin name, producing ".content.x" label paths.
func noPluginNaming() ir.NamingConfig {
	n := testutil.FluxNaming()
	n.PluginName = ""
	return n
}

func disabledLabels() ir.NamingConfig {
	n := testutil.FluxNaming()
	n.PluginName = "Test"
	n.DisableLocalLanguageLabels = true
	return n
}

func TestResolveSkipsNonExistingControllers(t *testing.T) {
	r := New(testutil.FluxCatalog())
	items := r.Resolve(Input{
		Actions: ir.ActionSpec{
			{Controller: "Content", Actions: []string{"render"}},
			{Controller: "DoesNotExist", Actions: []string{"render"}},
		},
		Naming: noPluginNaming(),
	})

	want := []ir.ResolvedItem{{Label: lll + ".content.render", Reference: "Content->render"}}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveSkipsUnknownActions(t *testing.T) {
	r := New(testutil.FluxCatalog())
	items := r.Resolve(Input{
		Actions: ir.ActionSpec{{Controller: "Content", Actions: []string{"fake", "doesNotExist"}}},
		Naming:  noPluginNaming(),
	})

	require.Len(t, items, 1)
	assert.Equal(t, "Content->fake", items[0].Reference)
}

func TestResolveRespectsExcludedActions(t *testing.T) {
	r := New(testutil.FluxCatalog())
	items := r.Resolve(Input{
		Actions:    ir.ActionSpec{{Controller: "Content", Actions: []string{"render", "fake"}}},
		Exclusions: ir.ExclusionSpec{"Content": {"fake"}},
		Naming:     noPluginNaming(),
	})

	require.Len(t, items, 1)
	assert.Equal(t, "Content->render", items[0].Reference)
	for _, item := range items {
		assert.NotContains(t, item.Reference, "Content->fake")
	}
}

func TestResolveSupportsSubActions(t *testing.T) {
	cfg := noPluginNaming()
	cfg.ControllerName = "Content"
	r := New(testutil.FluxCatalog())
	items := r.Resolve(Input{
		Actions:    ir.ActionSpec{{Controller: "Content", Actions: []string{"fake"}}},
		SubActions: ir.SubActionSpec{"Content": {"fake": {"render"}}},
		Naming:     cfg,
	})

	want := []ir.ResolvedItem{{Label: lll + ".content.fake", Reference: "Content->fake;Content->render"}}
	assert.Equal(t, want, items)
}

func TestResolveMultipleSubActionsAndSeparator(t *testing.T) {
	cfg := noPluginNaming()
	r := New(testutil.FluxCatalog())
	in := Input{
		Actions:    ir.ActionSpec{{Controller: "Content", Actions: []string{"fake"}}},
		SubActions: ir.SubActionSpec{"Content": {"fake": {"render", "fakeWithoutDescription"}}},
		Naming:     cfg,
	}
	items := r.Resolve(in)
	require.Len(t, items, 1)
	assert.Equal(t, "Content->fake;Content->render;Content->fakeWithoutDescription", items[0].Reference)

	in.Naming.Separator = " :: "
	items = r.Resolve(in)
	require.Len(t, items, 1)
	assert.Equal(t, "Content->fake :: Content->render :: Content->fakeWithoutDescription", items[0].Reference)
}

func TestResolveSkipsOtherControllersWhenScoped(t *testing.T) {
	cat := testutil.FluxCatalog()
	require.NoError(t, cat.Alias(testutil.OtherControllerID, testutil.ContentControllerID))
	r := New(cat)

	actions := ir.ActionSpec{
		{Controller: "Content", Actions: []string{"fake"}},
		{Controller: "Other", Actions: []string{"fake"}},
	}

	// Unscoped: Other resolves through the alias.
	items := r.Resolve(Input{Actions: actions, Naming: noPluginNaming()})
	require.Len(t, items, 2)
	assert.Equal(t, "Other->fake", items[1].Reference)

	cfg := noPluginNaming()
	cfg.ControllerName = "Content"
	items = r.Resolve(Input{Actions: actions, Naming: cfg})
	require.Len(t, items, 1)
	for _, item := range items {
		assert.NotEqual(t, "Other->fake", item.Reference)
	}
}

func TestResolvePreservesDeclarationOrder(t *testing.T) {
	cat := testutil.FluxCatalog()
	require.NoError(t, cat.Alias(testutil.OtherControllerID, testutil.ContentControllerID))
	r := New(cat)

	items := r.Resolve(Input{
		Actions: ir.ActionSpec{
			{Controller: "Other", Actions: []string{"render", "fake"}},
			{Controller: "Content", Actions: []string{"fakeWithoutDescription", "render"}},
		},
		Naming: disabledLabels(),
	})

	refs := make([]string, len(items))
	for i, it := range items {
		refs[i] = it.Reference
	}
	assert.Equal(t, []string{"Other->render", "Other->fake", "Content->fakeWithoutDescription", "Content->render"}, refs)
}

func TestResolveNoDeduplication(t *testing.T) {
	r := New(testutil.FluxCatalog())
	items := r.Resolve(Input{
		Actions: ir.ActionSpec{{Controller: "Content", Actions: []string{"render", "render"}}},
		Naming:  disabledLabels(),
	})
	assert.Len(t, items, 2)
}

func TestResolveLegacyExtensionName(t *testing.T) {
	cfg := disabledLabels()
	cfg.ControllerExtensionName = "flux"
	r := New(testutil.FluxCatalog())

	items := r.Resolve(Input{
		Actions: ir.ActionSpec{{Controller: "Content", Actions: []string{"fake"}}},
		Naming:  cfg,
	})
	assert.Equal(t, []ir.ResolvedItem{{Label: "Fake Action", Reference: "Content->fake"}}, items)
}

func TestResolveDefaultControllerName(t *testing.T) {
	cfg := disabledLabels()
	cfg.DefaultControllerName = "Content"
	r := New(testutil.FluxCatalog())

	items := r.Resolve(Input{
		Actions: ir.ActionSpec{{Controller: "", Actions: []string{"render"}}},
		Naming:  cfg,
	})
	assert.Equal(t, []ir.ResolvedItem{{Label: "render->Content", Reference: "Content->render"}}, items)

	cfg.DefaultControllerName = ""
	items = r.Resolve(Input{
		Actions: ir.ActionSpec{{Controller: "", Actions: []string{"render"}}},
		Naming:  cfg,
	})
	assert.Empty(t, items)
}

func TestResolveEmptySpec(t *testing.T) {
	r := New(testutil.FluxCatalog())

	items := r.Resolve(Input{Naming: testutil.FluxNaming()})
	require.NotNil(t, items)
	assert.Empty(t, items)

	items = Resolve(ir.ActionSpec{}, nil, nil, testutil.FluxNaming(), testutil.FluxCatalog())
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestResolveIsIdempotent(t *testing.T) {
	r := New(testutil.FluxCatalog())
	in := Input{
		Actions: ir.ActionSpec{
			{Controller: "Content", Actions: []string{"render", "fake", "fakeWithRequiredArgument"}},
		},
		SubActions: ir.SubActionSpec{"Content": {"render": {"fake"}}},
		Naming:     disabledLabels(),
	}

	first := r.Resolve(in)
	second := r.Resolve(in)
	assert.Equal(t, first, second)
}

func TestResolveCountInvariant(t *testing.T) {
	r := New(testutil.FluxCatalog())
	in := Input{
		Actions: ir.ActionSpec{
			{Controller: "Content", Actions: []string{"render", "fake", "missing"}},
			{Controller: "Nope", Actions: []string{"render"}},
		},
		Exclusions: ir.ExclusionSpec{"Content": {"render"}},
		Naming:     disabledLabels(),
	}

	items := r.Resolve(in)
	// 4 declared - 1 excluded - 1 unknown action - 1 unknown controller
	assert.Len(t, items, 1)
	assert.LessOrEqual(t, len(items), in.Actions.Count())
}

func TestLabelFromLanguageFile(t *testing.T) {
	cfg := testutil.FluxNaming()
	cfg.PluginName = "Test"
	r := New(testutil.FluxCatalog())

	assert.Equal(t, lll+"test.content.fake", r.LabelFor(cfg, "Content", "fake"))
}

func TestLabelFromActionAnnotation(t *testing.T) {
	r := New(testutil.FluxCatalog())
	assert.Equal(t, "Fake Action", r.LabelFor(disabledLabels(), "Content", "fake"))
}

func TestLabelFallbackWithoutAnnotation(t *testing.T) {
	r := New(testutil.FluxCatalog())
	assert.Equal(t, "fakeWithoutDescription->Content",
		r.LabelFor(disabledLabels(), "Content", "fakeWithoutDescription"))
}

func TestLabelFallbackForMissingAction(t *testing.T) {
	r := New(testutil.FluxCatalog())
	assert.Equal(t, "fictionalaction->Content", r.LabelFor(disabledLabels(), "Content", "fictionalaction"))
}

func TestLabelWithoutRelativePathUsesAnnotation(t *testing.T) {
	cfg := testutil.FluxNaming()
	cfg.LocalLanguageFileRelativePath = ""
	r := New(testutil.FluxCatalog())

	assert.Equal(t, "Fake Action", r.LabelFor(cfg, "Content", "fake"))
}

func TestPrefixLabelForRequiredArguments(t *testing.T) {
	cfg := disabledLabels()
	r := New(testutil.FluxCatalog())

	label := r.LabelFor(cfg, "Content", "fakeWithRequiredArgument")
	prefixed := r.PrefixLabel(cfg, "Content", "fakeWithRequiredArgument", label)

	assert.Equal(t, "Fake With Argument", label)
	assert.NotEqual(t, label, prefixed)
	assert.Equal(t, "*Fake With Argument", prefixed)

	items := r.Resolve(Input{
		Actions: ir.ActionSpec{{Controller: "Content", Actions: []string{"fakeWithRequiredArgument"}}},
		Naming:  cfg,
	})
	require.Len(t, items, 1)
	assert.Equal(t, "*Fake With Argument", items[0].Label)
}

func TestPrefixLabelNotAppliedWithLanguageLabels(t *testing.T) {
	cfg := testutil.FluxNaming()
	r := New(testutil.FluxCatalog())

	label := r.LabelFor(cfg, "Content", "fakeWithRequiredArgument")
	assert.Equal(t, label, r.PrefixLabel(cfg, "Content", "fakeWithRequiredArgument", label))
}

func TestPrefixLabelNotAppliedWithoutRequiredArgument(t *testing.T) {
	cfg := disabledLabels()
	r := New(testutil.FluxCatalog())

	assert.Equal(t, "Fake Action", r.PrefixLabel(cfg, "Content", "fake", "Fake Action"))

	cfg.PrefixOnRequiredArguments = ""
	assert.Equal(t, "x", r.PrefixLabel(cfg, "Content", "fakeWithRequiredArgument", "x"))
}

func TestControllerID(t *testing.T) {
	r := New(testutil.FluxCatalog())

	tests := []struct {
		name      string
		extension string
		want      string
		ok        bool
	}{
		{"namespaced", "FluidTYPO3.Flux", testutil.ContentControllerID, true},
		{"legacy", "flux", testutil.LegacyContentControllerID, true},
		{"missing", "doesnotexist", "", false},
		{"missing vendor", "Acme.Shop", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := r.ControllerID(ir.NamingConfig{ControllerExtensionName: tt.extension}, "Content")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestControllerIDFallsBackToLegacy(t *testing.T) {
	cat := testutil.FluxCatalog()
	cat.Register(ir.ControllerDef{ID: "Tx_Shop_Controller_CartController", Actions: []ir.ActionDef{{Name: "show"}}})
	r := New(cat)

	id, ok := r.ControllerID(ir.NamingConfig{ControllerExtensionName: "Acme.Shop"}, "Cart")
	assert.True(t, ok)
	assert.Equal(t, "Tx_Shop_Controller_CartController", id)
}

func TestReference(t *testing.T) {
	assert.Equal(t, "Content->render", Reference("Content", "render", nil, ";"))
	assert.Equal(t, "Content->a;Content->b", Reference("Content", "a", []string{"b"}, ";"))
}

func TestResolveLogsSkips(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := New(testutil.FluxCatalog(), WithLogger(zap.New(core)))

	r.Resolve(Input{
		Actions: ir.ActionSpec{
			{Controller: "Content", Actions: []string{"render", "fake", "missing"}},
			{Controller: "Nope", Actions: []string{"render"}},
		},
		Exclusions: ir.ExclusionSpec{"Content": {"fake"}},
		Naming:     disabledLabels(),
	})

	assert.Equal(t, 1, logs.FilterMessage("skipping unknown action").Len())
	assert.Equal(t, 1, logs.FilterMessage("skipping excluded action").Len())
	assert.Equal(t, 1, logs.FilterMessage("skipping unresolvable controller").Len())
}

func TestWithNilLoggerKeepsNop(t *testing.T) {
	r := New(testutil.FluxCatalog(), WithLogger(nil))
	require.NotNil(t, r.logger)
}

func TestResolveConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := New(testutil.FluxCatalog())
	in := Input{
		Actions:    ir.ActionSpec{{Controller: "Content", Actions: []string{"render", "fake", "fakeWithRequiredArgument"}}},
		SubActions: ir.SubActionSpec{"Content": {"fake": {"render"}}},
		Naming:     disabledLabels(),
	}
	want := r.Resolve(in)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, r.Resolve(in))
		}()
	}
	wg.Wait()
}
