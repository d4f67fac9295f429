package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, root, category, name, content string) {
	t.Helper()
	dir := filepath.Join(root, category)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newTestLoader() *Loader {
	return NewLoader(zerolog.Nop())
}

func TestLoadAll_MissingRootYieldsEmptyRegistry(t *testing.T) {
	registry, err := newTestLoader().LoadAll(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Empty(t, registry)
}

func TestLoadAll_ParsesManifest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "payment", "payment_metrics.yaml", `
metrics:
  PAYMENT_NSR:
    events:
      - event: payment_dom_loaded
      - event: revenue_amount
  PAYMENT_DB_NSR:
    events:
      - event: payment_dom_loaded
        filters:
          - type: event
            key: flow_type
            op: is
            values: [DB]
      - event: revenue_amount
`)

	registry, err := newTestLoader().LoadAll(root)
	require.NoError(t, err)
	require.Len(t, registry["payment"], 2)

	metric := registry["payment"]["PAYMENT_DB_NSR"]
	require.Equal(t, "PAYMENT_DB_NSR", metric.Name)
	require.Equal(t, "payment", metric.Category)
	require.Len(t, metric.Steps, 2)
	require.Len(t, metric.Steps[0].Filters, 1)
	require.Equal(t, "flow_type", metric.Steps[0].Filters[0].Key)
	require.False(t, metric.HiddenFirstStep)
}

func TestLoadAll_SkipsMalformedEntriesKeepsRest(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "extras", "extras_metrics.yaml", `
metrics:
  SINGLE_STEP:
    events:
      - event: extras_dom_loaded
  GOOD_METRIC:
    events:
      - event: extras_dom_loaded
      - event: revenue_amount
`)

	registry, err := newTestLoader().LoadAll(root)
	require.NoError(t, err)
	require.Len(t, registry["extras"], 1)
	require.Contains(t, registry["extras"], "GOOD_METRIC")
}

func TestLoadAll_SkipsUnparseableFile(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "extras", "broken_metrics.yaml", "metrics: [not: a map")
	writeManifest(t, root, "extras", "good_metrics.yaml", `
metrics:
  EXTRAS_NSR:
    events:
      - event: extras_dom_loaded
      - event: passengers_dom_loaded
`)

	registry, err := newTestLoader().LoadAll(root)
	require.NoError(t, err)
	require.Len(t, registry["extras"], 1)
}

func TestLoadAll_IgnoresNonManifestFiles(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "seats", "README.md", "not yaml")
	writeManifest(t, root, "seats", "seats_metrics.yaml", `
metrics:
  SEATS_NSR:
    events:
      - event: seatmap_dom_loaded
      - event: extras_dom_loaded
`)

	registry, err := newTestLoader().LoadAll(root)
	require.NoError(t, err)
	require.Len(t, registry["seats"], 1)
}

func TestLoadAll_PrependsGhostAnchor(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "extras", "extras_metrics.yaml", `
metrics:
  FLEXI_CR:
    events:
      - event: extra_selected
        filters:
          - type: event
            key: type
            op: is
            values: [flexiFee]
      - event: revenue_amount
`)

	registry, err := newTestLoader().LoadAll(root)
	require.NoError(t, err)

	metric := registry["extras"]["FLEXI_CR"]
	require.True(t, metric.HiddenFirstStep)
	require.Len(t, metric.Steps, 3)
	require.Equal(t, "extras_dom_loaded", metric.Steps[0].Event)
	require.Empty(t, metric.Steps[0].Filters)
	require.Equal(t, "extra_selected", metric.Steps[1].Event)
	require.Equal(t, "extra_selected", metric.FirstEvent())
	require.Equal(t, "revenue_amount", metric.FinalEvent())
}

func TestFlatten_LastWriteWinsByCategoryOrder(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "alpha", "alpha_metrics.yaml", `
metrics:
  SHARED:
    events:
      - event: first_a
      - event: last_a
`)
	writeManifest(t, root, "beta", "beta_metrics.yaml", `
metrics:
  SHARED:
    events:
      - event: first_b
      - event: last_b
`)

	registry, err := newTestLoader().LoadAll(root)
	require.NoError(t, err)

	flat := Flatten(registry)
	require.Len(t, flat, 1)
	require.Equal(t, "beta", flat["SHARED"].Category)
}

func TestInfo_SortedAndDescribed(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "payment", "payment_metrics.yaml", `
metrics:
  PAYMENT_NSR:
    events:
      - event: payment_dom_loaded
      - event: revenue_amount
  PAYMENT_DB_NSR:
    events:
      - event: payment_dom_loaded
        filters:
          - type: event
            key: flow_type
            op: is
            values: [DB]
      - event: revenue_amount
`)

	registry, err := newTestLoader().LoadAll(root)
	require.NoError(t, err)

	infos := Info(registry)
	require.Len(t, infos, 2)
	require.Equal(t, "PAYMENT_DB_NSR", infos[0].Name)
	require.Equal(t, "flow_type is", infos[0].Filters)
	require.Equal(t, "Ninguno", infos[1].Filters)
}
