package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-wikiform/internal/artifacts"
	"github.com/goliatone/go-wikiform/pkg/model"
	"github.com/goliatone/go-wikiform/pkg/orchestrator"
	"github.com/goliatone/go-wikiform/pkg/render"
	"github.com/goliatone/go-wikiform/pkg/testsupport"
	"github.com/goliatone/go-wikiform/pkg/wiki"
)

const systemWikitext = `== System parameters ==
{| class="wikitable"
|-
! Parameter ID !! Parameter name !! Value
|-
| 102 || Sleep mode || 0 – Disable
|-
| 102 || Sleep mode || 1 – Enable
|-
| 103 || Timeout || 360
|}`

const smsWikitext = `== SMS settings ==
{| class="wikitable"
|-
! SMS ID !! SMS name !! Value
|-
| 3000 || APN name || internet
|}`

func TestOrchestrator_GenerateEndToEnd(t *testing.T) {
	ctx := testsupport.Context()

	store, err := artifacts.New(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	fetcher := newStubFetcher()

	orch := orchestrator.New(
		orchestrator.WithFetcher(fetcher),
		orchestrator.WithArtifacts(store),
	)

	templates := []string{"FMB Family Parameter list", "FMB Family SMS Parameter list"}
	output, err := orch.Generate(ctx, orchestrator.Request{Templates: templates})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := `<div title="System parameters" bg="#202124">
  <div bg="#2b2d30">
    <input type="checkbox" parameter_id="102" parameter_name="Sleep mode"/>
    <input type="number" parameter_id="103" parameter_name="Timeout" value="360"/>
  </div>
</div>
<div title="SMS settings" bg="#202124">
  <div bg="#2b2d30">
    <input type="number" sms_id="3000" sms_name="APN name" value="internet"/>
  </div>
</div>
`
	if diff := testsupport.CompareGolden(want, string(output)); diff != "" {
		t.Fatalf("markup mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(templates, fetcher.calls); diff != "" {
		t.Fatalf("unexpected fetch order:\n%s", diff)
	}

	// Every intermediate artifact landed alongside the final markup.
	for _, template := range templates {
		if _, err := store.ReadRawDocument(template); err != nil {
			t.Fatalf("raw artifact for %q: %v", template, err)
		}
	}
	normalized, err := store.ReadNormalized()
	if err != nil {
		t.Fatalf("read normalized: %v", err)
	}
	rendererInput, err := store.ReadRendererInput()
	if err != nil {
		t.Fatalf("read renderer input: %v", err)
	}
	if diff := cmp.Diff(normalized, rendererInput); diff != "" {
		t.Fatalf("dual-name artifacts diverge:\n%s", diff)
	}
	if _, ok := normalized.Section("SMS settings"); !ok {
		t.Fatalf("normalized artifact missing merged section: %+v", normalized.Sections)
	}
}

func TestOrchestrator_GenerateFromDocuments(t *testing.T) {
	ctx := testsupport.Context()

	doc, err := wiki.NewDocument(wiki.SourceFromFile("saved.txt"), []byte(systemWikitext))
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	// No fetcher configured at all: supplied documents bypass that stage.
	orch := orchestrator.New()
	output, err := orch.Generate(ctx, orchestrator.Request{
		Documents: []wiki.Document{doc},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(output), `<input type="checkbox" parameter_id="102" parameter_name="Sleep mode"/>`) {
		t.Fatalf("unexpected markup:\n%s", output)
	}
}

func TestOrchestrator_FetchWritesRawArtifact(t *testing.T) {
	ctx := testsupport.Context()

	dir := t.TempDir()
	store, err := artifacts.New(dir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	orch := orchestrator.New(
		orchestrator.WithFetcher(newStubFetcher()),
		orchestrator.WithArtifacts(store),
	)

	parsed, err := orch.Fetch(ctx, "FMB Family Parameter list")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(parsed.Sections) != 1 || parsed.Sections[0].Title != "System parameters" {
		t.Fatalf("unexpected parsed document: %+v", parsed.Sections)
	}

	restored, err := store.ReadRawDocument("FMB Family Parameter list")
	if err != nil {
		t.Fatalf("read raw artifact: %v", err)
	}
	if diff := cmp.Diff(parsed, restored); diff != "" {
		t.Fatalf("raw artifact round trip (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(dir, "FMB_Family_Parameter_list.json")); err != nil {
		t.Fatalf("sanitized artifact name missing: %v", err)
	}
}

func TestOrchestrator_NormalizeMergesAndPersists(t *testing.T) {
	store, err := artifacts.New(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	orch := orchestrator.New(orchestrator.WithArtifacts(store))

	system := testsupport.MustParseWikitext(t, systemWikitext)
	sms := testsupport.MustParseWikitext(t, smsWikitext)

	merged, err := orch.Normalize(system, sms)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(merged.Sections) != 2 {
		t.Fatalf("expected both templates' sections, got %+v", merged.Sections)
	}
	if merged.Sections[0].Title != "System parameters" || merged.Sections[1].Title != "SMS settings" {
		t.Fatalf("section order lost: %+v", merged.Sections)
	}

	persisted, err := store.ReadNormalized()
	if err != nil {
		t.Fatalf("read normalized: %v", err)
	}
	if diff := cmp.Diff(merged, persisted); diff != "" {
		t.Fatalf("normalized artifact mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_ExportWritesOpenAPIArtifact(t *testing.T) {
	ctx := testsupport.Context()

	dir := t.TempDir()
	store, err := artifacts.New(dir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	orch := orchestrator.New(orchestrator.WithArtifacts(store))

	normalized, err := orch.Normalize(testsupport.MustParseWikitext(t, systemWikitext))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	payload, err := orch.Export(ctx, normalized)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(string(payload), `"openapi": "3.0.3"`) {
		t.Fatalf("payload missing version marker:\n%s", payload)
	}
	if _, err := os.Stat(filepath.Join(dir, artifacts.OpenAPIName)); err != nil {
		t.Fatalf("openapi artifact missing: %v", err)
	}
}

func TestOrchestrator_RequestValidation(t *testing.T) {
	ctx := testsupport.Context()

	t.Run("NoTemplatesOrDocuments", func(t *testing.T) {
		orch := orchestrator.New(orchestrator.WithFetcher(newStubFetcher()))
		_, err := orch.Generate(ctx, orchestrator.Request{})
		if err == nil || !strings.Contains(err.Error(), "templates or documents") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("NoFetcher", func(t *testing.T) {
		orch := orchestrator.New()
		_, err := orch.Generate(ctx, orchestrator.Request{Templates: []string{"FMB Family Parameter list"}})
		if err == nil || !strings.Contains(err.Error(), "no fetcher configured") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("FetchFailurePropagates", func(t *testing.T) {
		fetcher := newStubFetcher()
		fetcher.err = errors.New("boom")
		orch := orchestrator.New(orchestrator.WithFetcher(fetcher))
		_, err := orch.Generate(ctx, orchestrator.Request{Templates: []string{"FMB Family Parameter list"}})
		if err == nil || !strings.Contains(err.Error(), `expand template "FMB Family Parameter list"`) {
			t.Fatalf("unexpected error: %v", err)
		}
		if !errors.Is(err, fetcher.err) {
			t.Fatalf("cause not wrapped: %v", err)
		}
	})

	t.Run("UnknownRenderer", func(t *testing.T) {
		orch := orchestrator.New()
		_, err := orch.Render(ctx, normalizedFixture(t), orchestrator.Request{Renderer: "bogus"})
		if err == nil || !strings.Contains(err.Error(), `renderer "bogus"`) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		orch := orchestrator.New(orchestrator.WithFetcher(newStubFetcher()))
		_, err := orch.Generate(cancelled, orchestrator.Request{Templates: []string{"FMB Family Parameter list"}})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context error, got %v", err)
		}
	})
}

func TestOrchestrator_DefaultRendererFallsBackToRegistry(t *testing.T) {
	ctx := testsupport.Context()

	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{name: "stub"})

	// The built-in default name is absent from this registry; the registry's
	// own default takes over.
	orch := orchestrator.New(orchestrator.WithRegistry(registry))

	output, err := orch.Render(ctx, normalizedFixture(t), orchestrator.Request{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(output) != "stub:System parameters" {
		t.Fatalf("unexpected output: %s", output)
	}
}

func TestOrchestrator_RenderSectionFilter(t *testing.T) {
	ctx := testsupport.Context()

	orch := orchestrator.New()
	merged, err := orch.Normalize(
		testsupport.MustParseWikitext(t, systemWikitext),
		testsupport.MustParseWikitext(t, smsWikitext),
	)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	output, err := orch.Render(ctx, merged, orchestrator.Request{
		RenderOptions: render.RenderOptions{
			Sections: render.SectionFilter{Titles: []string{"SMS settings"}},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(output), "System parameters") {
		t.Fatalf("filtered section still rendered:\n%s", output)
	}
	if !strings.Contains(string(output), `sms_id="3000"`) {
		t.Fatalf("kept section missing:\n%s", output)
	}

	_, err = orch.Render(ctx, merged, orchestrator.Request{
		RenderOptions: render.RenderOptions{
			Sections: render.SectionFilter{Titles: []string{"Bluetooth parameters"}},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "no sections match") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func normalizedFixture(t *testing.T) model.Document {
	t.Helper()

	orch := orchestrator.New()
	doc, err := orch.Normalize(testsupport.MustParseWikitext(t, systemWikitext))
	if err != nil {
		t.Fatalf("normalize fixture: %v", err)
	}
	return doc
}

type stubFetcher struct {
	endpoint string
	pages    map[string]string
	calls    []string
	err      error
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		endpoint: "https://wiki.example.com/api.php",
		pages: map[string]string{
			"FMB Family Parameter list":     systemWikitext,
			"FMB Family SMS Parameter list": smsWikitext,
		},
	}
}

func (s *stubFetcher) ExpandTemplate(_ context.Context, template string) (wiki.Document, error) {
	s.calls = append(s.calls, template)
	if s.err != nil {
		return wiki.Document{}, s.err
	}
	raw, ok := s.pages[template]
	if !ok {
		return wiki.Document{}, fmt.Errorf("no such template %q", template)
	}
	return wiki.NewDocument(wiki.SourceFromTemplate(s.endpoint, template), []byte(raw))
}

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string {
	return s.name
}

func (s stubRenderer) ContentType() string {
	return "text/plain"
}

func (s stubRenderer) Render(_ context.Context, doc model.Document, _ render.RenderOptions) ([]byte, error) {
	if len(doc.Sections) == 0 {
		return nil, errors.New("stub: empty document")
	}
	return []byte(s.name + ":" + doc.Sections[0].Title), nil
}
