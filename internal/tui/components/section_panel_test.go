package components

import (
	"strings"
	"testing"

	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/reveal"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
)

func samplePack() *models.BrandPack {
	return &models.BrandPack{
		Name: "Northwind",
		Core: models.CoreIdentity{
			Mission:   "Ship faster",
			Values:    []string{"clarity", "speed"},
			Archetype: "Sage",
		},
		Voice:    models.VoiceTone{Personality: []string{"calm"}, Tone: "confident"},
		Audience: models.Audience{Primary: "Ops leads"},
		Visual: models.VisualAssets{
			Palette:     []models.ColorSwatch{{Name: "Harbor", Hex: "#1F4E79"}},
			PrimaryFont: "Inter",
		},
	}
}

func TestSectionPanelLoading(t *testing.T) {
	panel := SectionPanel{Section: models.SectionVoiceTone, Pack: samplePack(), Spinner: "*"}
	out := panel.Render(styles.DefaultStyles(), 60)

	if !strings.Contains(out, "Voice & Tone") {
		t.Fatalf("expected title, got: %s", out)
	}
	if !strings.Contains(out, "Generating") {
		t.Fatalf("expected loading text, got: %s", out)
	}
	if strings.Contains(out, "confident") {
		t.Fatalf("section content shown before ready: %s", out)
	}
}

func TestSectionPanelReady(t *testing.T) {
	styleSet := styles.DefaultStyles()
	tests := []struct {
		section models.Section
		want    []string
	}{
		{models.SectionCoreIdentity, []string{"Mission", "Ship faster", "clarity, speed", "Sage"}},
		{models.SectionVoiceTone, []string{"Tone", "confident"}},
		{models.SectionAudience, []string{"Primary", "Ops leads"}},
		{models.SectionVisualAssets, []string{"Harbor", "#1F4E79", "Inter"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.section), func(t *testing.T) {
			out := SectionPanel{Section: tt.section, Pack: samplePack(), Ready: true}.Render(styleSet, 80)
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in output, got: %s", want, out)
				}
			}
		})
	}
}

func TestSectionLinesSkipsEmptyFields(t *testing.T) {
	lines := SectionLines(styles.DefaultStyles(), models.SectionCoreIdentity, samplePack())
	for _, line := range lines {
		if strings.Contains(line, "Vision") || strings.Contains(line, "Tagline") {
			t.Fatalf("expected empty fields to be skipped, got %q", line)
		}
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}

func TestWizardQuickActions(t *testing.T) {
	styleSet := styles.DefaultStyles()

	running := RenderQuickActionBar(styleSet, WizardQuickActions(reveal.StatusRunning, false))
	if strings.Contains(running, "Save") || !strings.Contains(running, "Stop") {
		t.Fatalf("unexpected running actions: %s", running)
	}

	done := RenderQuickActionBar(styleSet, WizardQuickActions(reveal.StatusCompleted, false))
	if !strings.Contains(done, "Save") || !strings.Contains(done, "Restart") {
		t.Fatalf("unexpected completed actions: %s", done)
	}

	saved := RenderQuickActionBar(styleSet, WizardQuickActions(reveal.StatusCompleted, true))
	if strings.Contains(saved, "Save") {
		t.Fatalf("save offered after saving: %s", saved)
	}
}

func TestRenderRunStatusBadge(t *testing.T) {
	styleSet := styles.DefaultStyles()
	cases := map[reveal.Status]string{
		reveal.StatusIdle:      "Idle",
		reveal.StatusRunning:   "Generating",
		reveal.StatusCompleted: "Ready",
		reveal.StatusCancelled: "Cancelled",
		reveal.Status("odd"):   "Odd",
	}
	for status, want := range cases {
		if got := RenderRunStatusBadge(styleSet, status); !strings.Contains(got, want) {
			t.Errorf("badge for %s = %q, want %q", status, got, want)
		}
	}
}
