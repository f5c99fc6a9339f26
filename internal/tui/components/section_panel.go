package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
)

// SectionPanel previews one section of a brand pack.
type SectionPanel struct {
	Section models.Section
	Pack    *models.BrandPack
	// Ready is false while the section is still loading.
	Ready bool
	// Spinner is the current loading frame shown while not Ready.
	Spinner string
}

// Render renders the panel at width.
func (p SectionPanel) Render(styleSet styles.Styles, width int) string {
	style := styleSet.Panel
	title := styleSet.Muted.Render(p.Section.Title())
	var body []string

	switch {
	case p.Ready && p.Pack != nil:
		style = styleSet.PanelReady
		title = styleSet.Accent.Bold(true).Render(p.Section.Title())
		body = SectionLines(styleSet, p.Section, p.Pack)
	case p.Ready:
		body = []string{styleSet.Muted.Render("Nothing drafted.")}
	default:
		spinner := p.Spinner
		if spinner == "" {
			spinner = "…"
		}
		body = []string{styleSet.Muted.Render(spinner + " Generating...")}
	}

	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	wrap := lipgloss.NewStyle().Width(inner)
	for i, line := range body {
		body[i] = wrap.Render(line)
	}

	content := title + "\n" + strings.Join(body, "\n")
	return style.Width(width-2).Padding(0, 1).Render(content)
}

// SectionLines lists the labelled fields of a section.
func SectionLines(styleSet styles.Styles, section models.Section, pack *models.BrandPack) []string {
	field := func(label, value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}
		return styleSet.Muted.Render(label+": ") + styleSet.Text.Render(value)
	}
	list := func(label string, values []string) string {
		return field(label, strings.Join(values, ", "))
	}

	var lines []string
	switch section {
	case models.SectionCoreIdentity:
		core := pack.Core
		lines = []string{
			field("Mission", core.Mission),
			field("Vision", core.Vision),
			list("Values", core.Values),
			field("Tagline", core.Tagline),
			field("Archetype", core.Archetype),
		}
	case models.SectionVoiceTone:
		voice := pack.Voice
		lines = []string{
			list("Personality", voice.Personality),
			field("Tone", voice.Tone),
			list("Do", voice.Do),
			list("Don't", voice.Dont),
			field("Sample", voice.SampleLine),
		}
	case models.SectionAudience:
		audience := pack.Audience
		lines = []string{
			field("Primary", audience.Primary),
			list("Segments", audience.Segments),
			list("Pain points", audience.PainPoints),
			list("Goals", audience.Goals),
		}
	case models.SectionVisualAssets:
		visual := pack.Visual
		lines = []string{
			styleSet.Muted.Render("Palette: ") + renderSwatches(visual.Palette),
			field("Fonts", joinNonEmpty(" / ", visual.PrimaryFont, visual.SecondaryFont)),
			field("Logo", visual.LogoConcept),
			field("Imagery", visual.Imagery),
		}
	}

	out := lines[:0]
	for _, line := range lines {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func renderSwatches(palette []models.ColorSwatch) string {
	parts := make([]string, 0, len(palette))
	for _, swatch := range palette {
		chip := lipgloss.NewStyle().Foreground(lipgloss.Color(swatch.Hex)).Render("██")
		parts = append(parts, fmt.Sprintf("%s %s %s", chip, swatch.Name, swatch.Hex))
	}
	return strings.Join(parts, "  ")
}

func joinNonEmpty(sep string, values ...string) string {
	var out []string
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			out = append(out, value)
		}
	}
	return strings.Join(out, sep)
}
