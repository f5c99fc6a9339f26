package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/opencode-ai/brandkit/internal/models"
)

const markdownWrap = 100

// brandMarkdown renders the requested sections of a pack as markdown. No
// sections means all of them.
func brandMarkdown(pack *models.BrandPack, sections []models.Section) string {
	if len(sections) == 0 {
		sections = models.Sections
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", pack.Name)
	if pack.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", pack.Description)
	}
	meta := []string{fmt.Sprintf("**Status:** %s", pack.Status), fmt.Sprintf("**Source:** %s", pack.Source)}
	if pack.Industry != "" {
		meta = append(meta, fmt.Sprintf("**Industry:** %s", pack.Industry))
	}
	b.WriteString(strings.Join(meta, " · ") + "\n")

	for _, section := range sections {
		fmt.Fprintf(&b, "\n## %s\n\n", section.Title())
		if !pack.SectionFilled(section) {
			b.WriteString("_Not filled in yet._\n")
			continue
		}
		switch section {
		case models.SectionCoreIdentity:
			core := pack.Core
			mdField(&b, "Mission", core.Mission)
			mdField(&b, "Vision", core.Vision)
			mdField(&b, "Tagline", core.Tagline)
			mdField(&b, "Archetype", core.Archetype)
			mdList(&b, "Values", core.Values)
		case models.SectionVoiceTone:
			voice := pack.Voice
			mdField(&b, "Tone", voice.Tone)
			mdField(&b, "Personality", strings.Join(voice.Personality, ", "))
			mdList(&b, "Do", voice.Do)
			mdList(&b, "Don't", voice.Dont)
			if voice.SampleLine != "" {
				fmt.Fprintf(&b, "\n> %s\n", voice.SampleLine)
			}
		case models.SectionAudience:
			audience := pack.Audience
			mdField(&b, "Primary", audience.Primary)
			mdList(&b, "Segments", audience.Segments)
			mdList(&b, "Pain points", audience.PainPoints)
			mdList(&b, "Goals", audience.Goals)
		case models.SectionVisualAssets:
			visual := pack.Visual
			b.WriteString("| Color | Hex |\n|---|---|\n")
			for _, swatch := range visual.Palette {
				fmt.Fprintf(&b, "| %s | `%s` |\n", swatch.Name, swatch.Hex)
			}
			b.WriteString("\n")
			mdField(&b, "Primary font", visual.PrimaryFont)
			mdField(&b, "Secondary font", visual.SecondaryFont)
			mdField(&b, "Logo", visual.LogoConcept)
			mdField(&b, "Imagery", visual.Imagery)
		}
	}
	return b.String()
}

func mdField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n\n", label, value)
}

func mdList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "**%s**\n\n", label)
	for _, value := range values {
		fmt.Fprintf(b, "- %s\n", value)
	}
	b.WriteString("\n")
}

// renderMarkdown styles markdown for the terminal, or returns it unchanged
// when raw is set.
func renderMarkdown(markdown string, raw bool) (string, error) {
	if raw {
		return markdown, nil
	}

	style := glamour.WithStandardStyle("notty")
	if colorEnabled() {
		style = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWrap))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
