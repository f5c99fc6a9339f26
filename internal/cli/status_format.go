package cli

import (
	"fmt"
	"strings"

	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/reveal"
)

func formatBrandStatus(status models.BrandPackStatus) string {
	label, color := statusLabelForBrand(status)
	return colorize(formatStatusLabel(label, string(status)), color)
}

func formatRunStatus(status reveal.Status) string {
	label, color := statusLabelForRun(status)
	return colorize(formatStatusLabel(label, string(status)), color)
}

func statusLabelForBrand(status models.BrandPackStatus) (string, string) {
	switch status {
	case models.BrandPackStatusActive:
		return "OK", colorGreen
	case models.BrandPackStatusDraft:
		return "DRAFT", colorCyan
	case models.BrandPackStatusArchived:
		return "ARCH", colorMagenta
	default:
		return "WARN", colorYellow
	}
}

func statusLabelForRun(status reveal.Status) (string, string) {
	switch status {
	case reveal.StatusCompleted:
		return "OK", colorGreen
	case reveal.StatusRunning:
		return "BUSY", colorCyan
	case reveal.StatusCancelled:
		return "STOP", colorYellow
	case reveal.StatusIdle:
		return "IDLE", colorMagenta
	default:
		return "ERR", colorRed
	}
}

func formatStatusLabel(label, status string) string {
	normalized := strings.TrimSpace(status)
	if normalized != "" {
		normalized = strings.ReplaceAll(normalized, "_", " ")
	}
	if normalized == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, normalized)
}

// sectionChecklist summarizes which sections of a pack are filled, e.g.
// "core ✓ voice ✓ audience ✗ visual ✓".
func sectionChecklist(pack *models.BrandPack) string {
	short := map[models.Section]string{
		models.SectionCoreIdentity: "core",
		models.SectionVoiceTone:    "voice",
		models.SectionAudience:     "audience",
		models.SectionVisualAssets: "visual",
	}
	parts := make([]string, 0, len(models.Sections))
	for _, section := range models.Sections {
		mark := "✗"
		if pack.SectionFilled(section) {
			mark = "✓"
		}
		parts = append(parts, short[section]+" "+mark)
	}
	return strings.Join(parts, " ")
}
