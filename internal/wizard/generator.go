// Package wizard runs the brand generation chat: it plays a reveal script,
// drafts the brand pack the preview panels show, and saves it on request.
package wizard

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/opencode-ai/brandkit/internal/models"
)

// Brief is what the user asked the assistant for.
type Brief struct {
	Brand       string
	Industry    string
	Description string
}

// Validate checks the brief has a brand name.
func (b Brief) Validate() error {
	validation := &models.ValidationErrors{}
	if strings.TrimSpace(b.Brand) == "" {
		validation.AddMessage("brand", "brand name is required")
	}
	return validation.Err()
}

type archetype struct {
	name        string
	vision      string
	values      []string
	personality []string
	tone        string
	imagery     string
}

var archetypes = []archetype{
	{
		name:        "Sage",
		vision:      "a world where every decision in %s is an informed one",
		values:      []string{"clarity", "expertise", "honesty"},
		personality: []string{"knowledgeable", "calm", "precise"},
		tone:        "measured and insightful",
		imagery:     "clean diagrams, natural light, uncluttered workspaces",
	},
	{
		name:        "Creator",
		vision:      "%s reimagined by people who love to make things",
		values:      []string{"originality", "craft", "curiosity"},
		personality: []string{"imaginative", "expressive", "playful"},
		tone:        "inventive and warm",
		imagery:     "hands at work, bold textures, studio settings",
	},
	{
		name:        "Caregiver",
		vision:      "%s that treats every customer like family",
		values:      []string{"empathy", "reliability", "generosity"},
		personality: []string{"supportive", "patient", "reassuring"},
		tone:        "gentle and encouraging",
		imagery:     "candid portraits, soft color, everyday moments",
	},
	{
		name:        "Hero",
		vision:      "raising the bar for what %s can achieve",
		values:      []string{"courage", "discipline", "excellence"},
		personality: []string{"bold", "driven", "direct"},
		tone:        "confident and energizing",
		imagery:     "dynamic motion, high contrast, determined faces",
	},
	{
		name:        "Explorer",
		vision:      "opening new frontiers in %s",
		values:      []string{"freedom", "discovery", "authenticity"},
		personality: []string{"adventurous", "curious", "independent"},
		tone:        "spirited and open",
		imagery:     "wide landscapes, journeys, golden hour",
	},
	{
		name:        "Jester",
		vision:      "making %s the most enjoyable part of someone's day",
		values:      []string{"joy", "wit", "inclusiveness"},
		personality: []string{"cheeky", "lighthearted", "friendly"},
		tone:        "witty and upbeat",
		imagery:     "bright illustration, unexpected angles, smiles",
	},
}

type palette struct {
	swatches  []models.ColorSwatch
	primary   string
	secondary string
}

var palettes = []palette{
	{
		swatches: []models.ColorSwatch{
			{Name: "Harbor", Hex: "#1F4E79"},
			{Name: "Mist", Hex: "#E8EEF4"},
			{Name: "Signal", Hex: "#F2A541"},
		},
		primary:   "Inter",
		secondary: "Source Serif",
	},
	{
		swatches: []models.ColorSwatch{
			{Name: "Forest", Hex: "#2E5E4E"},
			{Name: "Linen", Hex: "#F5F0E6"},
			{Name: "Clay", Hex: "#C46A4A"},
		},
		primary:   "Work Sans",
		secondary: "Lora",
	},
	{
		swatches: []models.ColorSwatch{
			{Name: "Ink", Hex: "#1B1B2F"},
			{Name: "Electric", Hex: "#5B5BF0"},
			{Name: "Volt", Hex: "#C8F169"},
		},
		primary:   "Space Grotesk",
		secondary: "IBM Plex Mono",
	},
	{
		swatches: []models.ColorSwatch{
			{Name: "Blush", Hex: "#F4C7C3"},
			{Name: "Cocoa", Hex: "#5A3E36"},
			{Name: "Cream", Hex: "#FFF8EE"},
		},
		primary:   "DM Sans",
		secondary: "Playfair Display",
	},
	{
		swatches: []models.ColorSwatch{
			{Name: "Charcoal", Hex: "#2B2B2B"},
			{Name: "Paper", Hex: "#FAFAFA"},
			{Name: "Crimson", Hex: "#D7263D"},
		},
		primary:   "Helvetica Neue",
		secondary: "Georgia",
	},
}

// Generator drafts brand packs from a brief. The same brief and expert
// settings always produce the same draft.
type Generator struct {
	expert models.ExpertConfig
}

// NewGenerator creates a Generator.
func NewGenerator(expert models.ExpertConfig) *Generator {
	return &Generator{expert: expert}
}

// Expert returns the assistant settings.
func (g *Generator) Expert() models.ExpertConfig {
	return g.expert
}

// Draft synthesizes a brand pack for brief.
func (g *Generator) Draft(brief Brief) (*models.BrandPack, error) {
	if err := brief.Validate(); err != nil {
		return nil, err
	}

	brand := strings.TrimSpace(brief.Brand)
	industry := strings.TrimSpace(brief.Industry)
	market := industry
	if market == "" {
		market = "its market"
	}

	seed := hashBrief(brand, industry)
	arch := archetypes[pick(seed, len(archetypes), g.expert.Creativity)]
	pal := palettes[pick(seed>>16, len(palettes), g.expert.Creativity)]

	do := []string{
		fmt.Sprintf("Sound %s", arch.personality[0]),
		"Lead with what the customer gains",
	}
	do = append(do, g.expert.Guidelines...)
	dont := []string{"Use jargon without explaining it"}
	for _, word := range g.expert.Forbidden {
		dont = append(dont, fmt.Sprintf("Say %q", word))
	}

	pack := &models.BrandPack{
		Name:        brand,
		Industry:    industry,
		Description: strings.TrimSpace(brief.Description),
		Status:      models.BrandPackStatusDraft,
		Source:      models.BrandPackSourceWizard,
		Core: models.CoreIdentity{
			Mission:   fmt.Sprintf("%s helps people in %s get more done with less friction.", brand, market),
			Vision:    upperFirst(fmt.Sprintf(arch.vision, market)) + ".",
			Values:    append([]string(nil), arch.values...),
			Tagline:   tagline(brand, arch),
			Archetype: arch.name,
		},
		Voice: models.VoiceTone{
			Personality: append([]string(nil), arch.personality...),
			Tone:        arch.tone,
			Do:          do,
			Dont:        dont,
			SampleLine:  fmt.Sprintf("At %s, we keep it %s.", brand, arch.values[0]),
		},
		Audience: models.Audience{
			Primary:    fmt.Sprintf("Decision makers in %s", market),
			Segments:   []string{"First-time buyers", "Growing teams", "Loyal repeat customers"},
			PainPoints: []string{"Too many options", "Unclear value", "Slow service"},
			Goals:      []string{"Save time", "Feel confident in the choice"},
		},
		Visual: models.VisualAssets{
			Palette:       append([]models.ColorSwatch(nil), pal.swatches...),
			PrimaryFont:   pal.primary,
			SecondaryFont: pal.secondary,
			LogoConcept:   fmt.Sprintf("Wordmark of %q with a %s accent", brand, strings.ToLower(pal.swatches[len(pal.swatches)-1].Name)),
			Imagery:       arch.imagery,
		},
	}
	if err := pack.Validate(); err != nil {
		return nil, fmt.Errorf("generated draft is invalid: %w", err)
	}
	return pack, nil
}

func hashBrief(brand, industry string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(brand)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.ToLower(industry)))
	return h.Sum64()
}

// pick selects from the first ceil(n*creativity) options; zero creativity
// always yields the first.
func pick(seed uint64, n int, creativity float64) int {
	width := int(math.Ceil(float64(n) * creativity))
	if width < 1 {
		width = 1
	}
	if width > n {
		width = n
	}
	return int(seed % uint64(width))
}

func tagline(brand string, arch archetype) string {
	return fmt.Sprintf("%s. %s by design.", brand, upperFirst(arch.values[0]))
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
