package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// BrandPackStatus is the lifecycle state of a brand pack.
type BrandPackStatus string

const (
	BrandPackStatusDraft    BrandPackStatus = "draft"
	BrandPackStatusActive   BrandPackStatus = "active"
	BrandPackStatusArchived BrandPackStatus = "archived"
)

// Valid reports whether s is a known status.
func (s BrandPackStatus) Valid() bool {
	switch s {
	case BrandPackStatusDraft, BrandPackStatusActive, BrandPackStatusArchived:
		return true
	}
	return false
}

// BrandPackSource records how a brand pack was produced.
type BrandPackSource string

const (
	BrandPackSourceManual BrandPackSource = "manual"
	BrandPackSourceWizard BrandPackSource = "wizard"
)

// Section names one of the closed set of brand pack sections.
type Section string

const (
	SectionCoreIdentity Section = "core_identity"
	SectionVoiceTone    Section = "voice_tone"
	SectionAudience     Section = "audience"
	SectionVisualAssets Section = "visual_assets"
)

// Sections lists every section in display order.
var Sections = []Section{
	SectionCoreIdentity,
	SectionVoiceTone,
	SectionAudience,
	SectionVisualAssets,
}

// ParseSection accepts section names with dashes or underscores.
func ParseSection(value string) (Section, error) {
	normalized := Section(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_"))
	for _, s := range Sections {
		if s == normalized {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown section %q", value)
}

// Title is the human label for the section.
func (s Section) Title() string {
	switch s {
	case SectionCoreIdentity:
		return "Core Identity"
	case SectionVoiceTone:
		return "Voice & Tone"
	case SectionAudience:
		return "Audience"
	case SectionVisualAssets:
		return "Visual Assets"
	default:
		return string(s)
	}
}

// PanelFlag is the loading flag that marks the section's preview panel ready.
func (s Section) PanelFlag() string {
	return "panel." + string(s)
}

// CoreIdentity describes what the brand stands for.
type CoreIdentity struct {
	Mission   string   `json:"mission" yaml:"mission"`
	Vision    string   `json:"vision" yaml:"vision"`
	Values    []string `json:"values" yaml:"values"`
	Tagline   string   `json:"tagline,omitempty" yaml:"tagline,omitempty"`
	Archetype string   `json:"archetype,omitempty" yaml:"archetype,omitempty"`
}

// Validate checks required fields.
func (c CoreIdentity) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(c.Mission) == "" {
		validation.AddMessage("mission", "mission is required")
	}
	if len(c.Values) == 0 {
		validation.AddMessage("values", "at least one value is required")
	}
	for i, v := range c.Values {
		if strings.TrimSpace(v) == "" {
			validation.AddMessage(fmt.Sprintf("values[%d]", i), "value must not be blank")
		}
	}
	return validation.Err()
}

// VoiceTone describes how the brand speaks.
type VoiceTone struct {
	Personality []string `json:"personality" yaml:"personality"`
	Tone        string   `json:"tone" yaml:"tone"`
	Do          []string `json:"do,omitempty" yaml:"do,omitempty"`
	Dont        []string `json:"dont,omitempty" yaml:"dont,omitempty"`
	SampleLine  string   `json:"sample_line,omitempty" yaml:"sample_line,omitempty"`
}

// Validate checks required fields.
func (v VoiceTone) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(v.Tone) == "" {
		validation.AddMessage("tone", "tone is required")
	}
	if len(v.Personality) == 0 {
		validation.AddMessage("personality", "at least one personality trait is required")
	}
	return validation.Err()
}

// Audience describes who the brand speaks to.
type Audience struct {
	Primary    string   `json:"primary" yaml:"primary"`
	Segments   []string `json:"segments,omitempty" yaml:"segments,omitempty"`
	PainPoints []string `json:"pain_points,omitempty" yaml:"pain_points,omitempty"`
	Goals      []string `json:"goals,omitempty" yaml:"goals,omitempty"`
}

// Validate checks required fields.
func (a Audience) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(a.Primary) == "" {
		validation.AddMessage("primary", "primary audience is required")
	}
	return validation.Err()
}

// ColorSwatch is a named palette entry.
type ColorSwatch struct {
	Name string `json:"name" yaml:"name"`
	Hex  string `json:"hex" yaml:"hex"`
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// VisualAssets describes the brand's look.
type VisualAssets struct {
	Palette       []ColorSwatch `json:"palette" yaml:"palette"`
	PrimaryFont   string        `json:"primary_font" yaml:"primary_font"`
	SecondaryFont string        `json:"secondary_font,omitempty" yaml:"secondary_font,omitempty"`
	LogoConcept   string        `json:"logo_concept,omitempty" yaml:"logo_concept,omitempty"`
	Imagery       string        `json:"imagery,omitempty" yaml:"imagery,omitempty"`
}

// Validate checks the palette and fonts.
func (v VisualAssets) Validate() error {
	validation := &ValidationErrors{}
	if len(v.Palette) == 0 {
		validation.AddMessage("palette", "at least one color is required")
	}
	for i, swatch := range v.Palette {
		if !hexColorPattern.MatchString(swatch.Hex) {
			validation.AddMessage(fmt.Sprintf("palette[%d].hex", i), fmt.Sprintf("invalid hex color %q", swatch.Hex))
		}
	}
	if strings.TrimSpace(v.PrimaryFont) == "" {
		validation.AddMessage("primary_font", "primary font is required")
	}
	return validation.Err()
}

// BrandPack is a complete brand definition.
type BrandPack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Industry    string          `json:"industry,omitempty"`
	Description string          `json:"description,omitempty"`
	Status      BrandPackStatus `json:"status"`
	Source      BrandPackSource `json:"source"`

	Core     CoreIdentity `json:"core_identity"`
	Voice    VoiceTone    `json:"voice_tone"`
	Audience Audience     `json:"audience"`
	Visual   VisualAssets `json:"visual_assets"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the pack and every section.
func (b *BrandPack) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(b.Name) == "" {
		validation.AddMessage("name", "name is required")
	}
	if b.Status != "" && !b.Status.Valid() {
		validation.AddMessage("status", fmt.Sprintf("unknown status %q", b.Status))
	}
	validation.Merge(string(SectionCoreIdentity), b.Core.Validate())
	validation.Merge(string(SectionVoiceTone), b.Voice.Validate())
	validation.Merge(string(SectionAudience), b.Audience.Validate())
	validation.Merge(string(SectionVisualAssets), b.Visual.Validate())
	return validation.Err()
}

// SectionFilled reports whether a section has its required content.
func (b *BrandPack) SectionFilled(section Section) bool {
	switch section {
	case SectionCoreIdentity:
		return b.Core.Validate() == nil
	case SectionVoiceTone:
		return b.Voice.Validate() == nil
	case SectionAudience:
		return b.Audience.Validate() == nil
	case SectionVisualAssets:
		return b.Visual.Validate() == nil
	}
	return false
}
