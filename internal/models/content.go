package models

import (
	"fmt"
	"strings"
	"time"
)

// Channel is a publishing destination for content.
type Channel string

const (
	ChannelBlog    Channel = "blog"
	ChannelEmail   Channel = "email"
	ChannelSocial  Channel = "social"
	ChannelAds     Channel = "ads"
	ChannelLanding Channel = "landing"
)

// ParseChannel validates a channel name.
func ParseChannel(value string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(value)))
	switch c {
	case ChannelBlog, ChannelEmail, ChannelSocial, ChannelAds, ChannelLanding:
		return c, nil
	}
	return "", fmt.Errorf("unknown channel %q", value)
}

// ContentItem is one piece of content in a pack.
type ContentItem struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ContentPack groups content produced for a brand.
type ContentPack struct {
	ID          string        `json:"id"`
	BrandPackID string        `json:"brand_pack_id"`
	Name        string        `json:"name"`
	Channel     Channel       `json:"channel"`
	Items       []ContentItem `json:"items,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Validate checks required fields.
func (c *ContentPack) Validate() error {
	validation := &ValidationErrors{}
	if strings.TrimSpace(c.BrandPackID) == "" {
		validation.AddMessage("brand_pack_id", "brand pack is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		validation.AddMessage("name", "name is required")
	}
	if _, err := ParseChannel(string(c.Channel)); err != nil {
		validation.AddMessage("channel", err.Error())
	}
	for i, item := range c.Items {
		if strings.TrimSpace(item.Title) == "" {
			validation.AddMessage(fmt.Sprintf("items[%d].title", i), "title is required")
		}
	}
	return validation.Err()
}
