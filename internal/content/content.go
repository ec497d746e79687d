// internal/content/content.go
package content

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var raw []byte

type NavLink struct {
	Label  string `yaml:"label"`
	Anchor string `yaml:"anchor"`
}

type Site struct {
	Name  string    `yaml:"name"`
	Title string    `yaml:"title"`
	Nav   []NavLink `yaml:"nav"`
}

type Hero struct {
	Badge           string `yaml:"badge"`
	Headline        string `yaml:"headline"`
	Highlight       string `yaml:"highlight"`
	Lead            string `yaml:"lead"`
	PrimaryAction   string `yaml:"primary_action"`
	SecondaryAction string `yaml:"secondary_action"`
}

// Card is a titled blurb: feature, security claim or certification.
type Card struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Features struct {
	Heading    string `yaml:"heading"`
	Subheading string `yaml:"subheading"`
	Items      []Card `yaml:"items"`
}

type Security struct {
	Heading        string `yaml:"heading"`
	Subheading     string `yaml:"subheading"`
	Items          []Card `yaml:"items"`
	Certifications []Card `yaml:"certifications"`
}

// Testimonial is a seed review shipped with the page.
type Testimonial struct {
	Username string `yaml:"username"`
	Comment  string `yaml:"comment"`
	Rating   int    `yaml:"rating"`
	Date     string `yaml:"date"`
}

type CTA struct {
	Heading         string `yaml:"heading"`
	Lead            string `yaml:"lead"`
	PrimaryAction   string `yaml:"primary_action"`
	SecondaryAction string `yaml:"secondary_action"`
}

// Content is the static copy of the landing page.
type Content struct {
	Site         Site          `yaml:"site"`
	Hero         Hero          `yaml:"hero"`
	Features     Features      `yaml:"features"`
	Security     Security      `yaml:"security"`
	Testimonials []Testimonial `yaml:"testimonials"`
	CTA          CTA           `yaml:"cta"`
}

// Load decodes the embedded copy.
func Load() (Content, error) {
	return Parse(raw)
}

// Parse decodes copy from YAML and checks the sections the page cannot do without.
func Parse(data []byte) (Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Content{}, fmt.Errorf("failed to parse content: %w", err)
	}
	if err := validate(c); err != nil {
		return Content{}, err
	}
	return c, nil
}

// MustLoad is Load for package init and tests.
func MustLoad() Content {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func validate(c Content) error {
	if c.Site.Title == "" {
		return errors.New("content: site title is required")
	}
	if len(c.Features.Items) == 0 {
		return errors.New("content: at least one feature is required")
	}
	for i, t := range c.Testimonials {
		if t.Username == "" || t.Comment == "" {
			return fmt.Errorf("content: testimonial %d is incomplete", i)
		}
		if t.Rating < 1 || t.Rating > 5 {
			return fmt.Errorf("content: testimonial %d has rating %d", i, t.Rating)
		}
	}
	return nil
}
