package menu

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Main is the name of the top-level menu
const Main = "main"

// Period is a part of the day with its own greeting and banner image
type Period struct {
	Name     string
	Greeting string
	Emoji    string
}

var (
	Morning   = Period{Name: "Morning", Greeting: "🌅 Good Morning", Emoji: "🌅"}
	Afternoon = Period{Name: "Afternoon", Greeting: "☀️ Good Afternoon", Emoji: "☀️"}
	Evening   = Period{Name: "Evening", Greeting: "🌙 Good Evening", Emoji: "🌙"}
)

// PeriodAt returns the period containing t in t's location
func PeriodAt(t time.Time) Period {
	switch h := t.Hour(); {
	case h >= 6 && h < 12:
		return Morning
	case h >= 12 && h < 18:
		return Afternoon
	default:
		return Evening
	}
}

// aliases maps command names to menu names
var aliases = map[string]string{
	"menu":         Main,
	"help":         Main,
	"godmenu":      "god",
	"generalmenu":  "general",
	"aimenu":       "ai",
	"groupmenu":    "group",
	"downloadmenu": "download",
	"funmenu":      "fun",
	"toolsmenu":    "tools",
	"settingsmenu": "settings",
}

// Lookup resolves a command to the menu it shows
func Lookup(command string) (string, bool) {
	name, ok := aliases[command]
	return name, ok
}

// Data is the values a menu is rendered with
type Data struct {
	Prefix    string
	BotName   string
	Developer string
	Mode      string
	Period    Period
}

type item struct {
	Usage string   `yaml:"usage"`
	Notes []string `yaml:"notes"`
}

type section struct {
	Title string `yaml:"title"`
	Items []item `yaml:"items"`
}

type document struct {
	Main     string             `yaml:"main"`
	Section  string             `yaml:"section"`
	Sections map[string]section `yaml:"sections"`
}

// Catalog renders menus from a YAML document
type Catalog struct {
	main     *template.Template
	section  *template.Template
	sections map[string]section
}

// NewCatalog parses the built-in catalog
func NewCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog parses a catalog document
func ParseCatalog(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse menu catalog: %w", err)
	}

	mainTmpl, err := template.New(Main).Parse(doc.Main)
	if err != nil {
		return nil, fmt.Errorf("failed to parse main menu: %w", err)
	}
	sectionTmpl, err := template.New("section").Parse(doc.Section)
	if err != nil {
		return nil, fmt.Errorf("failed to parse section template: %w", err)
	}

	return &Catalog{main: mainTmpl, section: sectionTmpl, sections: doc.Sections}, nil
}

// Has reports whether the catalog can render name
func (c *Catalog) Has(name string) bool {
	if name == Main {
		return true
	}
	_, ok := c.sections[name]
	return ok
}

// Render produces the text of menu name
func (c *Catalog) Render(name string, data Data) (string, error) {
	if data.Mode == "" {
		data.Mode = "Public"
	}
	view := struct {
		Data
		Greeting string
		Emoji    string
		Period   string
	}{Data: data, Greeting: data.Period.Greeting, Emoji: data.Period.Emoji, Period: data.Period.Name}

	if name == Main {
		return execute(c.main, view)
	}

	sec, ok := c.sections[name]
	if !ok {
		return "", fmt.Errorf("unknown menu %q", name)
	}

	// Notes may reference the prefix, e.g. "Example: {{.Prefix}}rps rock".
	items := make([]item, 0, len(sec.Items))
	for _, it := range sec.Items {
		notes := make([]string, 0, len(it.Notes))
		for _, n := range it.Notes {
			out, err := expand(n, view)
			if err != nil {
				return "", err
			}
			notes = append(notes, out)
		}
		items = append(items, item{Usage: it.Usage, Notes: notes})
	}

	return execute(c.section, struct {
		Title     string
		Prefix    string
		Developer string
		Items     []item
	}{Title: sec.Title, Prefix: data.Prefix, Developer: data.Developer, Items: items})
}

func expand(text string, data any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tmpl, err := template.New("note").Parse(text)
	if err != nil {
		return "", err
	}
	return execute(tmpl, data)
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render menu: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
