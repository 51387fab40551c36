// Package directory holds the practice's routing data: which task list each
// tier lands in, who gets assigned and mentioned, and where notifications go.
package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"practice-automation/internal/leads"
)

var (
	ErrNoFile = errors.New("directory: file path is required")
	ErrEmpty  = errors.New("directory: no tier destinations configured")
)

// Directory is the decoded directory file.
//
//	tiers:
//	  4: "901100000001"
//	  3: "901100000002"
//	team:
//	  assignees: ["81234567"]
//	  mentions: ["U0123ABCD"]
//	notifications:
//	  channel: "C0123FRONT"
type Directory struct {
	Tiers         map[int]string `yaml:"tiers"`
	Team          Team           `yaml:"team"`
	Notifications Notifications  `yaml:"notifications"`
}

type Team struct {
	Assignees []string `yaml:"assignees"`
	Mentions  []string `yaml:"mentions"`
}

type Notifications struct {
	Channel string `yaml:"channel"`
}

// Load reads and validates a directory file.
func Load(path string) (*Directory, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrNoFile
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("directory: read %s: %w", path, err)
	}
	return FromYAML(b)
}

// FromYAML decodes and validates directory YAML.
func FromYAML(b []byte) (*Directory, error) {
	var d Directory
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("directory: parse: %w", err)
	}
	d.normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Directory) normalize() {
	for k, v := range d.Tiers {
		d.Tiers[k] = strings.TrimSpace(v)
	}
	d.Team.Assignees = compact(d.Team.Assignees)
	d.Team.Mentions = compact(d.Team.Mentions)
	d.Notifications.Channel = strings.TrimSpace(d.Notifications.Channel)
}

// Validate requires at least one destination and only known tiers.
// Empty team lists and an empty channel are allowed.
func (d *Directory) Validate() error {
	if len(d.Tiers) == 0 {
		return ErrEmpty
	}
	var bad []int
	for k := range d.Tiers {
		if !leads.Tier(k).Valid() {
			bad = append(bad, k)
		}
	}
	if len(bad) > 0 {
		slices.Sort(bad)
		names := make([]string, len(bad))
		for i, k := range bad {
			names[i] = strconv.Itoa(k)
		}
		return fmt.Errorf("directory: unknown tiers %s", strings.Join(names, ", "))
	}
	return nil
}

// DestinationForTier returns the list id for tier, or "" when none is configured.
func (d *Directory) DestinationForTier(ctx context.Context, tier leads.Tier) (string, error) {
	return d.Tiers[int(tier)], nil
}

func (d *Directory) Assignees(ctx context.Context) ([]string, error) {
	return append([]string(nil), d.Team.Assignees...), nil
}

func (d *Directory) Mentions(ctx context.Context) ([]string, error) {
	return append([]string(nil), d.Team.Mentions...), nil
}

func (d *Directory) NotificationChannel(ctx context.Context) (string, error) {
	return d.Notifications.Channel, nil
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
