// Package badges builds the badge definition catalog.
package badges

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category names with generation rules.
const (
	CategoryDaily   = "daily_activities"
	CategoryScore   = "score"
	CategorySocial  = "social_interaction"
	CategoryStreak  = "streak"
	CategorySpecial = "special"
)

// Tier names with distinct naming rules. Other tiers fall back to the
// bronze wording.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Criteria describes how a badge is earned.
type Criteria struct {
	Type            string `json:"type"`
	ActivityType    string `json:"activity_type,omitempty"`
	ScoreType       string `json:"score_type,omitempty"`
	InteractionType string `json:"interaction_type,omitempty"`
	StreakType      string `json:"streak_type,omitempty"`
	SpecialType     string `json:"special_type,omitempty"`
	Count           int    `json:"count,omitempty"`
	MinScore        int    `json:"min_score,omitempty"`
	Days            int    `json:"days,omitempty"`
	Daily           bool   `json:"daily,omitempty"`
}

// Badge is a single badge definition.
type Badge struct {
	ID          string   `json:"id"`
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	Category    string   `json:"category"`
	Tier        string   `json:"tier"`
	Rarity      string   `json:"rarity"`
	Points      int      `json:"points"`
	Criteria    Criteria `json:"criteria"`
}

// Catalog is the badge definition file.
type Catalog struct {
	TotalBadges int     `json:"totalBadges"`
	Badges      []Badge `json:"badges"`
}

// CategoryCount is the number of badges in one category.
type CategoryCount struct {
	Category string
	Count    int
}

type rule func(tier, kind string, threshold int) (name, description string, criteria Criteria)

var rules = map[string]rule{
	CategoryDaily:   dailyRule,
	CategoryScore:   scoreRule,
	CategorySocial:  socialRule,
	CategoryStreak:  streakRule,
	CategorySpecial: specialRule,
}

// Generate builds the catalog: for every category, every tier, PerTier
// badges. IDs are numbered in that order starting at badge-001.
func Generate(t *Tables) (*Catalog, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	total := len(t.Categories) * len(t.Tiers) * t.PerTier
	badges := make([]Badge, 0, total)
	emojiIndex := 0

	for catIdx, category := range t.Categories {
		build := rules[category]
		kinds := t.Kinds[category]

		for tierIdx, tier := range t.Tiers {
			for b := 0; b < t.PerTier; b++ {
				num := catIdx*len(t.Tiers)*t.PerTier + tierIdx*t.PerTier + b + 1

				threshold := 0
				if th := t.Thresholds[category][tier]; b < len(th) {
					threshold = th[b]
				}
				name, description, criteria := build(tier, kinds[b%len(kinds)], threshold)

				colors := t.TierColors[tier]
				badges = append(badges, Badge{
					ID:          fmt.Sprintf("badge-%03d", num),
					Key:         fmt.Sprintf("%s_%s_%d", category, tier, b+1),
					Name:        name,
					Description: description,
					Icon:        t.Emojis[emojiIndex%len(t.Emojis)],
					Color:       colors[b%len(colors)],
					Category:    category,
					Tier:        tier,
					Rarity:      t.TierRarity[tier],
					Points:      int(float64(t.TierBasePoints[tier]) * t.CategoryMultipliers[category]),
					Criteria:    criteria,
				})
				emojiIndex++
			}
		}
	}

	return &Catalog{TotalBadges: len(badges), Badges: badges}, nil
}

// Distribution counts badges per category in first-seen order.
func (c *Catalog) Distribution() []CategoryCount {
	var out []CategoryCount
	index := make(map[string]int)
	for _, b := range c.Badges {
		i, ok := index[b.Category]
		if !ok {
			i = len(out)
			index[b.Category] = i
			out = append(out, CategoryCount{Category: b.Category})
		}
		out[i].Count++
	}
	return out
}

// Filter returns the badges of one category.
func (c *Catalog) Filter(category string) []Badge {
	out := []Badge{}
	for _, b := range c.Badges {
		if b.Category == category {
			out = append(out, b)
		}
	}
	return out
}

func dailyRule(tier, kind string, count int) (string, string, Criteria) {
	title := capitalize(kind)
	var name string
	switch tier {
	case TierSilver:
		name = fmt.Sprintf("%d %s Ustası", count, title)
	case TierGold:
		name = fmt.Sprintf("%d %s Uzmanı", count, title)
	case TierPlatinum:
		name = fmt.Sprintf("%d %s Efsanesi", count, title)
	default:
		if count == 1 {
			name = "İlk " + title
		} else {
			name = fmt.Sprintf("%d %s", count, title)
		}
	}
	return name,
		fmt.Sprintf("Bir günde %d %s tamamla", count, kind),
		Criteria{Type: "daily_activity", ActivityType: kind, Count: count, Daily: true}
}

func scoreRule(tier, kind string, score int) (string, string, Criteria) {
	title := capitalize(kind)
	name := fmt.Sprintf("%s %d", title, score)
	description := fmt.Sprintf("%s skorunuz %d ve üzeri olsun", title, score)
	if tier == TierPlatinum {
		name = title + " Mükemmel"
		description = fmt.Sprintf("%s skorunuz %d olsun", title, score)
	}
	return name, description, Criteria{Type: "score", ScoreType: kind, MinScore: score}
}

func socialRule(tier, kind string, count int) (string, string, Criteria) {
	title := capitalize(kind)
	var name string
	switch tier {
	case TierSilver:
		name = fmt.Sprintf("%d %s", count, title)
	case TierGold:
		name = fmt.Sprintf("%d %s Ustası", count, title)
	case TierPlatinum:
		name = fmt.Sprintf("%d %s Efsanesi", count, title)
	default:
		name = fmt.Sprintf("İlk %d %s", count, title)
	}
	return name,
		fmt.Sprintf("Toplam %d %s yap", count, kind),
		Criteria{Type: "social_interaction", InteractionType: kind, Count: count}
}

func streakRule(tier, kind string, days int) (string, string, Criteria) {
	name := fmt.Sprintf("%d Günlük %s", days, capitalize(kind))
	if tier == TierPlatinum {
		name += " Efsanesi"
	}
	return name,
		fmt.Sprintf("%d gün üst üste %s yap", days, kind),
		Criteria{Type: "streak", StreakType: kind, Days: days}
}

func specialRule(tier, kind string, _ int) (string, string, Criteria) {
	word := kind
	if fields := strings.Fields(kind); len(fields) > 1 {
		word = fields[1]
	}
	title := capitalize(kind)

	var name, description string
	switch tier {
	case TierSilver:
		name = "Hızlı " + word
		description = fmt.Sprintf("24 saat içinde %s başarısını elde et", kind)
	case TierGold:
		name = "Mükemmel " + word
		description = title + " mükemmel performansı göster"
	case TierPlatinum:
		name = "Efsanevi " + word
		description = title + " efsanevi başarısını elde et"
	default:
		name = "İlk " + word
		description = title + " başarısını elde et"
	}
	return name, description, Criteria{Type: "special", SpecialType: kind}
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
