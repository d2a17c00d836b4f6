package wizard

import (
	"github.com/fortyninthit/episodes/internal/config"
	"github.com/fortyninthit/episodes/internal/textnorm"
)

// Overage is one network whose composed message is too long.
type Overage struct {
	Network string
	Length  int
	Limit   int
	Over    int
}

// SocialOverages composes the social message for title and the finished
// blurb and reports every network it does not fit. A message exactly at a
// limit fits.
func SocialOverages(title, blurb, link string, networks []config.Social) []Overage {
	message := textnorm.ComposeSocialMessage(title, blurb, link)
	length := textnorm.Length(message)

	var overages []Overage
	for _, n := range networks {
		if n.Limit <= 0 {
			continue
		}
		if over := length - n.Limit; over > 0 {
			overages = append(overages, Overage{Network: n.Name, Length: length, Limit: n.Limit, Over: over})
		}
	}
	return overages
}
