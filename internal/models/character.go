package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Character is a hidden identity users try to guess. Attribute fields are
// free-text and may be empty; FullProfile substitutes "Unknown" for those.
type Character struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `db:"name" json:"name"`
	Anime                 string    `db:"anime" json:"anime"`
	Gender                string    `db:"gender" json:"gender,omitempty"`
	Age                   string    `db:"age" json:"age,omitempty"`
	HairColor             string    `db:"hair_color" json:"hairColor,omitempty"`
	EyeColor              string    `db:"eye_color" json:"eyeColor,omitempty"`
	Occupation            string    `db:"occupation" json:"occupation,omitempty"`
	Personality           string    `db:"personality" json:"personality,omitempty"`
	PowersAbilities       string    `db:"powers_abilities" json:"powersAbilities,omitempty"`
	Backstory             string    `db:"backstory" json:"backstory,omitempty"`
	NotableQuotes         string    `db:"notable_quotes" json:"notableQuotes,omitempty"`
	Relationships         string    `db:"relationships" json:"relationships,omitempty"`
	AppearanceDescription string    `db:"appearance_description" json:"appearanceDescription,omitempty"`
	CharacterType         string    `db:"character_type" json:"characterType,omitempty"`
	IsActive              bool      `db:"is_active" json:"isActive"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time `db:"updated_at" json:"updatedAt"`
}

// DisplayName is the identity revealed to the client after a game ends.
func (c *Character) DisplayName() string {
	return fmt.Sprintf("%s from %s", c.Name, c.Anime)
}

// FullProfile formats every attribute for the answering model's context.
func (c *Character) FullProfile() string {
	orUnknown := func(s string) string {
		if s == "" {
			return "Unknown"
		}
		return s
	}
	return fmt.Sprintf(`Name: %s
Anime: %s
Gender: %s
Age: %s
Hair Color: %s
Eye Color: %s
Occupation: %s
Personality: %s
Powers/Abilities: %s
Backstory: %s
Notable Quotes: %s
Relationships: %s
Appearance: %s
Type: %s`,
		c.Name,
		c.Anime,
		orUnknown(c.Gender),
		orUnknown(c.Age),
		orUnknown(c.HairColor),
		orUnknown(c.EyeColor),
		orUnknown(c.Occupation),
		orUnknown(c.Personality),
		orUnknown(c.PowersAbilities),
		orUnknown(c.Backstory),
		orUnknown(c.NotableQuotes),
		orUnknown(c.Relationships),
		orUnknown(c.AppearanceDescription),
		orUnknown(c.CharacterType),
	)
}
