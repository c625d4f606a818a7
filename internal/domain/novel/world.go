package novel

import "slices"

// WorldElement is the common shape of characters, locations and items.
type WorldElement struct {
	Element
	aka   string
	tags  []string
	notes string
}

func (w *WorldElement) Aka() string        { return w.aka }
func (w *WorldElement) SetAka(v string)    { setValue(&w.Element, &w.aka, v) }
func (w *WorldElement) Tags() []string     { return slices.Clone(w.tags) }
func (w *WorldElement) SetTags(v []string) { setList(&w.Element, &w.tags, cleanTags(v)) }
func (w *WorldElement) Notes() string      { return w.notes }
func (w *WorldElement) SetNotes(v string)  { setValue(&w.Element, &w.notes, v) }

// Location is a place in the story world.
type Location struct {
	WorldElement
}

// NewLocation creates an empty location.
func NewLocation(id string) *Location {
	return &Location{WorldElement{Element: Element{id: id}}}
}

// Item is an object in the story world.
type Item struct {
	WorldElement
}

// NewItem creates an empty item.
func NewItem(id string) *Item {
	return &Item{WorldElement{Element: Element{id: id}}}
}

// Character is a person in the story world.
type Character struct {
	WorldElement
	fullName  string
	isMajor   bool
	bio       string
	goals     string
	birthDate string
	deathDate string
}

// NewCharacter creates a minor character.
func NewCharacter(id string) *Character {
	return &Character{WorldElement: WorldElement{Element: Element{id: id}}}
}

func (c *Character) FullName() string     { return c.fullName }
func (c *Character) SetFullName(v string) { setValue(&c.Element, &c.fullName, v) }
func (c *Character) IsMajor() bool        { return c.isMajor }
func (c *Character) SetIsMajor(v bool)    { setValue(&c.Element, &c.isMajor, v) }
func (c *Character) Bio() string          { return c.bio }
func (c *Character) SetBio(v string)      { setValue(&c.Element, &c.bio, v) }
func (c *Character) Goals() string        { return c.goals }
func (c *Character) SetGoals(v string)    { setValue(&c.Element, &c.goals, v) }
func (c *Character) BirthDate() string    { return c.birthDate }
func (c *Character) DeathDate() string    { return c.deathDate }

// SetBirthDate sets the ISO birth date; an empty string clears it.
func (c *Character) SetBirthDate(v string) error { return setDate(&c.Element, &c.birthDate, v) }

// SetDeathDate sets the ISO death date; an empty string clears it.
func (c *Character) SetDeathDate(v string) error { return setDate(&c.Element, &c.deathDate, v) }
