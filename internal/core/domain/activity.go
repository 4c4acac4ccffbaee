package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrActivityNameEmpty   = errors.New("activity name cannot be empty")
	ErrActivityNameTooLong = errors.New("activity name is too long (max 100 chars)")
	ErrInvalidCategory     = errors.New("invalid activity category")
	ErrInvalidCoefficient  = errors.New("coefficient must be between 0.5 and 5.0")
	ErrInvalidColor        = errors.New("invalid color format (must be #RRGGBB)")
	ErrActivityArchived    = errors.New("cannot update an archived activity")
	ErrInvalidFamilyID     = errors.New("invalid family id")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// Category is one of the fixed eight activity categories. The set is closed:
// the daily breakdown always carries all eight keys.
type Category string

const (
	CategoryPhysical    Category = "physical"
	CategoryCreative    Category = "creative"
	CategoryEducational Category = "educational"
	CategorySocial      Category = "social"
	CategoryScreen      Category = "screen"
	CategoryChores      Category = "chores"
	CategoryRest        Category = "rest"
	CategoryOther       Category = "other"
)

// AllCategories lists the categories in their canonical display order.
var AllCategories = []Category{
	CategoryPhysical,
	CategoryCreative,
	CategoryEducational,
	CategorySocial,
	CategoryScreen,
	CategoryChores,
	CategoryRest,
	CategoryOther,
}

func (c Category) Valid() bool {
	switch c {
	case CategoryPhysical, CategoryCreative, CategoryEducational, CategorySocial,
		CategoryScreen, CategoryChores, CategoryRest, CategoryOther:
		return true
	}
	return false
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

const (
	MinCoefficient     = 0.5
	MaxCoefficient     = 5.0
	DefaultCoefficient = 1.0
	MaxNameLen         = 100
	DefaultIcon        = "📌"
)

const (
	CreatedByParent = "parent"
	CreatedByChild  = "child"
)

// Activity is a catalog entry: something a child can log time against.
// The coefficient is the quality multiplier (points per minute) captured
// into each log at logging time. Activities are never hard-deleted, only
// archived, so historical logs stay attributable.
type Activity struct {
	ID                 string     `json:"id" db:"id"`
	FamilyID           string     `json:"family_id" db:"family_id"`
	Name               string     `json:"name" db:"name"`
	Category           Category   `json:"category" db:"category"`
	Coefficient        float64    `json:"coefficient" db:"coefficient"`
	Icon               string     `json:"icon" db:"icon"`
	Color              string     `json:"color" db:"color"`
	SuggestedDurations []int      `json:"suggested_durations,omitempty"`
	CreatedBy          string     `json:"created_by" db:"created_by"`
	IsPreset           bool       `json:"is_preset" db:"is_preset"`
	Version            int        `json:"version" db:"version"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	ArchivedAt         *time.Time `json:"archived_at,omitempty" db:"archived_at"`
}

func validateActivity(name string, category Category, coefficient float64, color string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrActivityNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return ErrActivityNameTooLong
	}
	if !category.Valid() {
		return ErrInvalidCategory
	}
	if coefficient < MinCoefficient || coefficient > MaxCoefficient {
		return ErrInvalidCoefficient
	}
	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}
	return nil
}

func NewActivity(familyID, name string, category Category, coefficient float64, icon, color, createdBy string) (*Activity, error) {
	if familyID == "" {
		return nil, ErrInvalidFamilyID
	}

	if coefficient == 0 {
		coefficient = DefaultCoefficient
	}

	if err := validateActivity(name, category, coefficient, color); err != nil {
		return nil, err
	}

	if icon == "" {
		icon = DefaultIcon
	}
	if createdBy != CreatedByChild {
		createdBy = CreatedByParent
	}

	now := time.Now().UTC()

	return &Activity{
		ID:          uuid.New().String(),
		FamilyID:    familyID,
		Name:        strings.TrimSpace(name),
		Category:    category,
		Coefficient: coefficient,
		Icon:        icon,
		Color:       color,
		CreatedBy:   createdBy,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (a *Activity) Update(name string, category Category, coefficient float64, icon, color string) error {
	if a.ArchivedAt != nil {
		return ErrActivityArchived
	}

	if err := validateActivity(name, category, coefficient, color); err != nil {
		return err
	}

	if icon == "" {
		icon = DefaultIcon
	}

	a.Name = strings.TrimSpace(name)
	a.Category = category
	a.Coefficient = coefficient
	a.Icon = icon
	a.Color = color
	a.UpdatedAt = time.Now().UTC()

	return nil
}

func (a *Activity) Archive() {
	if a.ArchivedAt != nil {
		return
	}

	now := time.Now().UTC()
	a.ArchivedAt = &now
	a.UpdatedAt = now
}

func (a *Activity) Restore() {
	if a.ArchivedAt == nil {
		return
	}
	a.ArchivedAt = nil
	a.UpdatedAt = time.Now().UTC()
}
