package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/geometry"
)

type abilityEntry struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Spell       bool   `json:"spell"`

	RangeClass    string `json:"range_class"`
	RangeDistance int    `json:"range_distance"`
	RangeAttr     string `json:"range_attr"`

	TargetType   string `json:"target_type"`
	AreaSize     int    `json:"area_size"`
	CenterOnSelf bool   `json:"center_on_self"`

	ConsumesAction bool `json:"consumes_action"`
	Cooldown       int  `json:"cooldown"`

	DamageType       string `json:"damage_type"`
	DamageMultiplier int    `json:"damage_multiplier"`
	HealAmount       int    `json:"heal_amount"`
	Revives          bool   `json:"revives"`
	GrantsAttacks    int    `json:"grants_attacks"`

	AppliesCondition   string `json:"applies_condition"`
	ConditionMagnitude int    `json:"condition_magnitude"`
	ConditionExpiry    string `json:"condition_expiry"`
}

type unitEntry struct {
	Name            string            `json:"name"`
	Category        string            `json:"category"`
	Attributes      battle.Attributes `json:"attributes"`
	DamageReduction int               `json:"damage_reduction"`
	Abilities       []string          `json:"abilities"`
}

type obstacleEntry struct {
	Position     geometry.Point `json:"position"`
	Destructible bool           `json:"destructible"`
	HP           int            `json:"hp"`
}

type rawConfig struct {
	AbilityList []abilityEntry `json:"ability_list"`
	UnitList    []unitEntry    `json:"unit_list"`
	Server      *struct {
		Address string `json:"address"`
	} `json:"server"`
	Arena *struct {
		Width     int             `json:"width"`
		Height    int             `json:"height"`
		Obstacles []obstacleEntry `json:"obstacles"`
	} `json:"arena"`
	TurnSeconds           int `json:"turn_seconds"`
	DisconnectGraceSecond int `json:"disconnect_grace_seconds"`
	EngagementCost        int `json:"engagement_cost"`
	InactivityMinutes     int `json:"inactivity_minutes"`
}

// UnitTemplate is a roster entry players pick their units from.
type UnitTemplate struct {
	Name            string
	Category        battle.UnitCategory
	Attributes      battle.Attributes
	DamageReduction int
	Abilities       []string
}

// ObstaclePlacement is a fixed arena obstacle seeded into every battle.
type ObstaclePlacement struct {
	Position     geometry.Point
	Destructible bool
	HP           int
}

// LoadedConfig holds the ability catalog, the unit roster and the server
// tunables. It implements the engine's ability catalog.
type LoadedConfig struct {
	abilities map[string]*battle.AbilityDefinition

	Abilities []battle.AbilityDefinition
	Units     []UnitTemplate

	ServerAddress string
	ArenaBounds   geometry.Bounds
	Obstacles     []ObstaclePlacement

	TurnSeconds         int
	DisconnectGraceSecs int
	EngagementCost      int
	InactivityMinutes   int
}

// NewStatic builds a config from already-validated values, bypassing the
// file loader. Servers load from disk; tests and tools assemble directly.
func NewStatic(abilities []battle.AbilityDefinition, units []UnitTemplate) *LoadedConfig {
	index := make(map[string]*battle.AbilityDefinition, len(abilities))
	for i := range abilities {
		index[abilities[i].Code] = &abilities[i]
	}
	return &LoadedConfig{
		abilities:           index,
		Abilities:           abilities,
		Units:               units,
		ServerAddress:       ":8080",
		ArenaBounds:         geometry.Bounds{Width: 12, Height: 12},
		TurnSeconds:         30,
		DisconnectGraceSecs: 60,
		EngagementCost:      1,
		InactivityMinutes:   30,
	}
}

// Ability looks a definition up by code.
func (c *LoadedConfig) Ability(code string) (*battle.AbilityDefinition, bool) {
	def, ok := c.abilities[code]
	return def, ok
}

// Unit returns the roster template with the given name.
func (c *LoadedConfig) Unit(name string) (*UnitTemplate, bool) {
	for i := range c.Units {
		if c.Units[i].Name == name {
			return &c.Units[i], true
		}
	}
	return nil, false
}

// LoadConfig reads the configuration file at path. It requires the keys
// `ability_list` and `unit_list` (snake_case).
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.AbilityList) == 0 {
		return nil, fmt.Errorf("config file %s: ability_list is empty (provide 'ability_list' array)", path)
	}
	if len(rc.UnitList) == 0 {
		return nil, fmt.Errorf("config file %s: unit_list is empty (provide 'unit_list' array)", path)
	}

	abilities := make([]battle.AbilityDefinition, 0, len(rc.AbilityList))
	index := make(map[string]*battle.AbilityDefinition, len(rc.AbilityList))
	for _, a := range rc.AbilityList {
		code := strings.TrimSpace(a.Code)
		if code == "" {
			return nil, fmt.Errorf("config file %s: ability entry missing 'code'", path)
		}
		if _, exists := index[code]; exists {
			return nil, fmt.Errorf("config file %s: duplicate ability code '%s'", path, code)
		}
		def, err := buildAbility(code, a)
		if err != nil {
			return nil, fmt.Errorf("config file %s: ability '%s': %w", path, code, err)
		}
		abilities = append(abilities, *def)
		index[code] = &abilities[len(abilities)-1]
	}

	units := make([]UnitTemplate, 0, len(rc.UnitList))
	nameSet := make(map[string]struct{}, len(rc.UnitList))
	for _, u := range rc.UnitList {
		name := strings.TrimSpace(u.Name)
		if name == "" {
			return nil, fmt.Errorf("config file %s: unit entry missing 'name'", path)
		}
		ln := strings.ToLower(name)
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate unit name '%s'", path, u.Name)
		}
		nameSet[ln] = struct{}{}
		category, err := parseCategory(u.Category)
		if err != nil {
			return nil, fmt.Errorf("config file %s: unit '%s': %w", path, name, err)
		}
		if u.Attributes.Vitality <= 0 {
			return nil, fmt.Errorf("config file %s: unit '%s' needs a positive vitality", path, name)
		}
		for _, code := range u.Abilities {
			if _, ok := index[code]; !ok {
				return nil, fmt.Errorf("config file %s: unit '%s' references unknown ability '%s'", path, name, code)
			}
		}
		units = append(units, UnitTemplate{
			Name:            name,
			Category:        category,
			Attributes:      u.Attributes,
			DamageReduction: u.DamageReduction,
			Abilities:       u.Abilities,
		})
	}

	cfg := &LoadedConfig{
		abilities:           index,
		Abilities:           abilities,
		Units:               units,
		ServerAddress:       ":8080",
		ArenaBounds:         geometry.Bounds{Width: 12, Height: 12},
		TurnSeconds:         30,
		DisconnectGraceSecs: 60,
		EngagementCost:      1,
		InactivityMinutes:   30,
	}
	if rc.Server != nil && rc.Server.Address != "" {
		cfg.ServerAddress = rc.Server.Address
	}
	if rc.Arena != nil {
		if rc.Arena.Width <= 0 || rc.Arena.Height <= 0 {
			return nil, fmt.Errorf("config file %s: arena dimensions must be positive", path)
		}
		cfg.ArenaBounds = geometry.Bounds{Width: rc.Arena.Width, Height: rc.Arena.Height}
		for i, o := range rc.Arena.Obstacles {
			if !cfg.ArenaBounds.Contains(o.Position) {
				return nil, fmt.Errorf("config file %s: arena obstacle %d is out of bounds", path, i)
			}
			if o.Destructible && o.HP <= 0 {
				return nil, fmt.Errorf("config file %s: destructible arena obstacle %d needs positive hp", path, i)
			}
			cfg.Obstacles = append(cfg.Obstacles, ObstaclePlacement(o))
		}
	}
	if rc.TurnSeconds > 0 {
		cfg.TurnSeconds = rc.TurnSeconds
	}
	if rc.DisconnectGraceSecond > 0 {
		cfg.DisconnectGraceSecs = rc.DisconnectGraceSecond
	}
	if rc.EngagementCost > 0 {
		cfg.EngagementCost = rc.EngagementCost
	}
	if rc.InactivityMinutes > 0 {
		cfg.InactivityMinutes = rc.InactivityMinutes
	}
	return cfg, nil
}

func buildAbility(code string, a abilityEntry) (*battle.AbilityDefinition, error) {
	rangeClass, err := parseRangeClass(a.RangeClass)
	if err != nil {
		return nil, err
	}
	targetType, err := parseTargetType(a.TargetType)
	if err != nil {
		return nil, err
	}
	rangeAttr, err := parseRangeAttr(a.RangeAttr)
	if err != nil {
		return nil, err
	}
	damageType := battle.DamagePhysical
	if a.DamageType != "" {
		damageType, err = parseDamageType(a.DamageType)
		if err != nil {
			return nil, err
		}
	}
	if rangeClass == battle.RangeRanged && rangeAttr == battle.RangeAttrNone && a.RangeDistance <= 0 {
		return nil, fmt.Errorf("ranged abilities need 'range_distance' or 'range_attr'")
	}
	def := &battle.AbilityDefinition{
		Code:             code,
		Name:             a.Name,
		Description:      a.Description,
		Spell:            a.Spell,
		RangeClass:       rangeClass,
		RangeDistance:    a.RangeDistance,
		RangeAttr:        rangeAttr,
		TargetType:       targetType,
		AreaSize:         a.AreaSize,
		CenterOnSelf:     a.CenterOnSelf,
		ConsumesAction:   a.ConsumesAction,
		Cooldown:         a.Cooldown,
		DamageType:       damageType,
		DamageMultiplier: a.DamageMultiplier,
		HealAmount:       a.HealAmount,
		Revives:          a.Revives,
		GrantsAttacks:    a.GrantsAttacks,
	}
	if a.AppliesCondition != "" {
		def.AppliesCondition = battle.ConditionKind(a.AppliesCondition)
		def.ConditionMagnitude = a.ConditionMagnitude
		expiry, err := parseExpiry(a.ConditionExpiry)
		if err != nil {
			return nil, err
		}
		def.ConditionExpiry = expiry
	}
	return def, nil
}

func parseCategory(s string) (battle.UnitCategory, error) {
	switch battle.UnitCategory(s) {
	case battle.CategoryTroop, battle.CategoryHero, battle.CategoryRegent:
		return battle.UnitCategory(s), nil
	}
	return "", fmt.Errorf("unknown category '%s'", s)
}

func parseRangeClass(s string) (battle.RangeClass, error) {
	switch battle.RangeClass(s) {
	case battle.RangeSelf, battle.RangeMelee, battle.RangeRanged, battle.RangeArea:
		return battle.RangeClass(s), nil
	}
	return "", fmt.Errorf("unknown range_class '%s'", s)
}

func parseTargetType(s string) (battle.TargetType, error) {
	switch battle.TargetType(s) {
	case battle.TargetSelf, battle.TargetUnit, battle.TargetAlly, battle.TargetEnemy,
		battle.TargetPosition, battle.TargetGround, battle.TargetAll:
		return battle.TargetType(s), nil
	}
	return "", fmt.Errorf("unknown target_type '%s'", s)
}

func parseRangeAttr(s string) (battle.RangeAttribute, error) {
	switch battle.RangeAttribute(s) {
	case battle.RangeAttrNone, battle.RangeAttrCombat, battle.RangeAttrAcuity, battle.RangeAttrFocus:
		return battle.RangeAttribute(s), nil
	}
	return "", fmt.Errorf("unknown range_attr '%s'", s)
}

func parseDamageType(s string) (battle.DamageType, error) {
	switch battle.DamageType(s) {
	case battle.DamagePhysical, battle.DamageMagical, battle.DamageTrue:
		return battle.DamageType(s), nil
	}
	return "", fmt.Errorf("unknown damage_type '%s'", s)
}

func parseExpiry(s string) (battle.ExpiryRule, error) {
	switch battle.ExpiryRule(s) {
	case battle.ExpireEndOfTurn, battle.ExpireEndOfRound, battle.ExpireUntilCleared:
		return battle.ExpiryRule(s), nil
	}
	return "", fmt.Errorf("unknown condition_expiry '%s'", s)
}
