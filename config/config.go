// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen      ScreenConfig      `yaml:"screen"`
	World       WorldConfig       `yaml:"world"`
	Pathfinding PathfindingConfig `yaml:"pathfinding"`
	Movement    MovementConfig    `yaml:"movement"`
	Cats        CatConfig         `yaml:"cats"`
	Humans      HumanConfig       `yaml:"humans"`
	Aliens      AlienConfig       `yaml:"aliens"`
	Tasks       TaskConfig        `yaml:"tasks"`
	Capture     CaptureConfig     `yaml:"capture"`
	Power       PowerConfig       `yaml:"power"`
	Oxygen      OxygenConfig      `yaml:"oxygen"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Render      RenderConfig      `yaml:"render"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds map dimensions and generation parameters.
type WorldConfig struct {
	TileSize    int     `yaml:"tile_size"`    // Pixels per tile
	Cols        int     `yaml:"cols"`         // Map width in tiles
	Rows        int     `yaml:"rows"`         // Map height in tiles
	NoiseScale  float64 `yaml:"noise_scale"`  // Terrain noise frequency
	RockCutoff  float64 `yaml:"rock_cutoff"`  // Noise above this becomes rock
	GrassCutoff float64 `yaml:"grass_cutoff"` // Noise above this becomes grass
}

// PathfindingConfig holds A* parameters.
type PathfindingConfig struct {
	DiagonalCost    float64 `yaml:"diagonal_cost"`     // Cost of diagonal steps
	MaxSearchRadius int     `yaml:"max_search_radius"` // Ring search limit for blocked goals
	MaxIterations   int     `yaml:"max_iterations"`    // A* expansion cap
}

// MovementConfig holds waypoint follower parameters.
type MovementConfig struct {
	ArrivalEpsilon float64 `yaml:"arrival_epsilon"` // Waypoint snap distance in pixels
}

// CatConfig holds cat crew parameters.
type CatConfig struct {
	Count            int     `yaml:"count"`
	MaxHealth        float64 `yaml:"max_health"`
	SpeedMin         float64 `yaml:"speed_min"`
	SpeedMax         float64 `yaml:"speed_max"`
	MaxHunger        float64 `yaml:"max_hunger"`
	StartHunger      float64 `yaml:"start_hunger"`
	HungerRate       float64 `yaml:"hunger_rate"`       // Hunger drain per second
	CriticalHunger   float64 `yaml:"critical_hunger"`   // Seek food at or below this
	StarvationDamage float64 `yaml:"starvation_damage"` // Health loss per second at zero hunger
	EatRange         float64 `yaml:"eat_range"`         // Tiles
	SprintHunger     float64 `yaml:"sprint_hunger"`     // Fraction of max hunger below which seekers sprint
	SprintFactor     float64 `yaml:"sprint_factor"`
	WanderMinSec     float64 `yaml:"wander_min_sec"`
	WanderMaxSec     float64 `yaml:"wander_max_sec"`
	IdleMinSec       float64 `yaml:"idle_min_sec"`
	IdleMaxSec       float64 `yaml:"idle_max_sec"`
	MaxMorale        float64 `yaml:"max_morale"`
	MoraleDamageCost float64 `yaml:"morale_damage_cost"` // Morale lost per point of damage
	LowHealthDrain   float64 `yaml:"low_health_drain"`   // Morale drain per second below half health
}

// HumanConfig holds human guard parameters.
type HumanConfig struct {
	Count          int     `yaml:"count"`
	MaxHealth      float64 `yaml:"max_health"`
	Speed          float64 `yaml:"speed"`
	DetectionTiles float64 `yaml:"detection_tiles"` // Alien detection radius in tiles
	AttackTiles    float64 `yaml:"attack_tiles"`    // Attack range in tiles
	AttackDamage   float64 `yaml:"attack_damage"`
	AttackCooldown float64 `yaml:"attack_cooldown"` // Seconds between swings
	RepathMinSec   float64 `yaml:"repath_min_sec"`  // Chase repath timer bounds
	RepathMaxSec   float64 `yaml:"repath_max_sec"`
}

// AlienConfig holds player alien parameters.
type AlienConfig struct {
	MaxHealth float64 `yaml:"max_health"`
	MaxMorale float64 `yaml:"max_morale"`
	Speed     float64 `yaml:"speed"`
}

// TaskConfig holds task board parameters.
type TaskConfig struct {
	DefaultWorkTime   float64 `yaml:"default_work_time"`  // Seconds to finish a task
	InterruptPriority int     `yaml:"interrupt_priority"` // Priority at or above this interrupts idle crew
	WorkRangeTiles    int     `yaml:"work_range_tiles"`   // Chebyshev range for progress
}

// CaptureConfig holds knockout/carry parameters.
type CaptureConfig struct {
	RangeTiles      float64 `yaml:"range_tiles"`
	StealthChance   float64 `yaml:"stealth_chance"`   // Knockout probability when stealthed and undetected
	BaseChance      float64 `yaml:"base_chance"`      // Scaled by target health fraction otherwise
	UnconsciousSec  float64 `yaml:"unconscious_sec"`  // Wake timer
	CarrySpeedScale float64 `yaml:"carry_speed_scale"` // Carrier speed multiplier while carrying
}

// PowerConfig holds power network parameters.
type PowerConfig struct {
	ReactorCapacity    float64 `yaml:"reactor_capacity"`
	LifeSupportDemand  float64 `yaml:"life_support_demand"`
	WireBuildTime      float64 `yaml:"wire_build_time"`
	ReactorBuildTime   float64 `yaml:"reactor_build_time"`
	LifeSupportBuildTime float64 `yaml:"life_support_build_time"`
}

// OxygenConfig holds oxygen field parameters.
type OxygenConfig struct {
	DiffusionRate    float64 `yaml:"diffusion_rate"`
	ConsumptionRate  float64 `yaml:"consumption_rate"` // Per breathing occupant per second
	GenerationRate   float64 `yaml:"generation_rate"`  // Per powered life support per second
	GenerationRadius int     `yaml:"generation_radius"` // Half-width of the square spread area
	CriticalLevel    float64 `yaml:"critical_level"`
	DamageScale      float64 `yaml:"damage_scale"` // Damage per second per unit deficit below critical
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	OutputDir   string  `yaml:"output_dir"`
}

// RenderConfig holds camera and overlay settings.
type RenderConfig struct {
	MinZoom float64 `yaml:"min_zoom"`
	MaxZoom float64 `yaml:"max_zoom"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TileSize32      float32 // World.TileSize as float32
	DetectionPixels float64 // Humans.DetectionTiles in pixels
	AttackPixels    float64 // Humans.AttackTiles in pixels
	CapturePixels   float64 // Capture.RangeTiles in pixels
	EatPixels       float64 // Cats.EatRange in pixels
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func (c *Config) computeDerived() {
	ts := float64(c.World.TileSize)
	c.Derived.TileSize32 = float32(ts)
	c.Derived.DetectionPixels = c.Humans.DetectionTiles * ts
	c.Derived.AttackPixels = c.Humans.AttackTiles * ts
	c.Derived.CapturePixels = c.Capture.RangeTiles * ts
	c.Derived.EatPixels = c.Cats.EatRange * ts
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
