package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tangible-xr/tangible/interaction"
	"github.com/tangible-xr/tangible/parameter"
)

// Config holds application configuration.
type Config struct {
	Engine    EngineConfig
	Hover     HoverConfig
	Contact   ContactConfig
	Grasp     GraspConfig
	Telemetry TelemetryConfig
}

// EngineConfig holds fixed-tick loop settings.
type EngineConfig struct {
	TickInterval time.Duration
	CellSize     float64
}

// HoverConfig holds hover and primary-hover settings.
type HoverConfig struct {
	ActivationRadius   float64
	HysteresisDomain   [2]float64
	HysteresisRange    [2]float64
	PrimaryHoverLockAt float64
}

// ContactConfig holds contact-driver settings.
type ContactConfig struct {
	DeadzoneWidthFraction    float64
	BoneVelocityMax          float64
	SoftContactErrorFraction float64
	SoftContactSpeedGate     float64
	SoftContactSphereRadius  float64
	SoftContactDisableDelay  time.Duration
}

// GraspConfig holds grasp settings.
type GraspConfig struct {
	ActivationRadius float64
}

// TelemetryConfig holds the websocket event stream settings.
type TelemetryConfig struct {
	Enabled bool
	Addr    string
}

// Load reads configuration from file and env. Env var overrides use prefix
// TANGIBLE_. A missing config file yields the defaults.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("engine.tick_interval", parameter.TickInterval)
	v.SetDefault("engine.cell_size", parameter.SpatialHashCellSize)
	v.SetDefault("hover.activation_radius", parameter.HoverActivationRadius)
	v.SetDefault("hover.hysteresis_domain", []float64{parameter.HysteresisDomainMin, parameter.HysteresisDomainMax})
	v.SetDefault("hover.hysteresis_range", []float64{parameter.HysteresisRangeMin, parameter.HysteresisRangeMax})
	v.SetDefault("hover.primary_hover_lock_at", parameter.PrimaryHoverLockDistance)
	v.SetDefault("contact.deadzone_width_fraction", parameter.DeadzoneWidthFraction)
	v.SetDefault("contact.bone_velocity_max", parameter.BoneVelocityMax)
	v.SetDefault("contact.soft_contact_error_fraction", parameter.SoftContactErrorFraction)
	v.SetDefault("contact.soft_contact_speed_gate", parameter.SoftContactSpeedGate)
	v.SetDefault("contact.soft_contact_sphere_radius", parameter.SoftContactSphereRadius)
	v.SetDefault("contact.soft_contact_disable_delay", parameter.SoftContactDisableDelay)
	v.SetDefault("grasp.activation_radius", parameter.GraspActivationRadius)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.addr", ":8473")

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("TANGIBLE_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("tangible")
	}

	v.SetEnvPrefix("TANGIBLE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Engine.TickInterval <= 0 {
		return fmt.Errorf("engine.tick_interval must be positive, got %v", c.Engine.TickInterval)
	}
	if c.Engine.CellSize <= 0 {
		return fmt.Errorf("engine.cell_size must be positive, got %v", c.Engine.CellSize)
	}
	if c.Hover.HysteresisDomain[0] >= c.Hover.HysteresisDomain[1] {
		return fmt.Errorf("hover.hysteresis_domain must be increasing, got %v", c.Hover.HysteresisDomain)
	}
	if c.Contact.SoftContactDisableDelay < 0 {
		return fmt.Errorf("contact.soft_contact_disable_delay must not be negative, got %v", c.Contact.SoftContactDisableDelay)
	}
	return nil
}

// Tuning converts the loaded configuration into interaction tuning.
func (c Config) Tuning() interaction.Tuning {
	return interaction.Tuning{
		HoverActivationRadius:    c.Hover.ActivationRadius,
		GraspActivationRadius:    c.Grasp.ActivationRadius,
		HysteresisDomainMin:      c.Hover.HysteresisDomain[0],
		HysteresisDomainMax:      c.Hover.HysteresisDomain[1],
		HysteresisRangeMin:       c.Hover.HysteresisRange[0],
		HysteresisRangeMax:       c.Hover.HysteresisRange[1],
		PrimaryHoverLockDistance: c.Hover.PrimaryHoverLockAt,
		DeadzoneWidthFraction:    c.Contact.DeadzoneWidthFraction,
		BoneVelocityMax:          c.Contact.BoneVelocityMax,
		SoftContactErrorFraction: c.Contact.SoftContactErrorFraction,
		SoftContactSpeedGate:     c.Contact.SoftContactSpeedGate,
		SoftContactSphereRadius:  c.Contact.SoftContactSphereRadius,
		SoftContactDisableDelay:  c.Contact.SoftContactDisableDelay,
	}
}
