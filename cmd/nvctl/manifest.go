package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/joshuapare/nvkit/internal/format"
)

// Manifest describes an image: its size and the items packed into it.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority)
//  2. Environment variables (NVCTL_*)
//  3. Manifest file (YAML, JSON or TOML)
//  4. Default values (lowest priority)
type Manifest struct {
	// Size is the store size in bytes.
	// Default: 1024
	Size int `mapstructure:"size"`

	// Items are registered in order; each one's offset follows the previous.
	Items []ItemSpec `mapstructure:"items"`

	// Finalize holds the default start-up flags used by init.
	Finalize FinalizeSpec `mapstructure:"finalize"`
}

// ItemSpec declares one item.
type ItemSpec struct {
	Name string `mapstructure:"name"`

	// Type is one of u8 u16 u32 u64 i8 i16 i32 i64 f32 f64 bool text bytes.
	Type string `mapstructure:"type"`

	// Capacity is the slot size for text and bytes items.
	Capacity int `mapstructure:"capacity"`

	// Default is the value written on first initialization.
	Default string `mapstructure:"default"`
}

// FinalizeSpec mirrors nvm.Options.
type FinalizeSpec struct {
	StoreIfInvalid  bool `mapstructure:"store_if_invalid"`
	StoreAlways     bool `mapstructure:"store_always"`
	WipeUnusedAreas bool `mapstructure:"wipe_unused_areas"`
}

// loadManifest reads the manifest at path.
func loadManifest(path string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("NVCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("size", format.DefaultStoreSize)
	v.SetDefault("finalize.store_if_invalid", true)
	v.SetDefault("finalize.store_always", false)
	v.SetDefault("finalize.wipe_unused_areas", false)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", path, err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Size <= format.SignatureSize {
		return fmt.Errorf("size %d too small", m.Size)
	}
	seen := make(map[string]bool, len(m.Items))
	for i, it := range m.Items {
		if it.Name == "" {
			return fmt.Errorf("item %d: missing name", i)
		}
		if seen[it.Name] {
			return fmt.Errorf("item %q: duplicate name", it.Name)
		}
		seen[it.Name] = true
		if _, err := codecFor(it); err != nil {
			return fmt.Errorf("item %q: %w", it.Name, err)
		}
	}
	return nil
}
