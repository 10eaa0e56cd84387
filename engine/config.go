package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/zschzen/Vulkan-Course/engine/core"
)

// ApplicationConfig drives window placement, logging and renderer startup.
// It is normally read from a TOML file next to the binary.
type ApplicationConfig struct {
	// Window position x coordinate, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window position y coordinate, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// The log level of the application
	LogLevel string `toml:"log_level"`

	// Enables Vulkan validation layers and the debug messenger.
	Debug bool `toml:"debug"`
	// Directory holding the compiled vert.spv / frag.spv binaries.
	ShaderDir string `toml:"shader_dir"`
	// Optional texture decoded and uploaded at startup. Empty skips it.
	TexturePath string `toml:"texture_path"`
	// Upper bound on the frame rate. Zero means uncapped.
	TargetFPS uint32 `toml:"target_fps"`
}

// DefaultApplicationConfig is the fallback used when no config file exists.
func DefaultApplicationConfig() ApplicationConfig {
	return ApplicationConfig{
		StartPosX:   100,
		StartPosY:   100,
		StartWidth:  1280,
		StartHeight: 720,
		Name:        "Vulkan Course",
		LogLevel:    "info",
		Debug:       true,
		ShaderDir:   "shaders",
		TargetFPS:   60,
	}
}

// LoadApplicationConfig reads the TOML file at path, layering it over the
// defaults. A missing file is not an error.
func LoadApplicationConfig(path string) (ApplicationConfig, error) {
	config := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		core.LogInfo("No config file at `%s`, using defaults.", path)
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("unable to read config `%s`: %w", path, err)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("unable to parse config `%s`: %w", path, err)
	}

	if config.StartWidth == 0 || config.StartHeight == 0 {
		return config, fmt.Errorf("config `%s` declares a zero window dimension", path)
	}

	return config, nil
}
