package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTetris loads the game configuration.
// Search order: customPath -> ~/.arcade/configs/tetris.yaml ->
// ./configs/tetris.yaml -> embedded default -> hardcoded default.
// Fields a file leaves out keep their default values.
func LoadTetris(customPath string) (TetrisConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultTetrisConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseTetris(data)
		if err != nil {
			return DefaultTetrisConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{userConfigPath("tetris.yaml"), filepath.Join("configs", "tetris.yaml")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		if data, err := os.ReadFile(path); err == nil {
			if cfg, err := parseTetris(data); err == nil {
				return cfg, nil
			}
		}
	}

	if cfg, err := parseTetris(defaultTetrisYAML); err == nil {
		return cfg, nil
	}
	return DefaultTetrisConfig(), nil
}

// parseTetris decodes data over the defaults so partial files work.
func parseTetris(data []byte) (TetrisConfig, error) {
	cfg := DefaultTetrisConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultTetrisConfig(), err
	}
	if _, err := ParsePreset(cfg.Difficulty.Preset); err != nil {
		return DefaultTetrisConfig(), err
	}
	cfg.Keys = mergeKeys(cfg.Keys, DefaultKeys())
	local := DefaultLocalKeys()
	cfg.LocalKeys.Player1 = mergeKeys(cfg.LocalKeys.Player1, local.Player1)
	cfg.LocalKeys.Player2 = mergeKeys(cfg.LocalKeys.Player2, local.Player2)
	return cfg, nil
}

// mergeKeys fills unbound actions from def.
func mergeKeys(keys, def KeysConfig) KeysConfig {
	pick := func(v, d []string) []string {
		if len(v) == 0 {
			return d
		}
		return v
	}
	return KeysConfig{
		Left:      pick(keys.Left, def.Left),
		Right:     pick(keys.Right, def.Right),
		SoftDrop:  pick(keys.SoftDrop, def.SoftDrop),
		HardDrop:  pick(keys.HardDrop, def.HardDrop),
		RotateCW:  pick(keys.RotateCW, def.RotateCW),
		RotateCCW: pick(keys.RotateCCW, def.RotateCCW),
		Hold:      pick(keys.Hold, def.Hold),
		Pause:     pick(keys.Pause, def.Pause),
		Restart:   pick(keys.Restart, def.Restart),
		Back:      pick(keys.Back, def.Back),
		Quit:      pick(keys.Quit, def.Quit),
	}
}

// userConfigPath returns the path to a user config file, or empty if home
// is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
