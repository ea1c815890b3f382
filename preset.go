package postfx

import (
	"encoding/json"
	"fmt"
)

// MarshalPreset serializes a full effect config, hot and cold fields, for
// an external preset system. The format is stable JSON keyed by effect.
func MarshalPreset(cfg Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("postfx: marshal preset: %w", err)
	}
	return data, nil
}

// UnmarshalPreset parses a preset produced by MarshalPreset and validates
// it. Hot and cold fields round-trip exactly.
func UnmarshalPreset(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("postfx: unmarshal preset: %w", err)
	}
	if err := cfg.Bloom.validate(); err != nil {
		return Config{}, err
	}
	if err := cfg.Focus.validate(); err != nil {
		return Config{}, err
	}
	if err := cfg.Aberration.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyPreset replaces the pipeline's stored config with cfg. Hot fields
// take effect on the next Render; cold fields are stored and take effect
// after Rebuild, exactly as with the partial update calls. The replacement
// is atomic: on validation failure nothing changes.
func (p *Pipeline) ApplyPreset(cfg Config) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkUpdatableLocked(); err != nil {
		return err
	}
	if err := cfg.Bloom.validate(); err != nil {
		return err
	}
	if err := cfg.Focus.validate(); err != nil {
		return err
	}
	if err := cfg.Aberration.validate(); err != nil {
		return err
	}

	p.cfg = cfg
	p.params.syncBloom(cfg.Bloom)
	p.params.syncFocus(cfg.Focus)
	p.params.syncAberration(cfg.Aberration)
	return nil
}
