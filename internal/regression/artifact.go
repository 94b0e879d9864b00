package regression

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"volatility-shock-lab/internal/atomicfile"
	"volatility-shock-lab/internal/domain"
)

// ArtifactVersion identifies the serialized artifact layout.
const ArtifactVersion = "1.0.0"

// Artifact is the persisted form of a fitted regression: coefficients plus
// metadata sufficient to regenerate predictions after reloading. Raw
// posterior draws are not persisted.
type Artifact struct {
	Version     string                   `json:"version"`
	GeneratedAt time.Time                `json:"generated_at"`
	Lag         int                      `json:"lag"`
	DetailLevel int                      `json:"detail_level"`
	Result      *domain.RegressionResult `json:"result"`
}

// Marshal serializes the artifact as indented JSON.
func (a *Artifact) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal regression artifact: %w", err)
	}
	return data, nil
}

// UnmarshalArtifact deserializes an artifact produced by Marshal.
func UnmarshalArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal regression artifact: %w", err)
	}
	if a.Result == nil {
		return nil, fmt.Errorf("unmarshal regression artifact: missing result")
	}
	return &a, nil
}

// WriteFile publishes the artifact atomically via a temp file and rename,
// so a partial failure never leaves a partially-written artifact.
func (a *Artifact) WriteFile(path string) error {
	data, err := a.Marshal()
	if err != nil {
		return err
	}
	if err := atomicfile.WriteFile(path, data); err != nil {
		return fmt.Errorf("write regression artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads and deserializes an artifact file.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regression artifact: %w", err)
	}
	return UnmarshalArtifact(data)
}
