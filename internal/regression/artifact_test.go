package regression

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"volatility-shock-lab/internal/domain"
)

func testArtifact() *Artifact {
	return &Artifact{
		Version:     ArtifactVersion,
		GeneratedAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
		Lag:         2,
		DetailLevel: 1,
		Result: &domain.RegressionResult{
			Method:        domain.FitMethodBayes,
			Intercept:     0.12,
			Slope:         -0.85,
			Sigma:         1.4,
			RSquared:      0.31,
			SampleSize:    47,
			LogLikelihood: -80.2,
			AIC:           166.4,
			BIC:           171.9,
			DIC:           165.1,
			PriorApplied:  true,
			Prior:         &domain.PriorConfig{CoefScale: 10, SigmaRate: 1},
		},
	}
}

func TestArtifact_RoundTrip(t *testing.T) {
	original := testArtifact()

	data, err := original.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	loaded, err := UnmarshalArtifact(data)
	if err != nil {
		t.Fatalf("UnmarshalArtifact failed: %v", err)
	}

	if loaded.Lag != original.Lag || loaded.DetailLevel != original.DetailLevel {
		t.Errorf("metadata changed in round trip: %+v", loaded)
	}
	if loaded.Result.Slope != original.Result.Slope || loaded.Result.Intercept != original.Result.Intercept {
		t.Errorf("coefficients changed in round trip: %+v", loaded.Result)
	}
	if loaded.Result.Prior == nil || *loaded.Result.Prior != *original.Result.Prior {
		t.Errorf("prior changed in round trip: %+v", loaded.Result.Prior)
	}

	// Reloaded artifact must regenerate predictions.
	if loaded.Result.Predict(2) != original.Result.Predict(2) {
		t.Error("reloaded artifact predicts differently")
	}
}

func TestArtifact_WriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "regression.json")

	if err := testArtifact().WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := LoadArtifact(path)
	if err != nil {
		t.Fatalf("LoadArtifact failed: %v", err)
	}
	if loaded.Result.Slope != -0.85 {
		t.Errorf("expected slope -0.85, got %f", loaded.Result.Slope)
	}

	// No temp files left behind after publication.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestUnmarshalArtifact_MissingResult(t *testing.T) {
	_, err := UnmarshalArtifact([]byte(`{"version":"1.0.0","lag":0}`))
	if err == nil {
		t.Fatal("expected error for artifact without result")
	}
}
