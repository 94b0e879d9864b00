// Package main provides the artifact inspection tool.
// Loads a persisted regression artifact and prints its fit, optionally
// evaluating a prediction at a given detail-coefficient value.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"volatility-shock-lab/internal/domain"
	"volatility-shock-lab/internal/regression"
)

func main() {
	artifactPath := flag.String("artifact", "output/best_lag.json", "Path to a regression artifact")
	predictAt := flag.Float64("x", 0, "Shock detail-coefficient value to predict at (with --predict)")
	predict := flag.Bool("predict", false, "Evaluate the fit at --x")
	flag.Parse()

	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	artifact, err := regression.LoadArtifact(*artifactPath)
	if err != nil {
		logger.Fatalf("Failed to load artifact: %v", err)
	}
	if artifact.Result == nil {
		logger.Fatalf("Artifact %s has no fit result", *artifactPath)
	}

	res := artifact.Result

	fmt.Printf("Artifact:      %s (version %s)\n", *artifactPath, artifact.Version)
	fmt.Printf("Generated at:  %s\n", artifact.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Lag:           %d months\n", artifact.Lag)
	fmt.Printf("Detail level:  %d\n", artifact.DetailLevel)
	fmt.Printf("Method:        %s\n", res.Method)
	fmt.Println()
	fmt.Printf("Intercept:     %.6f (se %.6f)\n", res.Intercept, res.InterceptStderr)
	fmt.Printf("Slope:         %.6f (se %.6f)\n", res.Slope, res.SlopeStderr)
	fmt.Printf("Sigma:         %.6f\n", res.Sigma)
	fmt.Printf("R-squared:     %.6f\n", res.RSquared)
	fmt.Printf("Sample size:   %d\n", res.SampleSize)
	fmt.Printf("AIC:           %.4f\n", res.AIC)
	fmt.Printf("BIC:           %.4f\n", res.BIC)
	if res.Method == domain.FitMethodBayes {
		fmt.Printf("DIC:           %.4f\n", res.DIC)
	}
	if res.PriorApplied && res.Prior != nil {
		fmt.Printf("Prior:         coef scale %.4f, sigma rate %.4f\n", res.Prior.CoefScale, res.Prior.SigmaRate)
	}

	if *predict {
		fmt.Println()
		fmt.Printf("Predicted volatility detail at x=%.6f: %.6f\n", *predictAt, res.Predict(*predictAt))
	}
}
