package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/services"
)

// Scores every sample pair found in the samples directory. A pair is a
// <name>.resume.json plus a <name>.job.json holding the structured
// entities the API accepts on the synchronous endpoint.
func main() {
	samplesDir := flag.String("samples", "./samples", "directory with <name>.resume.json / <name>.job.json pairs")
	rubricPath := flag.String("rubric", "", "optional rubric config file")
	flag.Parse()

	log.Println("🚀 Scoring sample pairs...")

	rubric, err := config.LoadRubric(*rubricPath)
	if err != nil {
		log.Fatalf("❌ Failed to load rubric: %v", err)
	}

	zapLogger, err := logger.New(false, false)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	confidence := services.NewConfidenceService()
	pipeline := services.NewPipelineService(
		services.NewNormalizerService(),
		services.NewScorerService(rubric),
		confidence,
		services.NewDecisionService(rubric, confidence),
		services.NewSummaryService(),
		services.NewActionDispatcher(services.NewLogSender(zapLogger), zapLogger),
		zapLogger,
	)

	names, err := samplePairs(*samplesDir)
	if err != nil {
		log.Fatalf("❌ Failed to scan samples: %v", err)
	}
	if len(names) == 0 {
		log.Fatalf("❌ No sample pairs found in %s", *samplesDir)
	}

	ctx := context.Background()
	failCount := 0

	for _, name := range names {
		log.Printf("\n📄 Scoring: %s", name)

		resume, err := readEntity(filepath.Join(*samplesDir, name+".resume.json"))
		if err != nil {
			log.Printf("   ❌ %v", err)
			failCount++
			continue
		}

		job, err := readEntity(filepath.Join(*samplesDir, name+".job.json"))
		if err != nil {
			log.Printf("   ❌ %v", err)
			failCount++
			continue
		}

		result, err := pipeline.Run(ctx, resume, job, nil)
		if err != nil {
			log.Printf("   ❌ Evaluation failed: %v", err)
			failCount++
			continue
		}

		log.Printf("   ✅ Score: %.2f | Decision: %s", result.TotalScore, result.Decision)
		log.Printf("   💬 %s", result.DecisionReason)
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Scored %d pairs, %d failed", len(names), failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		os.Exit(1)
	}
}

func samplePairs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(entry.Name(), ".resume.json")
		if !ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, name+".job.json")); err == nil {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

func readEntity(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entity map[string]interface{}
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, err
	}
	return entity, nil
}
