package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"journal-insight/internal/config"
	"journal-insight/internal/domain"
	"journal-insight/internal/llm"
	"journal-insight/internal/service"
)

func main() {
	aiEnabled := flag.Bool("ai", false, "habilita la llamada al modelo remoto y la detección de distorsiones")
	toolkitPath := flag.String("toolkit", "", "archivo JSON con el toolkit emocional ([{\"emotion\":..., \"actions\":[...]}])")
	reframe := flag.Bool("reframe", false, "genera un pensamiento alternativo por cada distorsión detectada")
	flag.Parse()

	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	entry, err := readEntry(flag.Args(), os.Stdin)
	if err != nil {
		log.Fatalf("leer entrada: %v", err)
	}

	toolkit, err := loadToolkit(*toolkitPath)
	if err != nil {
		log.Fatalf("leer toolkit: %v", err)
	}

	llmClient, err := llm.NewClient(cfg.LLMProvider, cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, logger)
	if err != nil {
		log.Fatal(err)
	}

	scoring := service.ScoringFromConfig(cfg)
	picker := service.RandomPicker()
	analyzer := service.NewAIService(
		llmClient,
		service.NewEmotionDetector(scoring),
		service.NewDistortionDetector(scoring, logger),
		service.NewActivityGenerator(),
		service.NewReflectionGenerator(picker),
		service.NewMemoryCallLimiter(time.Hour, cfg.LLMCallsPerHour),
		service.AIServiceOptions{
			Timeout:     cfg.LLMAnalysisTimeout,
			Temperature: cfg.LLMTemperature,
			MaxTokens:   cfg.LLMMaxTokens,
			Structured:  llm.SupportsSchema(cfg.LLMProvider),
		},
		logger,
	)

	result := analyzer.AnalyzeEntry(ctx, entry, toolkit, *aiEnabled)

	out := struct {
		Analysis domain.AnalysisResult `json:"analysis"`
		Reframes map[string]string     `json:"reframes,omitempty"`
	}{Analysis: result}

	if *reframe && len(result.Distortions) > 0 {
		reframer := service.NewReframingService(llmClient, cfg.LLMReframeTimeout, picker, logger)
		out.Reframes = make(map[string]string, len(result.Distortions))
		for _, d := range result.Distortions {
			thought := entry
			if len(d.UserQuotes) > 0 {
				thought = d.UserQuotes[0]
			}
			out.Reframes[d.Type] = reframer.GenerateReframedThought(ctx, thought, d.Type, entry)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
}

// readEntry usa los argumentos si los hay; si no, lee stdin completo.
func readEntry(args []string, stdin io.Reader) (string, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		b, err := io.ReadAll(bufio.NewReader(stdin))
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(string(b))
	}
	if len([]rune(text)) < 3 {
		return "", fmt.Errorf("la entrada debe tener al menos 3 caracteres")
	}
	return text, nil
}

func loadToolkit(path string) ([]domain.EmotionalToolkitItem, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []domain.EmotionalToolkitItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("toolkit %s: %w", path, err)
	}
	return items, nil
}
