// Command listmodels prints the Gemini models that can serve generateContent,
// for picking a DEFAULT_MODEL.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"blogsmith/internal/capabilities"
	"blogsmith/internal/config"

	"github.com/joho/godotenv"
	"github.com/tidwall/gjson"
)

const modelsEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// Model is one entry of the models listing
type Model struct {
	Name        string
	DisplayName string
	Catalogued  bool
}

func main() {
	all := flag.Bool("all", false, "Also list models that cannot generate content")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.GeminiAPIKey == "" {
		log.Fatalf("GEMINI_API_KEY is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	body, err := fetchModels(ctx, http.DefaultClient, modelsEndpoint, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to list models: %v", err)
	}

	catalog, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load model catalog: %v", err)
	}

	for _, m := range parseModels(body, !*all, catalog) {
		marker := " "
		if m.Catalogued {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %-40s %s\n", marker, m.Name, m.DisplayName)
	}
}

func fetchModels(ctx context.Context, client *http.Client, endpoint, apiKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?key="+url.QueryEscape(apiKey), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, gjson.GetBytes(body, "error.message").String())
	}
	return body, nil
}

// parseModels extracts models from a listing. Names lose their "models/"
// prefix; Catalogued marks models the server's catalog knows about.
func parseModels(body []byte, generateOnly bool, catalog *capabilities.Registry) []Model {
	var models []Model
	gjson.GetBytes(body, "models").ForEach(func(_, m gjson.Result) bool {
		if generateOnly && !supportsGenerate(m) {
			return true
		}
		name := m.Get("name").String()
		name = strings.TrimPrefix(name, "models/")
		_, err := catalog.GetModel(capabilities.DefaultCatalog, name)
		models = append(models, Model{
			Name:        name,
			DisplayName: m.Get("displayName").String(),
			Catalogued:  err == nil,
		})
		return true
	})
	return models
}

func supportsGenerate(m gjson.Result) bool {
	for _, method := range m.Get("supportedGenerationMethods").Array() {
		if method.String() == "generateContent" {
			return true
		}
	}
	return false
}
