// Command predict posts a match state to a running server's /predict
// endpoint and prints the response. Without -file it sends a sample state.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dotameta/metalab/internal/models"
)

func main() {
	url := flag.String("url", "http://localhost:8080", "server base URL")
	file := flag.String("file", "", "JSON file with the match state to score")
	flag.Parse()

	payload, err := requestBody(*file)
	if err != nil {
		log.Fatalf("Failed to build request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, *url+"/predict", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Response: %s\n", body)
		os.Exit(1)
	}

	var pred models.PredictResponse
	if err := json.Unmarshal(body, &pred); err != nil {
		log.Fatalf("Unexpected response %s: %v", body, err)
	}
	fmt.Printf("Winner: %s (confidence %.1f%%)\n", pred.PredictedWinner, pred.Confidence*100)
	fmt.Printf("Radiant: %.4f  Dire: %.4f\n", pred.RadiantWinProbability, pred.DireWinProbability)
}

func requestBody(file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	return json.Marshal(sampleRequest())
}

func sampleRequest() models.PredictRequest {
	return models.PredictRequest{
		RadiantHero1: 1, RadiantHero2: 2, RadiantHero3: 3, RadiantHero4: 4, RadiantHero5: 5,
		DireHero1: 6, DireHero2: 7, DireHero3: 8, DireHero4: 9, DireHero5: 10,
		Duration:     2400,
		RadiantKills: 30,
		DireKills:    20,
		RadiantGold:  60000,
		DireGold:     50000,
		RadiantXP:    70000,
		DireXP:       60000,
	}
}
