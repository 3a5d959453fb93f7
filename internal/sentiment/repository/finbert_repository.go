package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"stock-signal-pipeline/internal/sentiment/config"
	"stock-signal-pipeline/internal/sentiment/dto"
	"stock-signal-pipeline/pkg/logger"
)

// finbertRepository scores text against a FinBERT text-classification
// inference endpoint. Long text is split into word chunks, scored chunk by
// chunk and averaged, since the model truncates long sequences.
type finbertRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	scoreCache     *cache.Cache
}

// NewFinBERTRepository creates a new instance of the FinBERT-backed
// SentimentAnalyzerRepository.
func NewFinBERTRepository(cfg *config.Config, log *logger.Logger) (SentimentAnalyzerRepository, error) {
	if cfg.FinBERT.BaseURL == "" {
		return nil, fmt.Errorf("finbert base_url is not configured")
	}

	secondsPerRequest := time.Minute / time.Duration(cfg.FinBERT.MaxRequestPerMinute)
	return &finbertRepository{
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		scoreCache:     cache.New(cfg.FinBERT.CacheTTL, 2*cfg.FinBERT.CacheTTL),
	}, nil
}

// Score returns the averaged per-class distribution for the given text.
func (r *finbertRepository) Score(ctx context.Context, newsID int64, text string) (*dto.SentimentScore, error) {
	cacheKey := strconv.FormatInt(newsID, 10)
	if cached, found := r.scoreCache.Get(cacheKey); found {
		score := cached.(dto.SentimentScore)
		return &score, nil
	}

	chunks := chunkWords(text, r.cfg.FinBERT.ChunkWords)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no text to score for news %d", newsID)
	}

	scores := make([]dto.SentimentScore, 0, len(chunks))
	for _, chunk := range chunks {
		score, err := r.scoreChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		scores = append(scores, *score)
	}

	result := dto.AverageScores(scores)
	r.scoreCache.Set(cacheKey, result, cache.DefaultExpiration)
	return &result, nil
}

func (r *finbertRepository) scoreChunk(ctx context.Context, chunk string) (*dto.SentimentScore, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload, err := json.Marshal(dto.FinBERTRequest{Inputs: chunk})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.FinBERT.BaseURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call inference endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("inference endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var inference dto.FinBERTResponse
	if err := json.NewDecoder(resp.Body).Decode(&inference); err != nil {
		return nil, fmt.Errorf("failed to decode inference response: %w", err)
	}
	if len(inference) == 0 || len(inference[0]) == 0 {
		return nil, fmt.Errorf("inference response contained no class scores")
	}

	var score dto.SentimentScore
	for _, class := range inference[0] {
		switch strings.ToLower(class.Label) {
		case "negative":
			score.Negative = class.Score
		case "neutral":
			score.Neutral = class.Score
		case "positive":
			score.Positive = class.Score
		default:
			r.logger.Warn("unknown sentiment label from inference endpoint",
				logger.StringField("label", class.Label))
		}
	}
	score.Normalize()
	score.Finalize()
	return &score, nil
}

// chunkWords splits text into chunks of at most size words. A non-positive
// size means no chunking.
func chunkWords(text string, size int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 || len(words) <= size {
		return []string{strings.Join(words, " ")}
	}

	var chunks []string
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}
