package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-signal-pipeline/internal/entity"
	"stock-signal-pipeline/internal/sentiment/config"
	"stock-signal-pipeline/internal/sentiment/dto"
	"stock-signal-pipeline/pkg/logger"
)

func newFinBERTUnderTest(t *testing.T, baseURL string, chunkWords int) SentimentAnalyzerRepository {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.FinBERT.BaseURL = baseURL
	cfg.FinBERT.MaxRequestPerMinute = 60000
	cfg.FinBERT.ChunkWords = chunkWords
	cfg.FinBERT.CacheTTL = time.Minute

	repo, err := NewFinBERTRepository(cfg, log)
	require.NoError(t, err)
	return repo
}

func classScores(negative, neutral, positive float64) []dto.FinBERTClassScore {
	return []dto.FinBERTClassScore{
		{Label: "negative", Score: negative},
		{Label: "neutral", Score: neutral},
		{Label: "positive", Score: positive},
	}
}

func TestScoreParsesClassDistribution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.FinBERTRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Profit beats estimates", req.Inputs)

		_ = json.NewEncoder(w).Encode(dto.FinBERTResponse{classScores(0.05, 0.15, 0.8)})
	}))
	defer server.Close()

	repo := newFinBERTUnderTest(t, server.URL, 400)

	score, err := repo.Score(context.Background(), 1, "Profit beats estimates")
	require.NoError(t, err)
	assert.InDelta(t, 0.05, score.Negative, 1e-9)
	assert.InDelta(t, 0.15, score.Neutral, 1e-9)
	assert.InDelta(t, 0.8, score.Positive, 1e-9)
	assert.Equal(t, entity.SentimentPositive, score.Dominant)
	assert.InDelta(t, 0.8, score.Confidence, 1e-9)
}

func TestScoreNormalizesUnnormalizedDistribution(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(dto.FinBERTResponse{classScores(2, 1, 1)})
	}))
	defer server.Close()

	repo := newFinBERTUnderTest(t, server.URL, 400)

	score, err := repo.Score(context.Background(), 2, "Mixed headline")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, score.Negative, 1e-9)
	assert.InDelta(t, 0.25, score.Neutral, 1e-9)
	assert.InDelta(t, 0.25, score.Positive, 1e-9)
	assert.Equal(t, entity.SentimentNegative, score.Dominant)
	assert.InDelta(t, 0.5, score.Confidence, 1e-9)
}

func TestScoreAveragesChunks(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var req dto.FinBERTRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		switch req.Inputs {
		case "alpha beta":
			_ = json.NewEncoder(w).Encode(dto.FinBERTResponse{classScores(0.0, 0.1, 0.9)})
		case "gamma delta":
			_ = json.NewEncoder(w).Encode(dto.FinBERTResponse{classScores(0.2, 0.3, 0.5)})
		default:
			assert.Failf(t, "unexpected chunk", "inputs: %q", req.Inputs)
		}
	}))
	defer server.Close()

	repo := newFinBERTUnderTest(t, server.URL, 2)

	score, err := repo.Score(context.Background(), 3, "alpha beta gamma delta")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.InDelta(t, 0.1, score.Negative, 1e-9)
	assert.InDelta(t, 0.2, score.Neutral, 1e-9)
	assert.InDelta(t, 0.7, score.Positive, 1e-9)
	assert.Equal(t, entity.SentimentPositive, score.Dominant)
	assert.InDelta(t, 0.7, score.Confidence, 1e-9)
}

func TestScoreErrorStatusFailsScoring(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model is loading", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	repo := newFinBERTUnderTest(t, server.URL, 400)

	_, err := repo.Score(context.Background(), 4, "anything at all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestScoreCachesByNewsID(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(dto.FinBERTResponse{classScores(0.1, 0.2, 0.7)})
	}))
	defer server.Close()

	repo := newFinBERTUnderTest(t, server.URL, 400)

	first, err := repo.Score(context.Background(), 9, "Dividend raised")
	require.NoError(t, err)

	second, err := repo.Score(context.Background(), 9, "a different text for the same item")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, *first, *second)
}

func TestScoreEmptyText(t *testing.T) {
	repo := newFinBERTUnderTest(t, "http://finbert.invalid", 400)

	_, err := repo.Score(context.Background(), 10, "   ")
	require.Error(t, err)
}

func TestChunkWords(t *testing.T) {
	assert.Nil(t, chunkWords("", 3))
	assert.Equal(t, []string{"a b c"}, chunkWords(" a  b\tc ", 0))
	assert.Equal(t, []string{"a b", "c"}, chunkWords("a b c", 2))
}
