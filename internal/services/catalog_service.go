package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	gocache "github.com/patrickmn/go-cache"
)

// SearchResult is one scored catalog match.
type SearchResult struct {
	Content        string  `json:"content"`
	RelevanceScore float64 `json:"relevance_score"`
	Source         string  `json:"source"`
}

// collectionKeywords gives each collection a bonus vocabulary applied
// on top of raw query matching.
var collectionKeywords = map[string][]string{
	"catalog":  nil,
	"programs": {"program", "certificate", "degree", "major", "track"},
	"courses":  {"course", "class", "credit", "prerequisite", "corequisite"},
	"policies": {"policy", "procedure", "rule", "regulation", "requirement"},
	"costs":    {"tuition", "cost", "fee", "payment", "financial"},
}

// CatalogService answers keyword searches over the college catalog.
// The catalog is loaded once at startup and split into page-sized
// chunks; query results are cached because advisory sessions tend to
// repeat the same handful of lookups.
type CatalogService struct {
	chunks []catalogChunk
	source string
	cache  *gocache.Cache
}

type catalogChunk struct {
	text    string
	lowered string
	locator string
}

// NewCatalogService loads the catalog document at path. PDF files are
// extracted page by page; anything else is read as plain text and
// split on blank lines. Returns an error when the file cannot be
// loaded; callers treat a missing catalog as an optional feature and
// run without one.
func NewCatalogService(path string) (*CatalogService, error) {
	var chunks []catalogChunk
	var err error

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		chunks, err = loadPDFChunks(path)
	} else {
		chunks, err = loadTextChunks(path)
	}
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("catalog %s contained no extractable text", path)
	}

	log.Printf("📖 [CATALOG] Loaded %d chunks from %s", len(chunks), path)
	return &CatalogService{
		chunks: chunks,
		source: filepath.Base(path),
		cache:  gocache.New(30*time.Minute, 10*time.Minute),
	}, nil
}

func loadPDFChunks(path string) ([]catalogChunk, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog PDF: %w", err)
	}
	defer f.Close()

	var chunks []catalogChunk
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("⚠️ [CATALOG] Skipping unreadable page %d: %v", i, err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		chunks = append(chunks, catalogChunk{
			text:    text,
			lowered: strings.ToLower(text),
			locator: fmt.Sprintf("page %d", i),
		})
	}
	return chunks, nil
}

func loadTextChunks(path string) ([]catalogChunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var chunks []catalogChunk
	for i, block := range strings.Split(string(data), "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		chunks = append(chunks, catalogChunk{
			text:    block,
			lowered: strings.ToLower(block),
			locator: fmt.Sprintf("section %d", i+1),
		})
	}
	return chunks, nil
}

// Search scores every chunk against the query and returns the topK
// best matches in descending relevance order. Unknown collections fall
// back to plain catalog search.
func (s *CatalogService) Search(query, collection string, topK int) []SearchResult {
	if topK <= 0 {
		topK = 5
	}
	if _, ok := collectionKeywords[collection]; !ok {
		collection = "catalog"
	}

	cacheKey := fmt.Sprintf("%s|%s|%d", strings.ToLower(query), collection, topK)
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.([]SearchResult)
	}

	queryLower := strings.ToLower(query)
	bonusKeywords := collectionKeywords[collection]

	var results []SearchResult
	for _, chunk := range s.chunks {
		// Bonuses only rank chunks the query actually hit; they never
		// pull in a chunk on their own.
		hits := strings.Count(chunk.lowered, queryLower)
		if hits == 0 {
			continue
		}
		score := float64(hits) * 3
		for _, kw := range bonusKeywords {
			if strings.Contains(chunk.lowered, kw) {
				score += 2
			}
		}
		if strings.Contains(chunk.text, "Program:") || strings.Contains(chunk.text, "Course:") || strings.Contains(chunk.text, "Policy:") {
			score++
		}
		results = append(results, SearchResult{
			Content:        extractSnippet(chunk.text, queryLower),
			RelevanceScore: score,
			Source:         s.source + ", " + chunk.locator,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > topK {
		results = results[:topK]
	}

	s.cache.Set(cacheKey, results, gocache.DefaultExpiration)
	return results
}

// extractSnippet pulls up to two sentences mentioning the query, each
// with one sentence of surrounding context. When the query only
// matched across sentence boundaries the chunk head is returned
// instead.
func extractSnippet(text, queryLower string) string {
	sentences := strings.Split(text, ".")

	var matches []string
	for i, sentence := range sentences {
		if !strings.Contains(strings.ToLower(sentence), queryLower) {
			continue
		}
		start := i - 1
		if start < 0 {
			start = 0
		}
		end := i + 2
		if end > len(sentences) {
			end = len(sentences)
		}
		matches = append(matches, strings.TrimSpace(strings.Join(sentences[start:end], ". ")))
		if len(matches) == 2 {
			break
		}
	}

	if len(matches) > 0 {
		return strings.Join(matches, " [...] ")
	}
	if len(text) > 500 {
		return text[:500]
	}
	return text
}

// ChunkCount returns how many chunks the catalog was split into.
func (s *CatalogService) ChunkCount() int {
	return len(s.chunks)
}
