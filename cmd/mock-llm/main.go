// Package main implements a mock LLM server for offline development and
// e2e testing. It serves OpenAI-compatible /v1/chat/completions responses
// from JSON fixture files, routing by the advisory task recognized from the
// request's system prompt. This eliminates the need for a real model during
// wiring tests, making them fast, deterministic, and offline-capable.
//
// Usage:
//
//	mock-llm -fixtures /path/to/fixtures -port 11434
//
// Fixture files are JSON named by task (e.g., "research.json" answers market
// research requests). The file content is returned as the assistant message.
//
// Sequential fixtures: If numbered files exist (e.g., "research.1.json",
// "research.2.json"), the Nth call for that task returns the Nth fixture.
// After exhausting numbered fixtures, the base "research.json" is used as a
// repeating fallback. This enables testing the reject→correct→accept cycle.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// --- OpenAI-compatible types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// taskMarkers maps a fixture task name to the phrase that identifies its
// system prompt. All advisory tasks share one model, so routing happens on
// the persona line rather than the model field. Order matters: the first
// match wins, and extraction must be checked before onboarding since both
// mention the discovery conversation.
var taskMarkers = []struct {
	task   string
	marker string
}{
	{"research", "market research analyst"},
	{"names", "brand naming expert"},
	{"business-type", "business registration expert"},
	{"profile", "extracting structured data"},
	{"onboarding", "Business Discovery Assistant"},
	{"tasks", "business operations coach"},
	{"analysis", "two experts simultaneously"},
}

// recognizeTask maps a request to its fixture task name via the system
// prompt. Unrecognized requests fall through to the "default" fixture.
func recognizeTask(req chatRequest) string {
	var system string
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = m.Content
			break
		}
	}
	for _, tm := range taskMarkers {
		if strings.Contains(system, tm.marker) {
			return tm.task
		}
	}
	return "default"
}

// --- Server ---

// capturedRequest stores the key fields of an incoming request for test
// verification, notably the corrective turns appended on retries.
type capturedRequest struct {
	Task      string        `json:"task"`
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	CallIndex int           `json:"call_index"` // 1-indexed per-task call number
	Timestamp int64         `json:"timestamp"`
}

type server struct {
	fixtures map[string][]string // task name → ordered fixture contents
	calls    atomic.Int64        // total calls served

	// Per-task call counters for sequential fixture selection.
	taskCalls   map[string]*atomic.Int64
	taskCallsMu sync.Mutex // protects lazy init of taskCalls entries

	// Per-task request capture for retry-protocol verification.
	taskRequests   map[string][]capturedRequest
	taskRequestsMu sync.Mutex
}

func newServer(fixtures map[string][]string) *server {
	return &server{
		fixtures:     fixtures,
		taskCalls:    make(map[string]*atomic.Int64),
		taskRequests: make(map[string][]capturedRequest),
	}
}

// captureRequest stores a request for later retrieval via /requests endpoint.
func (s *server) captureRequest(task string, req chatRequest, callIndex int) {
	s.taskRequestsMu.Lock()
	defer s.taskRequestsMu.Unlock()
	s.taskRequests[task] = append(s.taskRequests[task], capturedRequest{
		Task:      task,
		Model:     req.Model,
		Messages:  req.Messages,
		CallIndex: callIndex,
		Timestamp: time.Now().UnixMilli(),
	})
}

// getTaskCounter returns the call counter for a task, creating it lazily.
func (s *server) getTaskCounter(task string) *atomic.Int64 {
	s.taskCallsMu.Lock()
	defer s.taskCallsMu.Unlock()
	if c, ok := s.taskCalls[task]; ok {
		return c
	}
	c := &atomic.Int64{}
	s.taskCalls[task] = c
	return c
}

func main() {
	fixtureDir := flag.String("fixtures", "", "directory containing fixture response files")
	port := flag.Int("port", 11434, "port to listen on")
	flag.Parse()

	// Allow env var override
	if envDir := os.Getenv("MOCK_LLM_FIXTURES"); envDir != "" && *fixtureDir == "" {
		*fixtureDir = envDir
	}
	if *fixtureDir == "" {
		*fixtureDir = "/fixtures"
	}

	fixtures, err := loadFixtures(*fixtureDir)
	if err != nil {
		log.Fatalf("Failed to load fixtures from %s: %v", *fixtureDir, err)
	}
	log.Printf("Loaded %d task(s) from %s", len(fixtures), *fixtureDir)
	for task, seq := range fixtures {
		log.Printf("  task: %s (%d fixture(s))", task, len(seq))
	}

	s := newServer(fixtures)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/requests", s.handleRequests)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Mock LLM server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	task := recognizeTask(req)
	callNum := s.calls.Add(1)
	log.Printf("[call %d] task=%s model=%s messages=%d", callNum, task, req.Model, len(req.Messages))

	seq, ok := s.fixtures[task]
	if !ok {
		seq, ok = s.fixtures["default"]
	}
	if !ok {
		log.Printf("[call %d] WARNING: no fixture for task=%q, returning error", callNum, task)
		http.Error(w, fmt.Sprintf("no fixture for task %q", task), http.StatusNotFound)
		return
	}

	// Select fixture from sequence based on per-task call count
	counter := s.getTaskCounter(task)
	callIndex := int(counter.Add(1) - 1) // 0-indexed

	// Capture request for retry-protocol verification (/requests endpoint)
	s.captureRequest(task, req, callIndex+1)
	var content string
	if callIndex < len(seq) {
		content = seq[callIndex]
	} else {
		content = seq[len(seq)-1] // repeat last fixture
	}

	log.Printf("[call %d] task=%s call_index=%d/%d", callNum, task, callIndex+1, len(seq))

	resp := chatResponse{
		ID:      fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{
			{
				Index: 0,
				Message: chatMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{
			PromptTokens:     len(content) / 4, // rough estimate
			CompletionTokens: len(content) / 4,
			TotalTokens:      len(content) / 2,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
	log.Printf("[call %d] responded with %d bytes for task=%s", callNum, len(content), task)
}

// handleStats returns call counts for test assertions.
// Returns total_calls and per-task calls_by_task breakdown.
func (s *server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.taskCallsMu.Lock()
	callsByTask := make(map[string]int64, len(s.taskCalls))
	for task, counter := range s.taskCalls {
		callsByTask[task] = counter.Load()
	}
	s.taskCallsMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"total_calls":   s.calls.Load(),
		"calls_by_task": callsByTask,
	})
}

// handleRequests returns captured request bodies for test assertions.
// Query params:
//   - task: filter by task name (optional, returns all tasks if omitted)
//   - call: filter by call index, 1-indexed (optional)
//
// Returns {"requests_by_task": {"research": [...], ...}}
func (s *server) handleRequests(w http.ResponseWriter, r *http.Request) {
	taskFilter := r.URL.Query().Get("task")
	callFilter := r.URL.Query().Get("call")

	s.taskRequestsMu.Lock()
	result := make(map[string][]capturedRequest)
	for task, reqs := range s.taskRequests {
		if taskFilter != "" && task != taskFilter {
			continue
		}
		if callFilter != "" {
			callIdx, err := strconv.Atoi(callFilter)
			if err == nil {
				for _, req := range reqs {
					if req.CallIndex == callIdx {
						result[task] = append(result[task], req)
					}
				}
				continue
			}
		}
		result[task] = reqs
	}
	s.taskRequestsMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"requests_by_task": result,
	})
}

// numberedFileRe matches files like "research.1.json", "names.2.json".
var numberedFileRe = regexp.MustCompile(`^(.+)\.(\d+)\.json$`)

// loadFixtures reads JSON files from dir and returns a map of task→content
// sequence.
//
// For each task, fixtures are ordered:
//  1. Numbered files (task.1.json, task.2.json, ...) in numeric order
//  2. Base file (task.json) appended as the final fallback
//
// If only task.json exists, the sequence has one entry.
func loadFixtures(dir string) (map[string][]string, error) {
	baseFiles := make(map[string]string)             // task → content
	numberedFiles := make(map[string]map[int]string) // task → {index → content}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		if !json.Valid(data) {
			return fmt.Errorf("invalid JSON in %s", path)
		}

		content := string(data)

		if matches := numberedFileRe.FindStringSubmatch(info.Name()); matches != nil {
			task := matches[1]
			index, _ := strconv.Atoi(matches[2])
			if numberedFiles[task] == nil {
				numberedFiles[task] = make(map[int]string)
			}
			numberedFiles[task][index] = content
			return nil
		}

		task := strings.TrimSuffix(info.Name(), ".json")
		baseFiles[task] = content
		return nil
	})

	if err != nil {
		return nil, err
	}

	fixtures := make(map[string][]string)

	allTasks := make(map[string]bool)
	for t := range baseFiles {
		allTasks[t] = true
	}
	for t := range numberedFiles {
		allTasks[t] = true
	}

	for task := range allTasks {
		var seq []string

		if numbered, ok := numberedFiles[task]; ok {
			indices := make([]int, 0, len(numbered))
			for idx := range numbered {
				indices = append(indices, idx)
			}
			sort.Ints(indices)

			for _, idx := range indices {
				seq = append(seq, numbered[idx])
			}
		}

		if base, ok := baseFiles[task]; ok {
			seq = append(seq, base)
		}

		if len(seq) > 0 {
			fixtures[task] = seq
		}
	}

	if len(fixtures) == 0 {
		return nil, fmt.Errorf("no fixture files found in %s", dir)
	}

	return fixtures, nil
}
