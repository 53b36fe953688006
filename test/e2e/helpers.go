//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/javariai/corpus/internal/api/handlers"
	"github.com/javariai/corpus/internal/fetch"
	"github.com/javariai/corpus/internal/jobs"
	"github.com/javariai/corpus/internal/normalize"
	"github.com/javariai/corpus/internal/openai"
	"github.com/javariai/corpus/internal/repository"
	"github.com/javariai/corpus/internal/server"
	"github.com/javariai/corpus/internal/service"
	"github.com/javariai/corpus/internal/testutil"
	"github.com/javariai/corpus/internal/verify"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T             *testing.T
	Ctx           context.Context
	PostgresC     *testutil.PostgresContainer
	Pool          *pgxpool.Pool
	ServerURL     string
	ServerCloser  func()
	ContentServer *httptest.Server
	BinaryDir     string
	HTTPClient    *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a database
// container, a content server hosting import fixtures, and the API
// server running in-process.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	contentServer := newContentServer()

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, port)

	return &E2ETestEnv{
		T:             t,
		Ctx:           ctx,
		PostgresC:     pgC,
		Pool:          pool,
		ServerURL:     serverURL,
		ServerCloser:  serverCloser,
		ContentServer: contentServer,
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.ContentServer != nil {
		e.ContentServer.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// stubEmbedder produces deterministic vectors so imports and search
// work without an OpenAI key.
type stubEmbedder struct{}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, openai.DefaultEmbeddingDimensions)
	for i := range vec {
		word := binary.BigEndian.Uint32(sum[(i*4)%28 : (i*4)%28+4])
		vec[i] = float32(word%1000)/1000.0 - 0.5
	}
	return vec, nil
}

func (s *stubEmbedder) ModelName() string {
	return "stub-embedding-model"
}

// newContentServer serves the fixtures that import jobs pull from.
func newContentServer() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/data.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "title,description,category\n")
		for i := 0; i < 10; i++ {
			fmt.Fprintf(w, "Grant program %d,Funding opportunity number %d for small businesses with detailed eligibility requirements and application instructions covering several paragraphs of text.,grants\n", i, i)
		}
	})

	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Forming an LLC</title></head><body>
<nav>Home | About</nav>
<article><h1>Forming an LLC</h1>
<p>A limited liability company protects its members from personal liability for business debts.
Most states require filing articles of organization with the secretary of state and paying a filing fee.
Many owners also appoint a registered agent to receive legal documents on behalf of the company.</p>
<p>Operating agreements are not always mandatory but they define ownership shares, voting rights,
and what happens when a member leaves. Without one, default state rules apply.</p>
</article>
<footer>Copyright</footer></body></html>`)
	})

	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Updates</title>
<item><title>New grant round opens</title><link>https://example.com/updates/spring-round</link>
<description>The spring funding round is now accepting applications from early stage companies.</description></item>
</channel></rss>`)
	})

	return httptest.NewServer(mux)
}

func startServer(t *testing.T, pool *pgxpool.Pool, port int) (string, func()) {
	knowledgeRepo := repository.NewKnowledgeRepository(pool)

	embedder := &stubEmbedder{}
	fetcher := fetch.NewFetcher(10 * time.Second)
	pageNormalizer := normalize.NewPageNormalizer(fetcher, 50)

	ingestSvc := service.NewIngestService(knowledgeRepo, embedder, fetcher, pageNormalizer, nil)
	searchSvc := service.NewSearchService(embedder, knowledgeRepo)
	statsSvc := service.NewStatsService(knowledgeRepo)

	registry := jobs.NewRegistry()
	orchestrator := jobs.NewOrchestrator(registry, ingestSvc, fetcher)

	cfg := server.RouterConfig{
		ImportJobHandler: handlers.NewImportJobHandler(orchestrator),
		RecordsHandler:   handlers.NewRecordsHandler(knowledgeRepo),
		StatsHandler:     handlers.NewStatsHandler(statsSvc),
		VerifyHandler:    handlers.NewVerifyHandler(verify.NewHarness(searchSvc)),
	}

	router := server.NewRouter(cfg)
	addr := fmt.Sprintf(":%d", port)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		orchestrator.Wait()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not become ready within %s", timeout)
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}) (*APIResponse, error) {
	return e.doRequest("POST", path, body)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (*APIResponse, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.ServerURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response (%d): %s", resp.StatusCode, respBody)
	}

	if resp.StatusCode >= 400 {
		return &apiResp, fmt.Errorf("status %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// WaitForJob polls a job until it reaches a terminal state.
func (e *E2ETestEnv) WaitForJob(jobID string, timeout time.Duration) map[string]interface{} {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := e.Get("/import-jobs/" + jobID)
		if err != nil {
			e.T.Fatalf("failed to poll job %s: %v", jobID, err)
		}

		var job map[string]interface{}
		if err := json.Unmarshal(resp.Data, &job); err != nil {
			e.T.Fatalf("failed to parse job: %v", err)
		}

		status, _ := job["status"].(string)
		if status == "completed" || status == "failed" {
			return job
		}
		time.Sleep(200 * time.Millisecond)
	}
	e.T.Fatalf("job %s did not finish within %s", jobID, timeout)
	return nil
}

// BuildBinaries builds the corpus and corpusd binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "corpus-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "corpusd"), "./cmd/corpusd")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build corpusd: %v\n%s", err, out)
	}

	cmd = exec.Command("go", "build", "-o", filepath.Join(tmpDir, "corpus"), "./cmd/corpus")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build corpus: %v\n%s", err, out)
	}
}

// RunCorpus runs the corpus CLI command against the test server.
func (e *E2ETestEnv) RunCorpus(args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "corpus"), args...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("CORPUS_API_URL=%s", e.ServerURL),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
