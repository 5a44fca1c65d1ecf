// Package mcp provides an MCP (Model Context Protocol) server for vectra.
// This allows AI agents to vectorize and explore document collections
// through MCP tools instead of CLI commands.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vectra-ml/vectra/internal/config"
	"github.com/vectra-ml/vectra/internal/encoder"
	"github.com/vectra-ml/vectra/internal/explorer"
	"github.com/vectra-ml/vectra/internal/keywords"
	"github.com/vectra-ml/vectra/internal/model"
	"github.com/vectra-ml/vectra/internal/store"
	"github.com/vectra-ml/vectra/internal/tokenizer"
	"github.com/vectra-ml/vectra/internal/vectorizer"
)

// Server wraps the MCP server with vectra-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	cfg          *config.Config
	store        *store.Store
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools   []string      // Which tools to expose (empty = all)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
}

// AllTools lists all available tools
var AllTools = []string{"vectra_vectorize", "vectra_cluster", "vectra_keywords", "vectra_collections"}

// New creates a new MCP server for vectra
func New(cfg Config) (*Server, error) {
	vectraDir, err := config.FindConfigDir(".")
	if err != nil {
		return nil, fmt.Errorf("vectra not initialized: run 'vectra init' first")
	}

	appCfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}

	storeDB, err := store.Open(vectraDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	mcpServer := server.NewMCPServer(
		"vectra",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		cfg:          appCfg,
		store:        storeDB,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			storeDB.Close()
			return nil, fmt.Errorf("failed to register tool %s: %w", toolName, err)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	switch name {
	case "vectra_vectorize":
		return s.registerVectorizeTool()
	case "vectra_cluster":
		return s.registerClusterTool()
	case "vectra_keywords":
		return s.registerKeywordsTool()
	case "vectra_collections":
		return s.registerCollectionsTool()
	default:
		return fmt.Errorf("unknown tool: %s", name)
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "vectra serve: timeout after %v of inactivity\n", s.timeout)
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// Close closes the server and its resources
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// ListTools returns the list of registered tools
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for t := range s.tools {
		tools = append(tools, t)
	}
	sort.Strings(tools)
	return tools
}

// Tool registration

// registerVectorizeTool registers the vectra_vectorize tool
func (s *Server) registerVectorizeTool() error {
	tool := mcp.NewTool("vectra_vectorize",
		mcp.WithDescription("Encode a document collection into sentence vectors and store it under a name."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("File with one document per line, or a directory of .txt files"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Collection name to store the vectors under"),
		),
		mcp.WithString("model",
			mcp.Description("Model to encode with (default from config)"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleVectorize)
	return nil
}

// registerClusterTool registers the vectra_cluster tool
func (s *Server) registerClusterTool() error {
	tool := mcp.NewTool("vectra_cluster",
		mcp.WithDescription("Partition a stored collection into k clusters and record a label per document."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Collection name to cluster"),
		),
		mcp.WithNumber("k",
			mcp.Description("Number of clusters (default: 6)"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleCluster)
	return nil
}

// registerKeywordsTool registers the vectra_keywords tool
func (s *Server) registerKeywordsTool() error {
	tool := mcp.NewTool("vectra_keywords",
		mcp.WithDescription("Extract descriptive keywords for each cluster of a labeled collection."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Collection name, previously clustered"),
		),
		mcp.WithNumber("top",
			mcp.Description("Keywords per cluster (default from config)"),
		),
		mcp.WithString("lang",
			mcp.Description("Stopword language: fr or en (default from config)"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleKeywords)
	return nil
}

// registerCollectionsTool registers the vectra_collections tool
func (s *Server) registerCollectionsTool() error {
	tool := mcp.NewTool("vectra_collections",
		mcp.WithDescription("List stored document collections with model, vector width and document count."),
	)

	s.mcpServer.AddTool(tool, s.handleCollections)
	return nil
}

// Tool handlers

func (s *Server) handleVectorize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	path, _ := args["path"].(string)
	name, _ := args["name"].(string)
	modelKey, _ := args["model"].(string)
	if path == "" || name == "" {
		return mcp.NewToolResultError("path and name are required"), nil
	}

	docs, err := loadDocuments(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	v, desc, err := s.newVectorizer(modelKey)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := vectorizer.DefaultOptions()
	opts.MaxLen = s.cfg.Vectorize.MaxLen
	opts.BatchSize = s.cfg.Vectorize.BatchSize
	opts.Layers = vectorizer.Layer(s.cfg.Vectorize.Layer)
	opts.WordPooling = s.cfg.Vectorize.WordPooling
	opts.SentencePooling = s.cfg.Vectorize.SentencePooling

	vectors, err := v.Vectorize(ctx, docs, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.store.SaveCollection(name, desc.Key, docs, vectors); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]interface{}{
		"collection": name,
		"model":      desc.Key,
		"documents":  len(docs),
		"dim":        len(vectors[0]),
	})
}

func (s *Server) handleCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	k := 6
	if raw, ok := args["k"].(float64); ok {
		k = int(raw)
	}

	docs, vectors, err := s.store.LoadCollection(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	e, err := explorer.New(docs, vectors)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	labels, err := e.Cluster(k)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.SaveLabels(name, labels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	return jsonResult(map[string]interface{}{
		"collection": name,
		"k":          k,
		"sizes":      sizes,
	})
}

func (s *Server) handleKeywords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	name, _ := args["name"].(string)
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	top := s.cfg.Explore.TopN
	if raw, ok := args["top"].(float64); ok {
		top = int(raw)
	}
	lang, _ := args["lang"].(string)
	if lang == "" {
		lang = s.cfg.Explore.Language
	}

	docs, vectors, err := s.store.LoadCollection(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	labels, err := s.store.LoadLabels(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	e, err := explorer.New(docs, vectors)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := e.SetLabels(labels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stop, err := keywords.StopWords(lang)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ranker := keywords.NewRake(stop)
	ranker.MinFreq = s.cfg.Explore.MinFreq

	byCluster, err := e.Keywords(ranker, top)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(byCluster)
}

func (s *Server) handleCollections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	cols, err := s.store.ListCollections()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := make([]map[string]interface{}, 0, len(cols))
	for _, c := range cols {
		out = append(out, map[string]interface{}{
			"name":       c.Name,
			"model":      c.Model,
			"dim":        c.Dim,
			"documents":  c.Count,
			"created_at": c.CreatedAt,
		})
	}
	return jsonResult(out)
}

// newVectorizer wires tokenizer and encoder for a model key.
func (s *Server) newVectorizer(modelKey string) (*vectorizer.Vectorizer, model.Descriptor, error) {
	registry := model.DefaultRegistry()
	if modelKey == "" {
		modelKey = s.cfg.Models.Default
	}
	desc, err := registry.Resolve(modelKey)
	if err != nil {
		return nil, model.Descriptor{}, err
	}

	libPath := encoder.LocateRuntime(s.cfg.Runtime.OnnxLibrary)
	if err := encoder.InitRuntime(libPath); err != nil {
		return nil, model.Descriptor{}, err
	}

	sub, err := tokenizer.LoadSubword(desc, s.cfg.Models.Dir)
	if err != nil {
		return nil, model.Descriptor{}, err
	}

	open := func(layers []int) (encoder.Session, error) {
		return encoder.OpenONNX(desc, s.cfg.Models.Dir, layers)
	}
	return vectorizer.New(tokenizer.NewAdapter(sub, desc), open, desc), desc, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
