package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/custcare-agent/server/internal/agent"
	"github.com/custcare-agent/server/internal/agent/dispatch"
	"github.com/custcare-agent/server/internal/agent/guard"
	"github.com/custcare-agent/server/internal/agent/knowledge"
	"github.com/custcare-agent/server/internal/agent/llm"
	"github.com/custcare-agent/server/internal/agent/model"
	"github.com/custcare-agent/server/internal/agent/repo"
	"github.com/custcare-agent/server/internal/agent/session"
	"github.com/custcare-agent/server/internal/agent/tools"
	"github.com/custcare-agent/server/internal/core"
	logx "github.com/custcare-agent/server/pkg/logger"
	pkgredis "github.com/custcare-agent/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the service, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Chat         model.ChatModelConfig
	Embedding    model.EmbeddingConfig
	Session      model.SessionConfig
	Conversation model.ConversationConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	rdb := cfg.Redis.MustNew()
	defer rdb.Close()

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", cfg.Conversation.TTL, err)
	}
	timeout, err := time.ParseDuration(cfg.Session.GenerateTimeout)
	if err != nil {
		log.Fatalf("Invalid SESSION_GENERATE_TIMEOUT '%s': %v", cfg.Session.GenerateTimeout, err)
	}

	client, err := llm.NewClient(ctx, cfg.APIKey, cfg.BaseURL)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	// Knowledge base: embedding-backed store seeded with the built-in
	// customer-service documents.
	embedder := knowledge.NewGeminiEmbedder(client, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	store := knowledge.NewStore(embedder)
	if err := knowledge.Seed(ctx, store); err != nil {
		log.Fatalf("Failed to seed knowledge base: %v", err)
	}
	kb := knowledge.NewService(store)

	// Deterministic tool stores and the eino toolkit over them.
	orders := tools.NewOrderStore()
	products := tools.NewProductCatalog()
	toolkit := tools.QueryTools(orders, products, kb, store)

	chatModel, err := llm.NewChatModel(ctx, client, cfg.Chat)
	if err != nil {
		log.Fatalf("Failed to create chat model: %v", err)
	}
	toolInfos, err := tools.ToolInfos(ctx, toolkit)
	if err != nil {
		log.Fatalf("Failed to collect tool infos: %v", err)
	}
	if err := chatModel.BindTools(toolInfos); err != nil {
		log.Fatalf("Failed to bind tools: %v", err)
	}
	invokables, err := llm.InvokableTools(ctx, toolkit)
	if err != nil {
		log.Fatalf("Failed to index tools: %v", err)
	}

	conversations := repo.NewRedisConversationRepository(rdb, ttl)

	registry := session.NewRegistry(llm.NewFactory(llm.FactoryConfig{
		ChatModel:    chatModel,
		Tools:        invokables,
		Repo:         conversations,
		Timeout:      timeout,
		MaxToolCalls: cfg.Session.MaxToolCalls,
	}))

	svc := agent.NewService(registry, dispatch.NewDispatcher(products, kb), guard.NewGuard(orders, kb), conversations)

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Product feature inquiry (direct dispatch)",
			query:       "iPhone 15 Pro有什么特性？",
		},
		{
			description: "Warranty policy question (knowledge dispatch)",
			query:       "保修政策是什么？",
		},
		{
			description: "Order status with fallback safety net",
			query:       "帮我查询订单ORD001的状态",
		},
		{
			description: "Free-form chat through the generative agent",
			query:       "你们这里有什么推荐吗？",
		},
	}

	userID := "demo-user-001"

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)

		answer, err := svc.ProcessMessage(ctx, userID, test.query)
		if err != nil {
			log.Fatalf("Failed to process message for test %d: %v", i+1, err)
		}

		fmt.Printf("Answer %d: %s\n", i+1, answer.Text)
		fmt.Println("─────────────────────────────────────────────")

		time.Sleep(500 * time.Millisecond)
	}

	fmt.Printf("\nActive sessions: %d\n", svc.SessionCount())
	if err := svc.ClearSession(ctx, userID); err != nil {
		log.Fatalf("Failed to clear session: %v", err)
	}
	fmt.Printf("Active sessions after clear: %d\n", svc.SessionCount())
}
