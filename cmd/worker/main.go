package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/studyatlas/backend/internal/db"
	"github.com/studyatlas/backend/internal/queue"
	"github.com/studyatlas/backend/internal/util"
	"github.com/studyatlas/backend/pkg/ai"
	oai "github.com/studyatlas/backend/pkg/ai/ollama"
	gai "github.com/studyatlas/backend/pkg/ai/openai"
	"github.com/studyatlas/backend/pkg/graph"
	"github.com/studyatlas/backend/pkg/logger"
	"github.com/studyatlas/backend/pkg/logger/console"
	pgstore "github.com/studyatlas/backend/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  util.GetEnvBool("DEBUG", false),
		Prefix: "worker",
		JSON:   util.GetEnvBool("LOG_JSON", false),
	})
	logger.Init(consoleLogger)

	databaseURL := util.GetEnv("DATABASE_URL")
	migrations := util.GetEnvString("MIGRATIONS_URL", "file://migrations")
	if err := db.MigrateUp(migrations, databaseURL); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	adapter := util.GetEnv("AI_ADAPTER")
	var aiClient ai.ConceptAIClient

	switch adapter {
	case "ollama":
		client, err := oai.NewConceptOllamaClient(oai.NewConceptOllamaClientParams{
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_MAX_CONCURRENT", 10)),
		})
		if err != nil {
			logger.Fatal("Could not create Ollama client", "err", err)
		}
		aiClient = client
	default:
		aiClient = gai.NewConceptOpenAIClient(gai.NewConceptOpenAIClientParams{
			ChatModel:       util.GetEnv("AI_CHAT_MODEL"),
			ExtractionModel: util.GetEnv("AI_EXTRACT_MODEL"),

			ChatURL: util.GetEnv("AI_CHAT_URL"),
			ChatKey: util.GetEnv("AI_CHAT_KEY"),
		})
	}

	var scorer graph.Scorer
	if util.GetEnvString("GRAPH_SCORER", "") == "mention_degree" {
		scorer = graph.NewMentionDegreeScorer()
	}

	graphClient, err := graph.NewGraphClient(graph.NewGraphClientParams{
		TokenEncoder:       util.GetEnvString("TOKEN_ENCODER", "o200k_base"),
		ChunkTokens:        int(util.GetEnvNumeric("GRAPH_CHUNK_TOKENS", 1600)),
		MaxNodes:           int(util.GetEnvNumeric("GRAPH_MAX_NODES", 12)),
		MinImportance:      int(util.GetEnvNumeric("GRAPH_MIN_IMPORTANCE", 3)),
		MaxEdges:           int(util.GetEnvNumeric("GRAPH_MAX_EDGES", 18)),
		ParallelAiRequests: int(util.GetEnvNumeric("GRAPH_PARALLEL_AI", 4)),
		MaxRetries:         int(util.GetEnvNumeric("GRAPH_MAX_RETRIES", 3)),
		OracleTimeout:      util.GetEnvDuration("GRAPH_ORACLE_TIMEOUT", 120*time.Second),
		RequireEvidence:    util.GetEnvBool("GRAPH_REQUIRE_EVIDENCE", false),
		Scorer:             scorer,
	})
	if err != nil {
		logger.Fatal("Could not create graph client", "err", err)
	}

	pgConn, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()
	st := pgstore.NewConceptDBStorage(pgConn)

	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	queues := []string{queue.DocumentQueue}
	if err := queue.SetupQueues(ch, queues); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	logger.Info("Listening for messages")

	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	// prefetch=1: one document at a time, per worker
	if err := consumerCh.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	type queuedMessage struct {
		msg       amqp.Delivery
		queueName string
	}

	messageChan := make(chan queuedMessage)

	for _, queueName := range queues {
		go func(qName string) {
			msgs, err := consumerCh.Consume(
				qName,
				fmt.Sprintf("%s_consumer", qName),
				false, // autoAck
				false, // exclusive
				false, // noLocal
				false, // noWait
				nil,   // args
			)
			if err != nil {
				logger.Fatal("Failed to start consuming", "queue", qName, "err", err)
			}

			for {
				select {
				case <-ctx.Done():
					logger.Info("Stopping consumer", "queue", qName)
					return
				case msg, ok := <-msgs:
					if !ok {
						logger.Info("Message channel closed", "queue", qName)
						return
					}
					messageChan <- queuedMessage{msg: msg, queueName: qName}
				}
			}
		}(queueName)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case qm := <-messageChan:
				startTime := time.Now()
				logger.Info("Received message", "queue", qm.queueName)

				err := queue.ProcessDocumentMessage(ctx, graphClient, aiClient, st, pgConn, string(qm.msg.Body))
				if err != nil {
					logger.Error("Error processing message", "queue", qm.queueName, "err", err)
					queue.HandleProcessingError(consumerCh, qm.msg, qm.queueName)
				} else {
					if err := qm.msg.Ack(false); err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", qm.queueName)
				}

				logger.Info("Processing time", "duration", time.Since(startTime).Round(time.Second).String())
				logger.Info("Waiting for next message")
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}
