// Webhook relay Lambda entry point
package main

import (
	"time"

	"github.com/aws/aws-lambda-go/lambda"

	"lottery-tool-middleware/internal/config"
	"lottery-tool-middleware/internal/handlers"
	"lottery-tool-middleware/internal/services/relay"
	"lottery-tool-middleware/internal/services/transformer"
	"lottery-tool-middleware/internal/services/webhook"
	"lottery-tool-middleware/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.GetLogger().Fatal("Invalid configuration", utils.Error(err))
	}

	// Initialize logger
	_ = utils.InitLogger(cfg.LogLevel, cfg.LogFile)
	defer utils.Sync()

	client := webhook.NewClient(cfg.LotteryWebhookURL, cfg.LotteryWebhookToken, cfg.PowerAutomateWebhookURL, cfg.WebhookTimeout)
	rl := relay.New(client)
	server := handlers.NewServer(cfg, transformer.New(transformer.DefaultFieldMapping, cfg.Timezone), rl, client)

	// Relays finish within the invocation; allow both timeouts plus slack.
	adapter := handlers.NewLambdaAdapter(server.Routes(), rl, cfg.WebhookTimeout+5*time.Second)

	// Start Lambda
	lambda.Start(adapter.Handle)
}
