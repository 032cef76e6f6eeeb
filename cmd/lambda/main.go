package main

import (
	"context"
	"log"

	"blog/internal/app"
	"blog/internal/config"
	"blog/internal/lambdaproxy"
	"blog/internal/logging"

	"github.com/aws/aws-lambda-go/lambda"
)

// Тот же сервер за API Gateway; документ хранится в S3 (POSTS_BUCKET).
func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	cfg.Store.Backend = "s3"
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, false)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal(err.Error())
	}

	lambda.Start(lambdaproxy.Handler(a.Handler))
}
