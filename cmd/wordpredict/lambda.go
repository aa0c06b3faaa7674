package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kitbuilder587/wordpredict/internal/config"
	"github.com/kitbuilder587/wordpredict/internal/lambdafn"
)

func lambdaCmd() *cli.Command {
	return &cli.Command{
		Name:   "lambda",
		Usage:  "Run as an AWS Lambda behind an API Gateway proxy integration (LAMBDA_PAYLOAD_VERSION picks 1.0 or 2.0 events)",
		Action: runLambda,
	}
}

func runLambda(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(ctx, nil)
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	h := lambdafn.NewHandler(a.predictor, a.logger)
	a.logger.Info("starting lambda", zap.String("payload_version", a.cfg.Lambda.PayloadVersion))
	if a.cfg.Lambda.PayloadVersion == config.PayloadV2 {
		lambda.StartWithOptions(h.HandleV2, lambda.WithContext(ctx))
		return nil
	}
	lambda.StartWithOptions(h.Handle, lambda.WithContext(ctx))
	return nil
}
