package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/kitbuilder587/wordpredict/internal/domain"
	"github.com/kitbuilder587/wordpredict/internal/service"
)

func predictCmd() *cli.Command {
	var target string

	return &cli.Command{
		Name:      "predict",
		Usage:     "Run a single prediction and print the JSON response",
		ArgsUsage: "WORD [WORD...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "target",
				Aliases:     []string{"t"},
				Usage:       "target word that must appear in the candidates",
				Destination: &target,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := setup(ctx, nil)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			payload, err := json.Marshal(domain.PredictionRequest{
				CurrentWords: cmd.Args().Slice(),
				TargetWord:   target,
			})
			if err != nil {
				return fmt.Errorf("encode request: %w", err)
			}

			status, body := service.Render(a.predictor.Predict(ctx, payload))
			fmt.Fprintln(os.Stdout, string(body))
			if status != http.StatusOK {
				return errors.New("prediction failed")
			}
			return nil
		},
	}
}
