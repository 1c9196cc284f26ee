package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pricegen "github.com/goliatone/go-pricegen"
	"github.com/goliatone/go-pricegen/pkg/forms"
	"github.com/goliatone/go-pricegen/pkg/model"
	"github.com/goliatone/go-pricegen/pkg/predict"
	"github.com/goliatone/go-pricegen/pkg/render"
	gotemplate "github.com/goliatone/go-pricegen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-pricegen/pkg/renderers/tui"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict a car price interactively",
	Long: `Loads the prediction form seeded from the service schema example, shows
the first prediction and then lets you edit every field and predict again.`,
	RunE: runPredict,
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Add a labeled training row interactively",
	RunE:  runTrain,
}

var retrainCmd = &cobra.Command{
	Use:   "retrain",
	Short: "Ask the service to retrain its models",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		ack, err := client.RetrainModels(cmd.Context())
		if err != nil {
			logger.Error("retrain failed", zap.Error(err))
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "retrain requested (status %d)\n", ack.StatusCode)
		return err
	},
}

func newClient() (*predict.Client, error) {
	return predict.NewClient(cfg.ResolvedAPIURL(),
		predict.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		predict.WithLogger(logger),
	)
}

func newPrompter() (*tui.Renderer, error) {
	opts := []tui.Option{tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "})}
	if promptDriver != nil {
		opts = append(opts, tui.WithPromptDriver(promptDriver))
	}
	return tui.New(opts...)
}

func formOptions() []forms.Option {
	opts := []forms.Option{
		forms.WithLogger(logger),
		forms.WithBuilder(model.NewBuilder(model.WithLabeler(model.HumanLabeler))),
	}
	if cfg.SequencePredictions {
		opts = append(opts, forms.WithSequencing())
	}
	return opts
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := newClient()
	if err != nil {
		return err
	}
	prompter, err := newPrompter()
	if err != nil {
		return err
	}

	form := forms.NewPredictionForm(client, formOptions()...)
	defer form.Close()

	out, err := form.Load(ctx)
	if err != nil {
		return err
	}
	if err := reportOutcome(cmd, prompter, out); err != nil {
		return err
	}

	for {
		again, err := prompter.Confirm(ctx, "Edit the car and predict again?", true)
		if err != nil || !again {
			return ignoreAbort(err)
		}

		snap := form.Snapshot()
		values, err := prompter.Collect(ctx, snap.Form, render.RenderOptions{
			Values: snap.Data,
			Errors: snap.FieldErrors,
		})
		if err != nil {
			return ignoreAbort(err)
		}
		out, err := form.Apply(ctx, rawValues(snap.Form, values))
		if err != nil {
			return err
		}
		if err := reportOutcome(cmd, prompter, out); err != nil {
			return err
		}
	}
}

func runTrain(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client, err := newClient()
	if err != nil {
		return err
	}
	prompter, err := newPrompter()
	if err != nil {
		return err
	}

	form := forms.NewTrainingForm(client, formOptions()...)
	if err := form.Load(ctx); err != nil {
		return err
	}

	snap := form.Snapshot()
	values, err := prompter.Collect(ctx, snap.Form, render.RenderOptions{Values: snap.Data})
	if err != nil {
		return ignoreAbort(err)
	}
	for name, raw := range rawValues(snap.Form, values) {
		if _, err := form.Edit(name, raw); err != nil {
			return err
		}
	}

	ack, err := form.Submit(ctx)
	if err != nil {
		_ = prompter.Error(ctx, err.Error())
		return err
	}
	if err := prompter.Notify(ctx, ack); err != nil {
		return err
	}

	retrain, err := prompter.Confirm(ctx, "Retrain the models now?", false)
	if err != nil || !retrain {
		return ignoreAbort(err)
	}
	if _, err := form.Retrain(ctx); err != nil {
		logger.Error("retrain failed", zap.Error(err))
	}
	return nil
}

const resultsSummary = `Prediction Results
  Linear Regression: {{ lr|money }}
  XGBoost: {{ xgb|money }}
  MLP: {{ mlp|money }}
`

func reportOutcome(cmd *cobra.Command, prompter *tui.Renderer, out forms.Outcome) error {
	ctx := cmd.Context()
	switch {
	case out.Err != nil:
		return prompter.Error(ctx, out.Err.Error())
	case len(out.FieldErrors) > 0:
		for name, message := range out.FieldErrors {
			if err := prompter.Error(ctx, fmt.Sprintf("%s: %s", name, message)); err != nil {
				return err
			}
		}
		return nil
	case out.Result != nil:
		engine, err := gotemplate.New(gotemplate.WithFS(pricegen.EmbeddedTemplates()))
		if err != nil {
			return err
		}
		_, err = engine.RenderString(resultsSummary, map[string]any{
			"lr":  out.Result.LinearRegression,
			"xgb": out.Result.XGBoost,
			"mlp": out.Result.MLP,
		}, cmd.OutOrStdout())
		return err
	default:
		return nil
	}
}

// rawValues keeps the fields the form renders and formats them for Edit.
func rawValues(form model.FormModel, values model.FormData) map[string]string {
	out := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		if value, ok := values[field.Name]; ok {
			out[field.Name] = model.Format(value)
		}
	}
	return out
}

func ignoreAbort(err error) error {
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	return err
}
