package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-gridgen/pkg/form"
	"github.com/goliatone/go-gridgen/pkg/model"
)

// PromptModel asks for every form field in order and routes each answer
// through f.Edit, so interactive input gets the same boundary validation as
// the HTML form. Answers rejected by cross-field limits are reported through
// driver.Info and asked again. It returns whether the user wants to generate.
func PromptModel(ctx context.Context, driver PromptDriver, f *form.Form, limits model.Limits) (bool, error) {
	if driver == nil {
		return false, errors.New("terminal: prompt driver is required")
	}
	if f == nil {
		return false, errors.New("terminal: form is required")
	}
	if limits == (model.Limits{}) {
		limits = model.DefaultLimits()
	}

	view := f.View(form.ViewOptions{})
	for _, field := range view.Fields {
		if err := promptField(ctx, driver, f, field, limits); err != nil {
			return false, err
		}
	}

	generate, err := driver.Confirm(ctx, ConfirmConfig{
		Message: view.ButtonLabel + "?",
		Default: true,
	})
	if err != nil {
		return false, fmt.Errorf("terminal: confirm: %w", err)
	}
	return generate, nil
}

func promptField(ctx context.Context, driver PromptDriver, f *form.Form, field form.Field, limits model.Limits) error {
	current := field.Value
	for {
		answer, err := driver.Input(ctx, InputConfig{
			Message: field.Label,
			Default: current,
			Help:    fmt.Sprintf("whole number between %d and %d", field.Min, field.Max),
			Validator: func(raw string) error {
				_, err := model.ParseField(field.Name, raw, limits)
				return err
			},
		})
		if err != nil {
			return fmt.Errorf("terminal: prompt %s: %w", field.Name, err)
		}

		err = f.Edit(field.Name, answer)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrInvalidModel) {
			return fmt.Errorf("terminal: edit %s: %w", field.Name, err)
		}
		if err := driver.Info(ctx, err.Error()); err != nil {
			return err
		}
	}
}
