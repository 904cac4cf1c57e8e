package template_generator

import (
	"context"
	"fmt"

	"github.com/ocscaffold/ocscaffold/template_generator/contracts"
	"github.com/ocscaffold/ocscaffold/template_generator/models"
	"github.com/ocscaffold/ocscaffold/utils"
	"go.uber.org/zap"
)

// Options control one generator run.
type Options struct {
	OutputRoot string
	DryRun     bool
	Log        *zap.Logger
}

// Generate asks for the generator's answers, renders its artifacts and writes them.
// Nothing touches the disk until every prompt has been answered.
func Generate(ctx context.Context, generator contracts.IGenerator, prompter utils.Prompter, opts Options) (*models.Result, error) {
	req, err := generator.Collect(ctx, prompter)
	if err != nil {
		return nil, err
	}
	return Render(ctx, generator, req, opts)
}

// Render renders and writes the artifacts of an already collected request.
func Render(ctx context.Context, generator contracts.IGenerator, req *models.Request, opts Options) (*models.Result, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	artifacts, err := generator.Artifacts(req)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", generator.Name(), err)
	}

	result := &models.Result{
		Generator: generator.Name(),
		Request:   req,
		Base:      generator.Base(req, opts.OutputRoot),
		Artifacts: artifacts,
		DryRun:    opts.DryRun,
	}

	for _, artifact := range artifacts {
		if !isPHPArtifact(artifact.RelPath) {
			continue
		}
		if err := CheckPHPSyntax(ctx, []byte(artifact.Content)); err != nil {
			warning := fmt.Sprintf("%s: %v", artifact.RelPath, err)
			log.Debug("generated file does not parse", zap.String("path", artifact.RelPath), zap.Error(err))
			result.Warnings = append(result.Warnings, warning)
		}
	}

	if opts.DryRun {
		return result, nil
	}

	written, err := WriteArtifacts(result.Base, artifacts, log)
	result.Written = written
	if err != nil {
		return result, err
	}

	log.Debug("generated artifacts",
		zap.String("generator", generator.Name()),
		zap.String("base", result.Base),
		zap.Int("files", len(written)),
	)
	return result, nil
}
