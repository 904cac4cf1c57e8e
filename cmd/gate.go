package cmd

import (
	"context"
	"fmt"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/constants/lipgloss"
	"github.com/ocscaffold/ocscaffold/utils"
)

// gatedTargets names what each gated generator produces in the index prompt.
var gatedTargets = map[string]string{
	"module": "modules",
	"ocmod":  "OCMod",
	"twig":   "Twig templates",
	"tpl":    "TPL templates",
}

func indexGateMessage(generatorName string) string {
	target, ok := gatedTargets[generatorName]
	if !ok {
		target = generatorName
	}
	return fmt.Sprintf("OpenCart files need to be indexed before generating %s.", target)
}

// ensureIndexed asks to index the source tree when that has not happened yet.
// Declining aborts silently; a failed index aborts with its error.
func ensureIndexed(ctx context.Context, rootDependencies *RootDependencies, message string, assumeYes bool) error {
	if rootDependencies.Indexer.IsIndexed() {
		return nil
	}

	if !assumeYes {
		accepted, ok, err := rootDependencies.Prompter.Confirm(ctx, utils.ConfirmPrompt{
			Key:     "index_now",
			Message: message,
			Confirm: "Index Now",
			Reject:  "Cancel",
		})
		if err != nil {
			return err
		}
		if !ok || !accepted {
			return app_errors.ErrUserCancelled
		}
	} else {
		fmt.Fprintln(rootDependencies.Out, lipgloss.Yellow.Render(message))
	}

	_, err := runIndex(ctx, rootDependencies)
	return err
}
