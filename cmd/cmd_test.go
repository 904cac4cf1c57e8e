package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ocscaffold/ocscaffold/app_errors"
	"github.com/ocscaffold/ocscaffold/config"
	"github.com/ocscaffold/ocscaffold/panel"
	"github.com/ocscaffold/ocscaffold/structure_indexer"
	"github.com/ocscaffold/ocscaffold/structure_indexer/models"
	"github.com/ocscaffold/ocscaffold/template_generator"
	"github.com/ocscaffold/ocscaffold/template_generator/contracts"
	"github.com/ocscaffold/ocscaffold/utils"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func testDependencies(t *testing.T, answers map[string]string) (*RootDependencies, *bytes.Buffer) {
	t.Helper()
	workspace := t.TempDir()
	cfg := &config.Config{
		Workspace:    workspace,
		OutputPath:   "out",
		OcSourcePath: "src",
		Theme:        "dracula",
		LogLevel:     "info",
	}
	out := &bytes.Buffer{}
	return &RootDependencies{
		Cwd:      workspace,
		Config:   cfg,
		Logger:   zap.NewNop(),
		Indexer:  structure_indexer.NewStructureIndexer(cfg.SourceRoot, zap.NewNop()),
		Prompter: &utils.PresetPrompter{Answers: answers},
		Out:      out,
	}, out
}

func writeSourceTree(t *testing.T, rootDependencies *RootDependencies) {
	t.Helper()
	root, err := rootDependencies.Config.SourceRoot()
	require.NoError(t, err)

	files := map[string]string{
		"index.php": "<?php\ndefine('VERSION', '3.0.3.8');\n",
		"admin/controller/common/dashboard.php":                "<?php",
		"catalog/controller/common/home.php":                   "<?php",
		"catalog/model/catalog/product.php":                    "<?php",
		"catalog/view/theme/default/template/common/home.twig": "",
		"admin/language/en-gb/common/header.php":               "<?php",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestEnsureIndexed_DeclineAborts(t *testing.T) {
	deps, _ := testDependencies(t, map[string]string{"index_now": "no"})
	writeSourceTree(t, deps)

	err := ensureIndexed(context.Background(), deps, indexGateMessage("module"), false)

	assert.ErrorIs(t, err, app_errors.ErrUserCancelled)
	assert.False(t, deps.Indexer.IsIndexed())
}

func TestEnsureIndexed_DismissAborts(t *testing.T) {
	deps, _ := testDependencies(t, nil)
	writeSourceTree(t, deps)

	err := ensureIndexed(context.Background(), deps, indexGateMessage("module"), false)

	assert.ErrorIs(t, err, app_errors.ErrUserCancelled)
	assert.False(t, deps.Indexer.IsIndexed())
}

func TestEnsureIndexed_AcceptIndexes(t *testing.T) {
	deps, out := testDependencies(t, map[string]string{"index_now": "Index Now"})
	writeSourceTree(t, deps)

	require.NoError(t, ensureIndexed(context.Background(), deps, indexGateMessage("module"), false))

	assert.True(t, deps.Indexer.IsIndexed())
	assert.Equal(t, "3.0.3.8", deps.Indexer.GetVersion())
	assert.Contains(t, out.String(), "OpenCart 3.0.3.8 indexed successfully!")
}

func TestEnsureIndexed_SkipsPromptWhenIndexed(t *testing.T) {
	deps, _ := testDependencies(t, map[string]string{"index_now": "yes"})
	writeSourceTree(t, deps)
	_, err := deps.Indexer.Index(context.Background())
	require.NoError(t, err)

	// no answer left: a prompt would be a dismissal
	deps.Prompter = &utils.PresetPrompter{}
	assert.NoError(t, ensureIndexed(context.Background(), deps, indexGateMessage("module"), false))
}

func TestEnsureIndexed_FailedIndexAborts(t *testing.T) {
	deps, _ := testDependencies(t, nil)

	err := ensureIndexed(context.Background(), deps, indexGateMessage("module"), true)

	assert.ErrorIs(t, err, app_errors.ErrPathNotFound)
	assert.False(t, deps.Indexer.IsIndexed())
}

func TestIndexGateMessage(t *testing.T) {
	assert.Equal(t, "OpenCart files need to be indexed before generating modules.", indexGateMessage("module"))
	assert.Equal(t, "OpenCart files need to be indexed before generating OCMod.", indexGateMessage("ocmod"))
	assert.Equal(t, "OpenCart files need to be indexed before generating Twig templates.", indexGateMessage("twig"))
	assert.Equal(t, "OpenCart files need to be indexed before generating TPL templates.", indexGateMessage("tpl"))
}

func TestRunGenerator_GateNamesTheGenerator(t *testing.T) {
	deps, out := testDependencies(t, nil)
	writeSourceTree(t, deps)

	_, err := runGenerator(context.Background(), deps, newOCMod(), generatorOptions{
		Gated:   true,
		Yes:     true,
		Answers: map[string]string{"name": "My Mod", "code": "my_mod", "version": "1.0.0", "author": "Jane", "link": "https://example.com"},
	})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "indexed before generating OCMod.")
	assert.NotContains(t, out.String(), "generating modules")
	assert.True(t, deps.Indexer.IsIndexed())
}

func TestRunGenerator_ModuleEndToEnd(t *testing.T) {
	deps, out := testDependencies(t, map[string]string{"index_now": "yes"})
	writeSourceTree(t, deps)

	result, err := runGenerator(context.Background(), deps, newModule(), generatorOptions{
		Gated: true,
		Answers: map[string]string{
			"name":        "loyalty_points",
			"type":        "Admin",
			"description": "Loyalty Points",
		},
	})
	require.NoError(t, err)
	assert.Len(t, result.Written, 3)

	controller := filepath.Join(deps.Cwd, "out", "loyalty_points", "admin", "controller", "extension", "module", "loyalty_points.php")
	content, err := os.ReadFile(controller)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ControllerExtensionModuleLoyaltyPoints")

	assert.Contains(t, out.String(), "Module loyalty_points generated successfully!")
	assert.Contains(t, out.String(), controller)
}

func TestRunGenerator_SecondRunReportsUnchanged(t *testing.T) {
	deps, out := testDependencies(t, nil)
	answers := map[string]string{"name": "cart", "type": "Catalog", "description": "Cart"}

	_, err := runGenerator(context.Background(), deps, newModule(), generatorOptions{Answers: answers})
	require.NoError(t, err)
	out.Reset()

	_, err = runGenerator(context.Background(), deps, newModule(), generatorOptions{Answers: answers})
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out.String(), "(unchanged)"))
}

func TestRunGenerator_GateDeclinedWritesNothing(t *testing.T) {
	deps, out := testDependencies(t, map[string]string{"index_now": "no"})
	writeSourceTree(t, deps)

	_, err := runGenerator(context.Background(), deps, newModule(), generatorOptions{
		Gated:   true,
		Answers: map[string]string{"name": "cart", "type": "Admin", "description": ""},
	})

	assert.ErrorIs(t, err, app_errors.ErrUserCancelled)
	assert.NoDirExists(t, filepath.Join(deps.Cwd, "out"))
	assert.Empty(t, out.String())
}

func TestRunGenerator_DryRunPreviews(t *testing.T) {
	deps, out := testDependencies(t, nil)

	result, err := runGenerator(context.Background(), deps, newOCMod(), generatorOptions{
		DryRun:  true,
		Answers: map[string]string{"name": "My Mod", "code": "my_mod", "version": "1.0.0", "author": "Jane", "link": "https://example.com"},
	})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.NoFileExists(t, filepath.Join(deps.Cwd, "out", "my_mod.ocmod.xml"))
	assert.Contains(t, out.String(), "my_mod.ocmod.xml")
	assert.Contains(t, out.String(), "Dry run: 1 file(s) not written.")
}

func TestRunGenerator_CopyToClipboard(t *testing.T) {
	var copied string
	original := clipboardWriteAll
	clipboardWriteAll = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { clipboardWriteAll = original })

	deps, out := testDependencies(t, nil)
	_, err := runGenerator(context.Background(), deps, newOCMod(), generatorOptions{
		Copy:    true,
		Answers: map[string]string{"name": "My Mod", "code": "my_mod", "version": "1.0.0", "author": "Jane", "link": "https://example.com"},
	})
	require.NoError(t, err)

	assert.Contains(t, copied, "<code>my_mod</code>")
	assert.Contains(t, out.String(), "Copied my_mod.ocmod.xml to the clipboard.")
}

func TestRunGenerator_ClipboardFailureIsNotFatal(t *testing.T) {
	original := clipboardWriteAll
	clipboardWriteAll = func(string) error { return errors.New("no clipboard") }
	t.Cleanup(func() { clipboardWriteAll = original })

	deps, out := testDependencies(t, nil)
	_, err := runGenerator(context.Background(), deps, newModule(), generatorOptions{
		Copy:    true,
		Answers: map[string]string{"name": "cart", "type": "Both", "description": ""},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Could not copy to the clipboard.")
}

func TestRunGenerator_MissingWorkspace(t *testing.T) {
	deps, _ := testDependencies(t, nil)
	deps.Config.Workspace = ""

	_, err := runGenerator(context.Background(), deps, newModule(), generatorOptions{})
	assert.ErrorIs(t, err, app_errors.ErrConfigurationMissing)
}

func TestPrintIndexState_Formats(t *testing.T) {
	state := models.Empty()
	state.Ready = true
	state.Version = "3.0.3.8"
	state.Controllers = []string{"admin/controller/common/dashboard.php"}

	var buf bytes.Buffer
	require.NoError(t, printIndexState(&buf, state, "json"))
	var decoded models.IndexState
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, state.Controllers, decoded.Controllers)

	buf.Reset()
	require.NoError(t, printIndexState(&buf, state, "yaml"))
	var fromYAML map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "3.0.3.8", fromYAML["version"])

	buf.Reset()
	require.NoError(t, printIndexState(&buf, state, "table"))
	assert.Contains(t, buf.String(), "Controllers")
	assert.Contains(t, buf.String(), "Version: 3.0.3.8")
}

func TestHandleIndexCommand_RejectsUnknownFormat(t *testing.T) {
	deps, _ := testDependencies(t, nil)
	writeSourceTree(t, deps)

	err := handleIndexCommand(context.Background(), deps, "xml", false, false)
	assert.ErrorIs(t, err, app_errors.ErrInvalidInput)
	assert.False(t, deps.Indexer.IsIndexed())
}

func TestHandleIndexCommand_Stats(t *testing.T) {
	deps, out := testDependencies(t, nil)
	writeSourceTree(t, deps)

	require.NoError(t, handleIndexCommand(context.Background(), deps, "table", false, true))
	assert.Contains(t, out.String(), "Index Statistics:")
	assert.Contains(t, out.String(), "total_runs: 1")
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer

	reportError(&buf, zap.NewNop(), nil)
	reportError(&buf, zap.NewNop(), app_errors.ErrUserCancelled)
	reportError(&buf, zap.NewNop(), context.Canceled)
	assert.Empty(t, buf.String())

	reportError(&buf, zap.NewNop(), errors.New("disk full"))
	assert.Contains(t, buf.String(), "disk full")
}

func TestReadGeneratorOptions_OnlyChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("name", "", "")
	cmd.Flags().String("type", "", "")
	cmd.Flags().String("description", "", "")
	addGeneratorFlags(cmd)

	require.NoError(t, cmd.Flags().Set("name", "cart"))
	require.NoError(t, cmd.Flags().Set("description", ""))
	require.NoError(t, cmd.Flags().Set("dry-run", "true"))

	opts := readGeneratorOptions(cmd, map[string]string{"name": "name", "type": "type", "description": "description"})

	assert.Equal(t, map[string]string{"name": "cart", "description": ""}, opts.Answers)
	assert.True(t, opts.DryRun)
	assert.False(t, opts.Copy)
}

func TestDocumentTarget(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("file", "f", "", "")

	assert.Equal(t, filepath.Join("/work", "a.twig"), documentTarget(cmd, []string{"a.twig"}, "/work"))
	assert.Equal(t, "", documentTarget(cmd, nil, "/work"))

	require.NoError(t, cmd.Flags().Set("file", "/abs/b.tpl"))
	assert.Equal(t, "/abs/b.tpl", documentTarget(cmd, []string{"a.twig"}, "/work"))
}

func TestRunMenuLoop_ReusesIndexBetweenActions(t *testing.T) {
	deps, out := testDependencies(t, map[string]string{
		"name": "cart", "type": "Admin", "description": "Cart",
	})
	writeSourceTree(t, deps)

	// settings are re-read before every action
	outputPath := "out"
	base := *deps.Config
	deps.LoadConfig = func() (*config.Config, error) {
		cfg := base
		cfg.OutputPath = outputPath
		return &cfg, nil
	}

	actions := []panel.Action{panel.ActionIndex, panel.ActionGenerateModule, panel.ActionGenerateModule, panel.ActionSettings, panel.ActionNone}
	var statuses []string
	original := showMenu
	showMenu = func(ctx context.Context, status string) (panel.Action, error) {
		statuses = append(statuses, status)
		if len(statuses) == 3 {
			outputPath = "edited"
		}
		next := actions[0]
		actions = actions[1:]
		return next, nil
	}
	t.Cleanup(func() { showMenu = original })

	require.NoError(t, runMenuLoop(context.Background(), deps))

	require.Len(t, statuses, 5)
	assert.Equal(t, "OpenCart files not indexed", statuses[0])
	assert.Contains(t, statuses[1], "OpenCart 3.0.3.8 indexed")
	assert.Contains(t, out.String(), "Module cart generated successfully!")
	assert.Contains(t, out.String(), "oc_source_path")
	assert.FileExists(t, filepath.Join(deps.Cwd, "out", "cart", "admin", "controller", "extension", "module", "cart.php"))
	assert.FileExists(t, filepath.Join(deps.Cwd, "edited", "cart", "admin", "controller", "extension", "module", "cart.php"))
	assert.Contains(t, out.String(), filepath.Join(deps.Cwd, "edited"))
	assert.Equal(t, "edited", deps.Config.OutputPath)
}

func TestRunGenerator_ConfigLoadError(t *testing.T) {
	deps, _ := testDependencies(t, nil)
	deps.LoadConfig = func() (*config.Config, error) {
		return nil, errors.New("bad config file")
	}

	_, err := runGenerator(context.Background(), deps, newModule(), generatorOptions{})
	assert.EqualError(t, err, "bad config file")
}

func TestRunMenuLoop_ErrorsDoNotEndTheLoop(t *testing.T) {
	deps, out := testDependencies(t, map[string]string{"file": "", "index_now": "yes"})
	writeSourceTree(t, deps)

	actions := []panel.Action{panel.ActionGenerateTwig, panel.ActionNone}
	original := showMenu
	showMenu = func(ctx context.Context, status string) (panel.Action, error) {
		next := actions[0]
		actions = actions[1:]
		return next, nil
	}
	t.Cleanup(func() { showMenu = original })

	require.NoError(t, runMenuLoop(context.Background(), deps))
	assert.Contains(t, out.String(), app_errors.ErrNoActiveContext.Error())
	assert.Empty(t, actions)
}

func TestRunChat(t *testing.T) {
	deps, out := testDependencies(t, nil)
	reader := bufio.NewReader(strings.NewReader("hello\n\n/history\n/nope\n/exit\nignored\n"))

	require.NoError(t, runChat(context.Background(), deps, reader))

	text := out.String()
	assert.Contains(t, text, "Message sent: hello")
	assert.Contains(t, text, "user: hello")
	assert.Contains(t, text, "Unknown command /nope")
	assert.NotContains(t, text, "Message sent: ignored")
}

func TestRunChat_EndOfInputExits(t *testing.T) {
	deps, out := testDependencies(t, nil)

	require.NoError(t, runChat(context.Background(), deps, bufio.NewReader(strings.NewReader("hi\n"))))
	assert.Contains(t, out.String(), "Exiting...")
}

func TestPrintConfig(t *testing.T) {
	deps, _ := testDependencies(t, nil)

	var buf bytes.Buffer
	require.NoError(t, printConfig(&buf, deps.Config, "yaml"))

	var decoded settingsView
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "out", decoded.OutputPath)
	assert.Equal(t, filepath.Join(deps.Cwd, "src"), decoded.SourceRoot)

	assert.ErrorIs(t, printConfig(&buf, deps.Config, "toml"), app_errors.ErrInvalidInput)
}

func newModule() contracts.IGenerator { return template_generator.NewModuleGenerator() }
func newOCMod() contracts.IGenerator  { return template_generator.NewOCModGenerator() }
