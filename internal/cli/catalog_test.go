package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluidtypo3/fluxactions/internal/compiler"
	"github.com/fluidtypo3/fluxactions/internal/ir"
	"github.com/fluidtypo3/fluxactions/internal/store"
)

// runRoot executes the full command tree and returns stdout.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func importFluxCatalog(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "fluxactions.db")
	out, err := runRoot(t, "catalog", "import", fluxSpecs, "--db", dbPath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Imported 3 controller(s), 1 alias(es), 1 plugin(s)")
	return dbPath
}

func TestCatalogImportRequiresDB(t *testing.T) {
	t.Setenv(EnvDB, "")

	out, err := runRoot(t, "catalog", "import", fluxSpecs)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "no database")
}

func TestCatalogImportAndList(t *testing.T) {
	dbPath := importFluxCatalog(t)

	out, err := runRoot(t, "--format", "json", "catalog", "list", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   CatalogSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Len(t, resp.Data.Controllers, 3)
	require.Len(t, resp.Data.Aliases, 1)
	assert.Equal(t, `FluidTYPO3\Flux\Controller\OtherController`, resp.Data.Aliases[0].Alias)
	assert.Equal(t, `FluidTYPO3\Flux\Controller\ContentController`, resp.Data.Aliases[0].Target)
	require.Len(t, resp.Data.Plugins, 1)
	assert.Equal(t, "API", resp.Data.Plugins[0].PluginName)
	assert.Equal(t, 3, resp.Data.Plugins[0].Actions.Count())
}

func TestCatalogListText(t *testing.T) {
	dbPath := importFluxCatalog(t)

	out, err := runRoot(t, "catalog", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Controllers (3):")
	assert.Contains(t, out, "fakeWithRequiredArgument*")
	assert.Contains(t, out, `FluidTYPO3\Flux\Controller\OtherController => FluidTYPO3\Flux\Controller\ContentController`)
	assert.Contains(t, out, "Plugins (1):")
}

func TestCatalogListEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "empty.db")

	out, err := runRoot(t, "catalog", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog is empty.")
}

func TestCatalogDBFromEnvironment(t *testing.T) {
	dbPath := importFluxCatalog(t)
	t.Setenv(EnvDB, dbPath)

	out, err := runRoot(t, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Controllers (3):")
}

func TestResolveWithStoredCatalog(t *testing.T) {
	dbPath := importFluxCatalog(t)

	out, err := runRoot(t, "--format", "json", "resolve", fluxSpecs,
		"--db", dbPath, "--stored-catalog", "--field", "plugin")
	require.NoError(t, err, out)

	var resp resolveResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Fields, 1)
	assert.Equal(t, []ir.ResolvedItem{
		{Label: "render->Content", Reference: "Content->render"},
		{Label: "Fake Action", Reference: "Content->fake"},
	}, resp.Data.Fields[0].Items)
}

func TestRunsCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	_, err := runRoot(t, "resolve", fluxSpecs, "--db", dbPath, "--field", "main")
	require.NoError(t, err)
	_, err = runRoot(t, "resolve", fluxSpecs, "--db", dbPath, "--field", "legacy,main")
	require.NoError(t, err)

	out, err := runRoot(t, "--format", "json", "runs", "--db", dbPath, "--field", "main")
	require.NoError(t, err)

	var list struct {
		Data []store.ResolutionRun `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Data, 2)
	assert.Less(t, list.Data[0].Seq, list.Data[1].Seq)
	assert.Equal(t, list.Data[0].ItemsHash, list.Data[1].ItemsHash)

	out, err = runRoot(t, "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count([]byte(out), []byte("item(s)")))

	out, err = runRoot(t, "runs", "--db", dbPath, "--id", list.Data[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Content->render;Content->fake")
}

func TestRunsCommandUnknownID(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := runRoot(t, "--format", "json", "runs", "--db", dbPath, "--id", "missing")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, compiler.ErrCodeNotFound, resp.Error.Code)
}

func TestRunsCommandEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := runRoot(t, "runs", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}
