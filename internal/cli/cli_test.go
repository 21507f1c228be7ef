package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repotrading/navigator/internal/paths"
	"github.com/repotrading/navigator/pkg/types"
)

const fixtureV2 = "testdata/contracts_v2.jsonl"

// testEnv isolates one CLI invocation sequence in temporary directories.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(envPrefix+"_"+strings.ToUpper(key), "")
	}
	return &testEnv{t: t, configDir: t.TempDir(), dataDir: t.TempDir()}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func (e *testEnv) run(args ...string) result {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := run(full, &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	res := e.run(args...)
	require.Equal(e.t, exitSuccess, res.code, "stderr: %s", res.stderr)
	return res.stdout
}

func (e *testEnv) loadFixture() {
	e.t.Helper()
	e.mustRun("load", fixtureV2)
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("version")
	assert.Contains(t, out, "navigator v"+Version)
	assert.Contains(t, out, "module: "+modulePath)
	assert.Contains(t, out, "config: navigator-config 2.0")

	t.Setenv("NAVIGATOR_CONFIG_MAJOR", "1")
	out = env.mustRun("version", "--json")
	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "navigator-config 1.0", info.Config)
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("init")
	assert.Contains(t, out, "initialized")

	configPath := filepath.Join(env.configDir, paths.ConfigFileName)
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "config_major: 2")
	assert.FileExists(t, filepath.Join(env.dataDir, paths.ContractsFileName))
	assert.Equal(t, paths.SourceFlag, current.ConfigDir.Source)

	require.NoError(t, os.WriteFile(configPath, []byte("backend: sqlite\nconfig_major: 1\nengine_major: 1\n"), 0o644))
	env.mustRun("init")
	data, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_major: 1", "existing config must be kept")
}

func TestConfigFileSelectsVariant(t *testing.T) {
	env := newTestEnv(t)
	cfg := "config_major: 1\nengine_major: 1\nuser: alice\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, paths.ConfigFileName), []byte(cfg), 0o644))

	env.mustRun("views")
	assert.Equal(t, 1, current.ConfigMajor)
	assert.Equal(t, 1, current.EngineMajor)
	assert.Equal(t, "alice", current.User)

	env.mustRun("views", "--user", "bob")
	assert.Equal(t, "bob", current.User)

	t.Setenv("NAVIGATOR_ROLE", "viewer")
	env.mustRun("views")
	assert.Equal(t, "viewer", current.Role)
}

func TestViews(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("views")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "KEY"))
	assert.True(t, strings.HasPrefix(lines[2], "assets"))
	assert.True(t, strings.HasPrefix(lines[3], "ccp"))
	assert.Contains(t, lines[3], "CCP Role")
	assert.True(t, strings.HasPrefix(lines[4], "dvps"))
	assert.True(t, strings.HasPrefix(lines[5], "trades"))
	assert.Contains(t, lines[5], "true")
}

func TestViewsJSON(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("views", "--json")

	var set map[string]struct {
		Type            string `json:"type"`
		Title           string `json:"title"`
		IncludeArchived bool   `json:"includeArchived"`
		Columns         []struct {
			Key string `json:"key"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	require.Len(t, set, 4)
	assert.Equal(t, "table-view", set["trades"].Type)
	assert.True(t, set["trades"].IncludeArchived)
	assert.False(t, set["assets"].IncludeArchived)
	assert.Len(t, set["trades"].Columns, 14)
	assert.Len(t, set["dvps"].Columns, 9)
}

func TestLoad(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("load", fixtureV2, "--json")

	var res loadResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 5, res.Loaded)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"#1:0", "#3:1", "#7:0", "#8:0", "#9:2"}, res.IDs)

	res2 := env.run("load", filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Equal(t, exitUserError, res2.code)
}

func TestRenderTrades(t *testing.T) {
	env := newTestEnv(t)
	env.loadFixture()

	out := env.mustRun("render", "trades", "--json")
	var table struct {
		Title string `json:"title"`
		Rows  []struct {
			ID    string `json:"id"`
			Cells []struct {
				Type  string  `json:"type"`
				Value *string `json:"value"`
			} `json:"cells"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Equal(t, "Trades", table.Title)
	require.Len(t, table.Rows, 2, "archived trades are included")
	assert.Equal(t, "#7:0", table.Rows[0].ID)

	cells := table.Rows[0].Cells
	require.Len(t, cells, 14)
	require.NotNil(t, cells[1].Value)
	assert.Equal(t, "7", *cells[1].Value)
	require.NotNil(t, cells[2].Value)
	assert.Equal(t, "2019-05-01", *cells[2].Value)
	assert.Equal(t, "text", cells[2].Type)

	archived := table.Rows[1]
	assert.Equal(t, "#8:0", archived.ID)
	assert.Nil(t, archived.Cells[2].Value, "missing trade date is absent")
}

const fixtureTrades = "testdata/trades.csv"

type tradesTable struct {
	Columns []struct {
		Key string `json:"key"`
	} `json:"columns"`
	Rows []struct {
		ID    string `json:"id"`
		Cells []struct {
			Value *string `json:"value"`
		} `json:"cells"`
	} `json:"rows"`
}

// byTradeID indexes rendered trade rows by trade id, each row keyed by
// column key.
func (tt tradesTable) byTradeID(t *testing.T) map[string]map[string]string {
	t.Helper()
	out := map[string]map[string]string{}
	for _, row := range tt.Rows {
		require.Len(t, row.Cells, len(tt.Columns))
		cells := map[string]string{}
		for i, c := range row.Cells {
			if c.Value != nil {
				cells[tt.Columns[i].Key] = *c.Value
			}
		}
		out[cells["tradeId"]] = cells
	}
	return out
}

func TestLoadTradesCSV(t *testing.T) {
	for _, major := range []string{"1", "2"} {
		t.Run("config major "+major, func(t *testing.T) {
			env := newTestEnv(t)
			t.Setenv("NAVIGATOR_CONFIG_MAJOR", major)
			t.Setenv("NAVIGATOR_ENGINE_MAJOR", major)

			out := env.mustRun("load", fixtureTrades, "--json")
			var res loadResult
			require.NoError(t, json.Unmarshal([]byte(out), &res))
			assert.Equal(t, 3, res.Loaded)
			assert.Equal(t, 1, res.Skipped)

			out = env.mustRun("render", "trades", "--json")
			var table tradesTable
			require.NoError(t, json.Unmarshal([]byte(out), &table))
			require.Len(t, table.Rows, 3)

			rows := table.byTradeID(t)
			require.Contains(t, rows, "101")
			trade := rows["101"]
			assert.Equal(t, "2019-05-01", trade["tradeDate"])
			assert.Equal(t, "2019-05-02", trade["settlementDate"])
			assert.Equal(t, "912796TP4", trade["cusip"])
			assert.Equal(t, "Bank1", trade["buyer"], "the lender buys the collateral")
			assert.Equal(t, "Bank2", trade["seller"], "the borrower sells it")
			assert.Equal(t, "USD", trade["ccy"])
			assert.Equal(t, "995000", trade["startAmount"])
			assert.Equal(t, "0.0225", trade["repoRate"])
			assert.Equal(t, "4", trade["term"])
			assert.Equal(t, "EUR", rows["103"]["ccy"])
		})
	}
}

func TestLoadTradesCSVForLender(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun("load", fixtureTrades, "--lender", "Bank1", "--json")
	var res loadResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Loaded)

	out = env.mustRun("render", "trades", "--json")
	var table tradesTable
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	rows := table.byTradeID(t)
	assert.Len(t, rows, 2)
	assert.NotContains(t, rows, "103")
}

func TestLoadTradesCSVMissingColumn(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, os.WriteFile(src, []byte("lender,borrower,tradeId\nBank1,Bank2,1\n"), 0o644))

	res := env.run("load", src)
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "cusip")
}

func TestRenderAssetsText(t *testing.T) {
	env := newTestEnv(t)
	env.loadFixture()

	out := env.mustRun("render", "assets")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Symbol")
	assert.True(t, strings.HasPrefix(lines[2], "#3:1"))
	assert.Contains(t, lines[2], "Cash")
	assert.Contains(t, lines[2], "Alice")
	assert.Contains(t, lines[2], "USD")
	assert.Contains(t, lines[2], "1000.0")
}

func TestRenderDvPs(t *testing.T) {
	env := newTestEnv(t)
	env.loadFixture()

	out := env.mustRun("render", "dvps")
	assert.Contains(t, out, "#9:2")
	assert.Contains(t, out, "DvP.SomeType")
	assert.Contains(t, out, "2019-05-03")
}

func TestRenderErrors(t *testing.T) {
	env := newTestEnv(t)

	res := env.run("render", "positions")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "view not found")

	res = env.run("render")
	assert.Equal(t, exitUserError, res.code)

	t.Setenv("NAVIGATOR_ENGINE_MAJOR", "1")
	res = env.run("render", "trades")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, "schema version")
	assert.NoFileExists(t, paths.Store{Dir: env.dataDir}.Database(), "store is not touched on mismatch")

	t.Setenv("NAVIGATOR_ENGINE_MAJOR", "")
	t.Setenv("NAVIGATOR_CONFIG_MAJOR", "3")
	res = env.run("views")
	assert.Equal(t, exitUserError, res.code)
}

func TestArchive(t *testing.T) {
	env := newTestEnv(t)
	env.loadFixture()

	out := env.mustRun("archive", "#3:1")
	assert.Contains(t, out, "Archived #3:1")

	out = env.mustRun("render", "assets")
	assert.NotContains(t, out, "#3:1")

	res := env.run("archive", "#404:0")
	assert.Equal(t, exitUserError, res.code)
}

func TestUnknownBackend(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("NAVIGATOR_BACKEND", "postgres")

	res := env.run("render", "ccp")
	assert.Equal(t, exitUserError, res.code)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"user error", userError(errors.New("bad flag")), exitUserError},
		{"view not found", types.ErrViewNotFound, exitUserError},
		{"schema mismatch", types.ErrSchemaVersionMismatch, exitUserError},
		{"wrapped not found", errors.Join(errors.New("archive"), types.ErrNotFound), exitUserError},
		{"unknown command", errors.New(`unknown command "foo" for "navigator"`), exitUserError},
		{"system", errors.New("disk full"), exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestWriteConfigIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), paths.ConfigFileName)
	require.NoError(t, writeConfigIfMissing(path, "/data"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "data_dir: /data")
	assert.Contains(t, string(data), "engine_major: 2")
	assert.Contains(t, string(data), "log_level: warn")
}
