package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gamelink/internal/testsupport"
)

const metacriticExport = `title,url,metascore,release_date,developer,genres,platform
1. Half-Life 2,/game/half-life-2/,96,"Nov 16, 2004",Valve,Shooter,PC
2. Outer Wilds,https://www.metacritic.com/game/outer-wilds/,85,"May 28, 2019",Mobius Digital,Adventure,PC
`

const steamExport = `title,app_id,app_url,price,review_summary,review_count,release_date,developer,tags
Half Life 2,220,https://store.steampowered.com/app/220/,$9.99,Very Positive,"123,456","16 Nov, 2004",Valve Corporation,"FPS, Classic"
Stardew Valley,413150,https://store.steampowered.com/app/413150/,$14.99,Overwhelmingly Positive,"500,000","26 Feb, 2016",ConcernedApe,Farming Sim
`

type cliTestEnv struct {
	baseDir    string
	configPath string
	outputDir  string
	inputA     string
	inputB     string
}

// setupCLITestEnv writes a config rooted in a temp directory plus one
// export per source. extra is appended to the config file.
func setupCLITestEnv(t *testing.T, extra string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "gamelink.toml"),
		outputDir:  filepath.Join(base, "output"),
	}
	content := fmt.Sprintf("[paths]\noutput_dir = %q\nstate_dir = %q\nlog_dir = %q\n\n[logging]\nlevel = \"error\"\n\n%s",
		env.outputDir,
		filepath.Join(base, "state"),
		filepath.Join(base, "logs"),
		extra,
	)
	testsupport.WriteFile(t, env.configPath, content)
	env.inputA = testsupport.WriteFile(t, filepath.Join(base, "in", "metacritic.csv"), metacriticExport)
	env.inputB = testsupport.WriteFile(t, filepath.Join(base, "in", "steam.csv"), steamExport)
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file at %s: %v", path, err)
	}
}
