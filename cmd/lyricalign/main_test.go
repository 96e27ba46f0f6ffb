package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lyricalign/internal/testsupport"
)

const okHelper = `#!/bin/sh
out="$5"
echo "lyricalign:progress loading_model" >&2
echo "lyricalign:progress model_loaded" >&2
echo "lyricalign:progress aligning" >&2
printf '%s' '{"language":"en","segments":[{"text":" Hello world","start":0.0,"end":0.9,"words":[{"word":" Hello","start":0.0,"end":0.42,"probability":0.93},{"word":" world","start":0.42,"end":0.9,"probability":0.88}]},{"text":" again","start":1.1,"end":1.6,"words":[{"word":" again","start":1.1,"end":1.6}]}]}' > "$out"
echo "lyricalign:progress alignment_complete" >&2
echo "helper chatter that must never reach stdout"
`

const failingHelper = `#!/bin/sh
echo "lyricalign:progress loading_model" >&2
echo "lyricalign:progress model_loaded" >&2
echo "lyricalign:progress aligning" >&2
echo "RuntimeError: Failed to load audio" >&2
exit 1
`

type cliEnv struct {
	base       string
	configPath string
	python     string
	audio      string
	lyrics     string
	cachePath  string
}

func setupCLIEnv(t *testing.T, helper string, cacheEnabled bool) *cliEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "xdg"))
	t.Setenv("LYRICALIGN_PYTHON", "")
	t.Setenv("HF_TOKEN", "")
	t.Setenv("HUGGING_FACE_HUB_TOKEN", "")
	t.Chdir(base)

	env := &cliEnv{
		base:       base,
		configPath: filepath.Join(base, "lyricalign.toml"),
		python:     filepath.Join(base, "bin", "python3"),
		audio:      testsupport.WriteWAV(t, filepath.Join(base, "in", "song.wav"), 16000, 16000),
		lyrics:     testsupport.WriteText(t, filepath.Join(base, "in", "lyrics.txt"), "Hello world\nagain\n"),
		cachePath:  filepath.Join(base, "cache", "alignments.db"),
	}
	env.setHelper(t, helper)

	content := fmt.Sprintf(`[aligner]
python_binary = %q

[paths]
work_dir = %q

[cache]
enabled = %t
path = %q
`, env.python, filepath.Join(base, "work"), cacheEnabled, env.cachePath)
	testsupport.WriteText(t, env.configPath, content)
	return env
}

func (e *cliEnv) setHelper(t *testing.T, script string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(e.python), 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	if err := os.WriteFile(e.python, []byte(script), 0o755); err != nil {
		t.Fatalf("write helper stub: %v", err)
	}
}

func runCLI(t *testing.T, env *cliEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func decodeStrict(t *testing.T, stdout string) []map[string]any {
	t.Helper()
	var entries []map[string]any
	dec := json.NewDecoder(strings.NewReader(stdout))
	if err := dec.Decode(&entries); err != nil {
		t.Fatalf("stdout is not a JSON array: %v\n%s", err, stdout)
	}
	if dec.More() {
		t.Fatalf("trailing data after JSON array:\n%s", stdout)
	}
	for i, entry := range entries {
		if len(entry) != 3 {
			t.Fatalf("entry %d has keys %v, want exactly word/start/end", i, entry)
		}
		if _, ok := entry["word"].(string); !ok {
			t.Fatalf("entry %d word is not a string: %#v", i, entry["word"])
		}
		for _, key := range []string{"start", "end"} {
			if _, ok := entry[key].(float64); !ok {
				t.Fatalf("entry %d %s is not a number: %#v", i, key, entry[key])
			}
		}
	}
	return entries
}

func TestAlignWritesOnlyJSONToStdout(t *testing.T) {
	env := setupCLIEnv(t, okHelper, false)

	stdout, stderr, err := runCLI(t, env, env.audio, env.lyrics)
	if err != nil {
		t.Fatalf("align: %v\nstderr:\n%s", err, stderr)
	}
	entries := decodeStrict(t, stdout)
	if len(entries) != 3 {
		t.Fatalf("expected 3 words, got %d", len(entries))
	}
	if entries[0]["word"] != " Hello" || entries[2]["word"] != " again" {
		t.Fatalf("word text or order changed: %v", entries)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1]["start"].(float64) > entries[i]["start"].(float64) {
			t.Fatalf("output reordered at %d", i)
		}
	}
	if !strings.HasPrefix(stdout, "[\n  {\n    \"word\"") {
		t.Fatalf("expected 2-space indented output, got:\n%s", stdout)
	}
	for _, msg := range []string{"Loading model...", "Model loaded.", "Aligning...", "Alignment complete."} {
		requireContains(t, stderr, msg)
		if strings.Contains(stdout, msg) {
			t.Fatalf("progress %q leaked to stdout", msg)
		}
	}
	if strings.Contains(stdout, "helper chatter") {
		t.Fatal("helper stdout leaked")
	}
}

func TestAlignMissingLyricsFails(t *testing.T) {
	env := setupCLIEnv(t, okHelper, false)

	stdout, _, err := runCLI(t, env, env.audio, filepath.Join(env.base, "missing.txt"))
	if err == nil {
		t.Fatal("expected error for missing lyrics")
	}
	requireContains(t, err.Error(), "missing.txt")
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
}

func TestAlignCorruptAudioFails(t *testing.T) {
	env := setupCLIEnv(t, failingHelper, false)
	testsupport.WriteText(t, env.audio, "this is not audio")

	stdout, stderr, err := runCLI(t, env, env.audio, env.lyrics)
	if err == nil {
		t.Fatal("expected error for corrupt wav")
	}
	requireContains(t, err.Error(), "Failed to load audio")
	requireContains(t, stderr, "wav header not readable")
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
}

func TestAlignStreamedWAVSucceeds(t *testing.T) {
	env := setupCLIEnv(t, okHelper, false)
	testsupport.WriteStreamedWAV(t, env.audio, 16000, 16000)

	stdout, stderr, err := runCLI(t, env, env.audio, env.lyrics)
	if err != nil {
		t.Fatalf("align: %v\nstderr:\n%s", err, stderr)
	}
	if entries := decodeStrict(t, stdout); len(entries) != 3 {
		t.Fatalf("expected 3 words, got %d", len(entries))
	}
}

func TestAlignHelperFailure(t *testing.T) {
	env := setupCLIEnv(t, failingHelper, false)

	stdout, _, err := runCLI(t, env, env.audio, env.lyrics)
	if err == nil {
		t.Fatal("expected helper failure")
	}
	requireContains(t, err.Error(), "Failed to load audio")
	if stdout != "" {
		t.Fatalf("expected empty stdout, got %q", stdout)
	}
}

// modelRecordingHelper behaves like okHelper and also writes the model
// argument it received to record.
func modelRecordingHelper(record string) string {
	return strings.Replace(okHelper, "#!/bin/sh\n", fmt.Sprintf("#!/bin/sh\nprintf '%%s' \"$6\" > %q\n", record), 1)
}

func TestAlignModelSelection(t *testing.T) {
	env := setupCLIEnv(t, okHelper, false)
	record := filepath.Join(env.base, "model.txt")
	env.setHelper(t, modelRecordingHelper(record))

	recordedModel := func(args ...string) string {
		t.Helper()
		if _, stderr, err := runCLI(t, env, append(args, env.audio, env.lyrics)...); err != nil {
			t.Fatalf("align %v: %v\nstderr:\n%s", args, err, stderr)
		}
		data, err := os.ReadFile(record)
		if err != nil {
			t.Fatalf("read recorded model: %v", err)
		}
		return string(data)
	}

	if got := recordedModel(); got != "base" {
		t.Fatalf("default model = %q, want base", got)
	}
	if got := recordedModel("--model", "large-v3"); got != "large-v3" {
		t.Fatalf("--model large-v3 passed %q", got)
	}

	content, err := os.ReadFile(env.configPath)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	updated := strings.Replace(string(content), "[aligner]\n", "[aligner]\nmodel = \"small\"\n", 1)
	testsupport.WriteText(t, env.configPath, updated)

	if got := recordedModel(); got != "small" {
		t.Fatalf("config model = %q, want small", got)
	}
	if got := recordedModel("--model", "medium"); got != "medium" {
		t.Fatalf("--model should override config, got %q", got)
	}
}

func TestAlignRequiresTwoArgs(t *testing.T) {
	env := setupCLIEnv(t, okHelper, false)
	if _, _, err := runCLI(t, env, env.audio); err == nil {
		t.Fatal("expected usage error with one argument")
	}
}

func TestAlignRejectsUnknownLanguage(t *testing.T) {
	env := setupCLIEnv(t, okHelper, false)
	_, _, err := runCLI(t, env, "--language", "klingonese", env.audio, env.lyrics)
	if err == nil {
		t.Fatal("expected error for unknown language")
	}
	requireContains(t, err.Error(), "unsupported language")
}

func TestAlignFramesOut(t *testing.T) {
	env := setupCLIEnv(t, okHelper, false)
	framesPath := filepath.Join(env.base, "out", "frames.json")

	stdout, _, err := runCLI(t, env, "--frames-out", framesPath, "--fps", "30", env.audio, env.lyrics)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	decodeStrict(t, stdout)

	data, err := os.ReadFile(framesPath)
	if err != nil {
		t.Fatalf("read frames: %v", err)
	}
	var frames []struct {
		Word       string  `json:"word"`
		Start      float64 `json:"start"`
		FrameStart int     `json:"frame_start"`
		FrameEnd   int     `json:"frame_end"`
	}
	if err := json.Unmarshal(data, &frames); err != nil {
		t.Fatalf("parse frames: %v", err)
	}
	if len(frames) != 3 || frames[1].FrameStart != 12 || frames[1].FrameEnd != 27 {
		t.Fatalf("unexpected frames: %+v", frames)
	}
}

func TestAlignCacheSkipsHelper(t *testing.T) {
	env := setupCLIEnv(t, okHelper, true)

	first, _, err := runCLI(t, env, env.audio, env.lyrics)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	env.setHelper(t, failingHelper)
	second, stderr, err := runCLI(t, env, env.audio, env.lyrics)
	if err != nil {
		t.Fatalf("cached run should not invoke helper: %v", err)
	}
	if first != second {
		t.Fatalf("cached output differs:\n%s\nvs\n%s", first, second)
	}
	requireContains(t, stderr, "cache=hit")

	if _, _, err := runCLI(t, env, "--no-cache", env.audio, env.lyrics); err == nil {
		t.Fatal("--no-cache should run the failing helper")
	}

	out, _, err := runCLI(t, env, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	requireContains(t, out, "Entries: 1")

	out, _, err = runCLI(t, env, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed 1 cached alignment(s)")
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLIEnv(t, okHelper, false)

	target := filepath.Join(env.base, "generated", "config.toml")
	out, _, err := runCLI(t, env, "config", "init", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, env, "config", "init", target); err == nil {
		t.Fatal("expected refusal to overwrite")
	}

	out, _, err = runCLI(t, env, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	var shown struct {
		Aligner struct {
			Backend      string `json:"backend"`
			Model        string `json:"model"`
			PythonBinary string `json:"python_binary"`
		} `json:"aligner"`
	}
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("config show is not JSON: %v", err)
	}
	if shown.Aligner.Backend != "stable-ts" || shown.Aligner.Model != "base" || shown.Aligner.PythonBinary != env.python {
		t.Fatalf("unexpected config: %+v", shown)
	}
}

func TestDoctor(t *testing.T) {
	env := setupCLIEnv(t, okHelper, false)
	t.Setenv("PATH", filepath.Dir(env.python))

	out, _, err := runCLI(t, env, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Python")
	requireContains(t, out, "Work directory")
	requireContains(t, out, "optional")

	if err := os.Remove(env.python); err != nil {
		t.Fatal(err)
	}
	out, _, err = runCLI(t, env, "doctor")
	if err == nil {
		t.Fatalf("expected doctor to fail without python:\n%s", out)
	}
	requireContains(t, err.Error(), "Python")
}
