package alignment

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func sampleResult() Result {
	p := 0.91
	return Result{
		Language: "en",
		Segments: []Segment{
			{Text: " hello world", Start: 0, End: 1.4, Words: []Word{
				{Word: " hello", Start: 0.0, End: 0.6, Probability: &p},
				{Word: " world", Start: 0.6, End: 1.4},
			}},
			{Text: " again", Start: 1.5, End: 2.0, Words: []Word{
				{Word: " again ", Start: 1.5, End: 2.0},
			}},
		},
	}
}

func TestFlattenPreservesOrderAndWhitespace(t *testing.T) {
	words := Flatten(sampleResult())
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %d", len(words))
	}
	want := []WordTiming{
		{Word: " hello", Start: 0.0, End: 0.6},
		{Word: " world", Start: 0.6, End: 1.4},
		{Word: " again ", Start: 1.5, End: 2.0},
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("word %d = %#v, want %#v", i, words[i], want[i])
		}
	}
}

func TestFlattenDoesNotReorder(t *testing.T) {
	result := Result{Segments: []Segment{{Words: []Word{
		{Word: "b", Start: 2, End: 3},
		{Word: "a", Start: 1, End: 2},
	}}}}
	words := Flatten(result)
	if words[0].Word != "b" || words[1].Word != "a" {
		t.Fatalf("expected aligner order to be kept, got %#v", words)
	}
}

func TestFlattenEmptyEncodesAsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Flatten(Result{})); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestEncodeUsesTwoSpaceIndentAndExactKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Flatten(sampleResult())); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "[\n  {\n    \"word\": \" hello\",") {
		t.Fatalf("unexpected indentation:\n%s", out)
	}

	var decoded []map[string]any
	dec := json.NewDecoder(strings.NewReader(out))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		t.Fatalf("strict decode failed: %v", err)
	}
	if dec.More() {
		t.Fatal("unexpected trailing content after JSON array")
	}
	for i, obj := range decoded {
		if len(obj) != 3 {
			t.Fatalf("entry %d has keys %v, want exactly word/start/end", i, obj)
		}
		if _, ok := obj["word"].(string); !ok {
			t.Fatalf("entry %d word is not a string: %#v", i, obj["word"])
		}
		for _, key := range []string{"start", "end"} {
			if _, ok := obj[key].(json.Number); !ok {
				t.Fatalf("entry %d %s is not a number: %#v", i, key, obj[key])
			}
		}
	}
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, []WordTiming{{Word: " rock & roll <3", Start: 1, End: 2}}); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "rock & roll <3") {
		t.Fatalf("expected literal characters, got %q", buf.String())
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	words := Flatten(sampleResult())
	data, err := Marshal(words)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if len(back) != len(words) || back[2] != words[2] {
		t.Fatalf("unexpected words %#v", back)
	}
	if _, err := Unmarshal([]byte("{")); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestDecodeResultDiscardsExtraFields(t *testing.T) {
	payload := `{"language":"en","segments":[{"text":" hi","start":0.1,"end":0.5,"avg_logprob":-0.2,
		"words":[{"word":" hi","start":0.1,"end":0.5,"probability":0.8,"tokens":[1,2]}]}]}`
	result, err := DecodeResult(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("DecodeResult returned error: %v", err)
	}
	if result.WordCount() != 1 {
		t.Fatalf("expected 1 word, got %d", result.WordCount())
	}
	w := result.Segments[0].Words[0]
	if w.Word != " hi" || w.Start != 0.1 || w.End != 0.5 {
		t.Fatalf("unexpected word %#v", w)
	}
	if w.Probability == nil || *w.Probability != 0.8 {
		t.Fatalf("expected probability to be decoded, got %v", w.Probability)
	}
}

func TestDecodeResultRejectsGarbage(t *testing.T) {
	if _, err := DecodeResult(strings.NewReader("Loading model...")); err == nil {
		t.Fatal("expected error for non-json input")
	}
}

func TestWithFramesFloors(t *testing.T) {
	frames := WithFrames([]WordTiming{{Word: " a", Start: 0.51, End: 1.0}}, 60)
	if frames[0].FrameStart != 30 || frames[0].FrameEnd != 60 {
		t.Fatalf("unexpected frames %#v", frames[0])
	}
	var buf bytes.Buffer
	if err := EncodeFrames(&buf, frames); err != nil {
		t.Fatalf("EncodeFrames returned error: %v", err)
	}
	if !strings.Contains(buf.String(), `"frame_start": 30`) {
		t.Fatalf("expected frame_start in output, got %q", buf.String())
	}
}

func TestStageMessages(t *testing.T) {
	want := map[Stage]string{
		StageLoadingModel:      "Loading model...",
		StageModelLoaded:       "Model loaded.",
		StageAligning:          "Aligning...",
		StageAlignmentComplete: "Alignment complete.",
	}
	for stage, msg := range want {
		if stage.String() != msg {
			t.Errorf("Stage(%d).String() = %q, want %q", stage, stage.String(), msg)
		}
	}
}

func TestMarkerFromLine(t *testing.T) {
	if stage, ok := MarkerFromLine("lyricalign:progress model_loaded"); !ok || stage != StageModelLoaded {
		t.Fatalf("unexpected marker parse: %v %v", stage, ok)
	}
	if _, ok := MarkerFromLine("100%|##########| 5/5"); ok {
		t.Fatal("expected non-marker line to be ignored")
	}
	if _, ok := MarkerFromLine("lyricalign:progress bogus"); ok {
		t.Fatal("expected unknown marker to be ignored")
	}
}

func TestStageTrackerRelaysMarkers(t *testing.T) {
	var stages []Stage
	var other []string
	tracker := NewStageTracker(func(s Stage) { stages = append(stages, s) }, func(line string) { other = append(other, line) })

	if tracker.ModelLoaded() {
		t.Fatal("fresh tracker must not report a loaded model")
	}
	tracker.HandleLine(ProgressPrefix + "loading_model")
	tracker.HandleLine("Downloading: 45%")
	if tracker.ModelLoaded() {
		t.Fatal("model not loaded yet")
	}
	tracker.HandleLine(ProgressPrefix + "model_loaded")
	tracker.HandleLine(ProgressPrefix + "aligning")

	if !tracker.ModelLoaded() {
		t.Fatal("expected model loaded")
	}
	reached, ok := tracker.Reached()
	if !ok || reached != StageAligning {
		t.Fatalf("expected aligning reached, got %v %v", reached, ok)
	}
	if len(stages) != 3 || stages[0] != StageLoadingModel || stages[2] != StageAligning {
		t.Fatalf("unexpected stages: %v", stages)
	}
	if len(other) != 1 || other[0] != "Downloading: 45%" {
		t.Fatalf("unexpected passthrough lines: %v", other)
	}
}
