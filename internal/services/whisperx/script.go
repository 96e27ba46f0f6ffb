package whisperx

const alignScript = `
import json
import sys


def progress(marker):
    print("lyricalign:progress " + marker, file=sys.stderr, flush=True)


def as_float(value):
    if value is None:
        return None
    return float(value)


def main():
    if len(sys.argv) < 7:
        raise SystemExit("usage: <audio_path> <lyrics_path> <output_json> <language> <device> <model>")
    audio_path, lyrics_path, output_path, language, device, model_name = sys.argv[1:7]
    language = (language or "en").strip() or "en"

    with open(lyrics_path, "r", encoding="utf-8") as handle:
        text = handle.read()

    progress("loading_model")
    import whisperx

    if device == "auto":
        import torch
        device = "cuda" if torch.cuda.is_available() else "cpu"

    audio = whisperx.load_audio(audio_path)
    kwargs = {}
    if model_name and model_name != "auto":
        kwargs["model_name"] = model_name
    align_model, metadata = whisperx.load_align_model(language_code=language, device=device, **kwargs)
    progress("model_loaded")

    progress("aligning")
    duration = len(audio) / float(whisperx.audio.SAMPLE_RATE)
    segments = [{"text": text, "start": 0.0, "end": duration}]
    aligned = whisperx.align(
        segments,
        align_model,
        metadata,
        audio,
        device,
        return_char_alignments=False,
    )
    progress("alignment_complete")

    out = []
    for segment in aligned.get("segments", []):
        words = []
        for word in segment.get("words", []):
            words.append({
                "word": word.get("word", ""),
                "start": as_float(word.get("start")),
                "end": as_float(word.get("end")),
                "score": as_float(word.get("score")),
            })
        out.append({
            "text": segment.get("text", ""),
            "start": as_float(segment.get("start")),
            "end": as_float(segment.get("end")),
            "words": words,
        })

    with open(output_path, "w", encoding="utf-8") as handle:
        json.dump({"language": language, "segments": out}, handle, ensure_ascii=False)


if __name__ == "__main__":
    main()
`
